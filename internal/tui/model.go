// SPDX-License-Identifier: MIT
// Package tui renders the spectrum analyzer in the terminal. The model ticks
// at roughly 30 fps, snapshots the analyzer and draws vertical band columns
// with optional peak markers.
package tui

import (
	"time"

	"github.com/TheAnsarya/ableton-snes-spc/internal/spectrum"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 33 * time.Millisecond

// Analyzer is the slice of the analysis engine the TUI drives.
// *spectrum.Analyzer satisfies it.
type Analyzer interface {
	NumBands() int
	ShowPeaks() bool
	LogScale() bool
	Snapshot(bands, peaks []float64) int
	SetNumBands(numBands int)
	SetShowPeaks(show bool)
	SetLogScale(logScale bool)
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the Bubbletea model for the spectrum display.
type Model struct {
	analyzer Analyzer
	title    string

	bands []float64
	peaks []float64
	n     int

	width    int
	height   int
	quitting bool
}

// New creates a Model reading from analyzer. title appears in the header,
// usually the capture device or the file being played.
func New(analyzer Analyzer, title string) Model {
	return Model{
		analyzer: analyzer,
		title:    title,
		bands:    make([]float64, spectrum.MaxBands),
		peaks:    make([]float64, spectrum.MaxBands),
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Peaks):
			m.analyzer.SetShowPeaks(!m.analyzer.ShowPeaks())
		case key.Matches(msg, keys.LogScale):
			m.analyzer.SetLogScale(!m.analyzer.LogScale())
		case key.Matches(msg, keys.MoreBands):
			m.analyzer.SetNumBands(m.analyzer.NumBands() * 2)
		case key.Matches(msg, keys.FewerBand):
			m.analyzer.SetNumBands(m.analyzer.NumBands() / 2)
		}
		return m, nil

	case tickMsg:
		m.n = m.analyzer.Snapshot(m.bands, m.peaks)
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"strings"

	"github.com/TheAnsarya/ableton-snes-spc/internal/spectrum"
)

// Unicode block elements, one cell of vertical resolution split eight ways.
var barBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const (
	defaultRows = 12
	maxBarWidth = 4
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.n == 0 {
		return headerStyle.Render("spcspectrum") + "\n  waiting for audio...\n"
	}

	rows := m.height - 4
	if rows < 6 {
		rows = defaultRows
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("spcspectrum"))
	sb.WriteString("  ")
	sb.WriteString(statusStyle.Render(m.title))
	sb.WriteString("\n\n")
	m.renderBars(&sb, rows)
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(m.statusLine()))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(helpText()))
	sb.WriteString("\n")
	return sb.String()
}

// renderBars draws the band columns top row first. Each column fills from the
// bottom; the topmost occupied cell uses a partial block for sub-row
// resolution, and the peak hold is drawn as an overline above the bar.
func (m Model) renderBars(sb *strings.Builder, rows int) {
	bw := 2
	if m.width > 0 {
		bw = (m.width - (m.n - 1)) / m.n
		if bw < 1 {
			bw = 1
		}
		if bw > maxBarWidth {
			bw = maxBarWidth
		}
	}

	showPeaks := m.analyzer.ShowPeaks()
	for r := rows; r >= 1; r-- {
		for b := range m.n {
			level := spectrum.Normalize(m.bands[b]) * float64(rows)

			var cell string
			switch {
			case level >= float64(r):
				cell = strings.Repeat(string(barBlocks[8]), bw)
			case level > float64(r-1):
				frac := int((level - float64(r-1)) * 8)
				cell = strings.Repeat(string(barBlocks[frac]), bw)
			default:
				cell = strings.Repeat(" ", bw)
			}

			style := barLowStyle
			switch {
			case r > rows*2/3:
				style = barHighStyle
			case r > rows/3:
				style = barMidStyle
			}

			if showPeaks {
				peakRow := int(spectrum.Normalize(m.peaks[b])*float64(rows)) + 1
				if peakRow == r && level < float64(r-1) {
					cell = peakStyle.Render(strings.Repeat("▔", bw))
				} else {
					cell = style.Render(cell)
				}
			} else {
				cell = style.Render(cell)
			}

			sb.WriteString(cell)
			if b < m.n-1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
}

func (m Model) statusLine() string {
	scale := "log"
	if !m.analyzer.LogScale() {
		scale = "linear"
	}
	peaks := "on"
	if !m.analyzer.ShowPeaks() {
		peaks = "off"
	}
	return fmt.Sprintf("%d bands  %s scale  peaks %s", m.n, scale, peaks)
}

// SPDX-License-Identifier: MIT
package tui

import "github.com/charmbracelet/lipgloss"

// Pre-built styles so View never allocates a style per frame.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})

	barLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	barMidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D29922"))
	barHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149"))
	peakStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#EEEEEE"})
)

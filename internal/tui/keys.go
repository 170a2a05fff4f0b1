// SPDX-License-Identifier: MIT
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Peaks     key.Binding
	LogScale  key.Binding
	MoreBands key.Binding
	FewerBand key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Peaks: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "peaks"),
	),
	LogScale: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "log/linear"),
	),
	MoreBands: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "more bands"),
	),
	FewerBand: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "fewer bands"),
	),
}

func helpText() string {
	return "p peaks  l log/linear  +/- bands  q quit"
}

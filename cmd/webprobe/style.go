package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	idStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA"))

	interfaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// plainOutput disables styling when stdout is not a terminal.
func plainOutput() {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	for _, s := range []*lipgloss.Style{&idStyle, &interfaceStyle, &valueStyle, &errorStyle} {
		*s = lipgloss.NewStyle()
	}
}

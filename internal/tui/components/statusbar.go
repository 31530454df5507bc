package components

import (
	"strings"

	"github.com/mproservicos/mpro/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left, a
// flash message and the data load time on the right. busy shows while a
// write or reload is in flight.
func RenderStatusBar(width int, hints, flash, dataAge string, flashIsErr, busy bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	flashStyle := lipgloss.NewStyle().
		Foreground(t.Green).
		Background(t.Surface).
		Bold(true)
	if flashIsErr {
		flashStyle = flashStyle.Foreground(t.Red)
	}

	left := " " + hints
	right := ""
	if busy {
		right = "saving... "
	} else if dataAge != "" {
		right = "Data: " + dataAge + " "
	}

	mid := ""
	if flash != "" {
		mid = flashStyle.Render(flash) + style.Render("  ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left+strings.Repeat(" ", padding)) + mid + style.Render(right)
}

package components

import (
	"fmt"
	"strings"

	"github.com/mproservicos/mpro/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // value as printed after the bar
}

// HBarChart renders one bar per row, scaled to the largest value. Labels are
// left-aligned in a column as wide as the longest label.
func HBarChart(bars []Bar, color lipgloss.Color, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		textW = max(textW, lipgloss.Width(b.Text))
		peak = max(peak, b.Value)
	}
	if peak <= 0 {
		peak = 1
	}

	barW := width - labelW - textW - 2
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	trackStyle := lipgloss.NewStyle().Foreground(t.SurfaceBright).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	// Eighth blocks give sub-cell resolution at the tip of each bar.
	tips := []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		v := b.Value
		if v < 0 {
			v = 0
		}
		cells := v / peak * float64(barW)
		full := int(cells)
		frac := int((cells - float64(full)) * 8)

		bar := strings.Repeat("█", full)
		if full < barW && frac > 0 {
			bar += string(tips[frac])
			full++
		}

		lines = append(lines,
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label))+
				spaceStyle.Render(" ")+
				barStyle.Render(bar)+
				trackStyle.Render(strings.Repeat("·", barW-full))+
				spaceStyle.Render(" ")+
				textStyle.Render(fmt.Sprintf("%*s", textW, b.Text)))
	}
	return strings.Join(lines, "\n")
}

package components

import (
	"strings"
	"testing"

	"github.com/mproservicos/mpro/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func TestHBarChartRowsShareWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := HBarChart([]Bar{
		{Label: "jan/26", Value: 100, Text: "R$ 100.00"},
		{Label: "fev/26", Value: 0, Text: "R$ 0.00"},
		{Label: "mar/26", Value: 37.5, Text: "R$ 37.50"},
	}, theme.Active.Green, 40)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 40 {
			t.Fatalf("line %d width = %d, want 40", i, w)
		}
	}
	if strings.Count(lines[0], "█") == 0 {
		t.Fatal("largest value drew no bar")
	}
	if strings.Contains(lines[1], "█") {
		t.Fatal("zero value drew a bar")
	}
}

func TestHBarChartEmpty(t *testing.T) {
	if got := HBarChart(nil, theme.Active.Green, 40); got != "" {
		t.Fatalf("HBarChart(nil) = %q, want empty", got)
	}
}

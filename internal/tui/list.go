package tui

import (
	"fmt"
	"strings"

	"github.com/mproservicos/mpro/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// listState is the cursor and scroll offset of a selectable list.
type listState struct {
	cursor int
	offset int
}

// move shifts the cursor by delta within n items.
func (l *listState) move(delta, n int) {
	l.cursor += delta
	l.clamp(n)
}

func (l *listState) top() {
	l.cursor = 0
	l.offset = 0
}

func (l *listState) bottom(n int) {
	l.cursor = n - 1
	l.clamp(n)
}

func (l *listState) clamp(n int) {
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// window returns the [start, end) slice of n items to draw in visible rows,
// keeping the cursor on screen.
func (l listState) window(visible, n int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	offset := l.offset
	if l.cursor < offset {
		offset = l.cursor
	}
	if l.cursor >= offset+visible {
		offset = l.cursor - visible + 1
	}
	if offset > n-visible {
		offset = max(0, n-visible)
	}
	end := offset + visible
	if end > n {
		end = n
	}
	return offset, end
}

// renderRows draws rows[start:end] with the cursor row highlighted, each row
// padded to innerW.
func renderRows(rows []string, l listState, visible, innerW int) string {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)

	start, end := l.window(visible, len(rows))
	var b strings.Builder
	for i := start; i < end; i++ {
		line := fmt.Sprintf("%-*s", innerW, truncStr(rows[i], innerW))
		if i == l.cursor {
			b.WriteString(selStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

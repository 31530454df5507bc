package tui

import "testing"

func TestListStateMoveClamps(t *testing.T) {
	var l listState
	l.move(-1, 5)
	if l.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", l.cursor)
	}
	l.move(10, 5)
	if l.cursor != 4 {
		t.Fatalf("cursor = %d, want 4", l.cursor)
	}
	l.clamp(2)
	if l.cursor != 1 {
		t.Fatalf("cursor after shrink = %d, want 1", l.cursor)
	}
	l.clamp(0)
	if l.cursor != 0 {
		t.Fatalf("cursor on empty list = %d, want 0", l.cursor)
	}
}

func TestListStateWindowFollowsCursor(t *testing.T) {
	tests := []struct {
		cursor, offset, visible, n int
		start, end                 int
	}{
		{0, 0, 3, 10, 0, 3},
		{5, 0, 3, 10, 3, 6},
		{2, 5, 3, 10, 2, 5},
		{9, 0, 3, 10, 7, 10},
		{1, 0, 5, 2, 0, 2},
	}
	for _, tt := range tests {
		l := listState{cursor: tt.cursor, offset: tt.offset}
		start, end := l.window(tt.visible, tt.n)
		if start != tt.start || end != tt.end {
			t.Errorf("cursor=%d offset=%d window(%d, %d) = [%d,%d), want [%d,%d)",
				tt.cursor, tt.offset, tt.visible, tt.n, start, end, tt.start, tt.end)
		}
	}
}

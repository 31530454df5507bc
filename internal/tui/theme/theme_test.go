package theme

import (
	"testing"

	"github.com/mproservicos/mpro/internal/model"
)

func TestByNameFallsBackToDefault(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("solarized"); got.Name != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, want %q", got.Name, FlexokiDark.Name)
	}
}

func TestStatusColor(t *testing.T) {
	th := FlexokiDark
	tests := map[model.BudgetStatus]string{
		model.StatusApproved: string(th.Approved),
		model.StatusRejected: string(th.Rejected),
		model.StatusAnalysis: string(th.Analysis),
		"":                   string(th.Analysis),
	}
	for status, want := range tests {
		if got := string(th.StatusColor(status)); got != want {
			t.Errorf("StatusColor(%q) = %s, want %s", status, got, want)
		}
	}
}

func TestThemesDefineStatusColors(t *testing.T) {
	for _, th := range All {
		if th.Analysis == "" || th.Approved == "" || th.Rejected == "" {
			t.Fatalf("theme %s is missing a status color", th.Name)
		}
		if th.Approved == th.Rejected {
			t.Fatalf("theme %s draws approved and rejected alike", th.Name)
		}
	}
}

package cmd

import (
	"errors"
	"testing"

	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
)

func TestStaleBudgets(t *testing.T) {
	fresh := model.Budget{Number: 1, Services: []model.ServiceItem{{Price: 100}}}
	pipeline.Recompute(&fresh)

	stale := model.Budget{
		Number:     2,
		Services:   []model.ServiceItem{{Price: 100}},
		TotalLabor: 80,
		FinalTotal: 80,
	}

	errs := staleBudgets([]model.Budget{fresh, stale})
	if len(errs) != 1 {
		t.Fatalf("staleBudgets = %v, want one error", errs)
	}
	if !errors.Is(errs[0], pipeline.ErrStaleTotals) {
		t.Fatalf("err = %v, want ErrStaleTotals", errs[0])
	}

	if errs := staleBudgets(nil); len(errs) != 0 {
		t.Fatalf("staleBudgets(nil) = %v, want none", errs)
	}
}

package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/mproservicos/mpro/internal/model"
)

func TestLaborTotalIgnoresHours(t *testing.T) {
	services := []model.ServiceItem{
		{Price: 100, EstimatedHours: 3},
		{Price: 40.5, EstimatedHours: 10},
	}
	if got := LaborTotal(services); got != 140.5 {
		t.Fatalf("LaborTotal = %v, want 140.5", got)
	}
}

func TestMaterialsTotal(t *testing.T) {
	materials := []model.MaterialItem{
		{Quantity: 2, UnitPrice: 25},
		{Quantity: 0.5, UnitPrice: 12},
		{Quantity: 3, UnitPrice: 0},
	}
	if got := MaterialsTotal(materials); got != 56 {
		t.Fatalf("MaterialsTotal = %v, want 56", got)
	}
}

func TestComputeScenarios(t *testing.T) {
	tests := []struct {
		name      string
		budget    model.Budget
		labor     float64
		materials float64
		final     float64
	}{
		{
			name: "services, materials, travel and discount",
			budget: model.Budget{
				Services:  []model.ServiceItem{{Price: 100}},
				Materials: []model.MaterialItem{{Quantity: 2, UnitPrice: 25}},
				TravelFee: 10,
				Discount:  5,
			},
			labor: 100, materials: 50, final: 155,
		},
		{
			name:   "empty lines, discount only goes negative",
			budget: model.Budget{Discount: 20},
			labor:  0, materials: 0, final: -20,
		},
		{
			name:   "travel fee only",
			budget: model.Budget{TravelFee: 35},
			labor:  0, materials: 0, final: 35,
		},
		{
			name: "negative travel fee is taken as given",
			budget: model.Budget{
				Services:  []model.ServiceItem{{Price: 10}},
				TravelFee: -15,
			},
			labor: 10, materials: 0, final: -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.budget)
			if got.Labor != tt.labor || got.Materials != tt.materials || got.Final != tt.final {
				t.Fatalf("Compute = %+v, want {%v %v %v}", got, tt.labor, tt.materials, tt.final)
			}
		})
	}
}

func TestFinalTotalKeepsFullPrecision(t *testing.T) {
	// 0.1 + 0.2 is not 0.3 in binary; no rounding may happen between terms.
	labor, materials := 0.1, 0.2
	want := labor + materials
	got := FinalTotal(labor, materials, 0, 0)
	if got != want || got == 0.3 {
		t.Fatalf("FinalTotal = %v, want %v", got, want)
	}
	if math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("FinalTotal = %v, want ~0.3", got)
	}
}

func TestRecomputeAndVerify(t *testing.T) {
	b := model.Budget{
		Number:    7,
		Services:  []model.ServiceItem{{Price: 100}},
		Materials: []model.MaterialItem{{Quantity: 2, UnitPrice: 25}},
		TravelFee: 10,
		Discount:  5,
	}

	if err := Verify(b); !errors.Is(err, ErrStaleTotals) {
		t.Fatalf("Verify before Recompute = %v, want ErrStaleTotals", err)
	}

	Recompute(&b)
	if b.TotalLabor != 100 || b.TotalMaterials != 50 || b.FinalTotal != 155 {
		t.Fatalf("after Recompute = %v/%v/%v, want 100/50/155", b.TotalLabor, b.TotalMaterials, b.FinalTotal)
	}
	if err := Verify(b); err != nil {
		t.Fatalf("Verify after Recompute = %v", err)
	}

	b.Materials[0].Quantity = 3
	if err := Verify(b); !errors.Is(err, ErrStaleTotals) {
		t.Fatalf("Verify after line edit = %v, want ErrStaleTotals", err)
	}
}

func TestNextNumber(t *testing.T) {
	var budgets []model.Budget
	if n := NextNumber(budgets); n != 1 {
		t.Fatalf("first NextNumber = %d, want 1", n)
	}
	budgets = append(budgets, model.Budget{Number: 1})
	if n := NextNumber(budgets); n != 2 {
		t.Fatalf("second NextNumber = %d, want 2", n)
	}
}

// Package pipeline holds the pure computations over budgets: totals,
// numbering, reference lookups and dashboard aggregation. Nothing here does I/O.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/mproservicos/mpro/internal/model"
)

// ErrStaleTotals is returned by Verify when a budget's stored totals do not
// match its line items.
var ErrStaleTotals = errors.New("stored totals are stale")

// LaborTotal is the sum of service prices. Estimated hours do not count.
func LaborTotal(services []model.ServiceItem) float64 {
	var total float64
	for _, s := range services {
		total += s.Price
	}
	return total
}

// MaterialsTotal is the sum of quantity × unit price over all materials.
func MaterialsTotal(materials []model.MaterialItem) float64 {
	var total float64
	for _, m := range materials {
		total += m.Quantity * m.UnitPrice
	}
	return total
}

// FinalTotal is labor + materials + travel fee − discount. The result may be
// negative; the caller decides whether to allow that.
func FinalTotal(labor, materials, travelFee, discount float64) float64 {
	return labor + materials + travelFee - discount
}

// Totals is the derived part of a budget.
type Totals struct {
	Labor     float64
	Materials float64
	Final     float64
}

// Compute derives the totals of b without modifying it.
func Compute(b model.Budget) Totals {
	labor := LaborTotal(b.Services)
	materials := MaterialsTotal(b.Materials)
	return Totals{
		Labor:     labor,
		Materials: materials,
		Final:     FinalTotal(labor, materials, b.TravelFee, b.Discount),
	}
}

// Recompute stores freshly derived totals into b. Call it after any change to
// the line items, travel fee or discount and before persisting.
func Recompute(b *model.Budget) {
	t := Compute(*b)
	b.TotalLabor = t.Labor
	b.TotalMaterials = t.Materials
	b.FinalTotal = t.Final
}

// Verify reports ErrStaleTotals if the stored snapshot differs from the
// derivation. Values are compared exactly, since both sides use the same
// summation order.
func Verify(b model.Budget) error {
	t := Compute(b)
	if t.Labor != b.TotalLabor || t.Materials != b.TotalMaterials || t.Final != b.FinalTotal {
		return fmt.Errorf("%w: budget %d has %.2f/%.2f/%.2f, want %.2f/%.2f/%.2f", ErrStaleTotals,
			b.Number, b.TotalLabor, b.TotalMaterials, b.FinalTotal, t.Labor, t.Materials, t.Final)
	}
	return nil
}

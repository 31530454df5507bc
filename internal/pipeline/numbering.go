package pipeline

import "github.com/mproservicos/mpro/internal/model"

// NextNumber returns the human-facing number for a new budget: the count of
// existing budgets plus one. It is not unique if two creations race or if
// budgets are ever deleted.
func NextNumber(existing []model.Budget) int {
	return len(existing) + 1
}

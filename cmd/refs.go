package cmd

import (
	"fmt"
	"strings"

	"github.com/mproservicos/mpro/internal/desk"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
	"github.com/mproservicos/mpro/internal/store"
)

// shortIDLen is how many ID characters list output shows.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// matchID finds the record whose ID equals ref or, failing that, the single
// record whose ID starts with ref.
func matchID[T store.Record](records []T, kind, ref string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%w: empty %s id", desk.ErrNotFound, kind)
	}

	var found []T
	for _, r := range records {
		if r.RecordID() == ref {
			return r, nil
		}
		if strings.HasPrefix(r.RecordID(), ref) {
			found = append(found, r)
		}
	}

	switch len(found) {
	case 0:
		return zero, fmt.Errorf("%w: %s %s", desk.ErrNotFound, kind, ref)
	case 1:
		return found[0], nil
	default:
		return zero, fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, ref, len(found))
	}
}

// resolveBudget accepts a budget number ("12", "#12", "000012"), a full ID
// or an ID prefix.
func resolveBudget(budgets []model.Budget, ref string) (model.Budget, error) {
	if b, ok := pipeline.FindBudget(budgets, ref); ok {
		return b, nil
	}
	return matchID(budgets, "budget", ref)
}

package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/mproservicos/mpro/internal/model"
)

// Summarize computes the dashboard figures.
func Summarize(clients []model.Client, equipment []model.Equipment, budgets []model.Budget) model.SummaryStats {
	stats := model.SummaryStats{
		TotalClients:   len(clients),
		TotalEquipment: len(equipment),
		TotalBudgets:   len(budgets),
	}

	for _, b := range budgets {
		switch b.Status {
		case model.StatusApproved:
			stats.Approved++
			stats.ApprovedRevenue += b.FinalTotal
		case model.StatusRejected:
			stats.Rejected++
		default:
			// Records written without a status count as in analysis.
			stats.InAnalysis++
			stats.PipelineValue += b.FinalTotal
		}
	}

	if decided := stats.Approved + stats.Rejected; decided > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(decided)
	}

	return stats
}

// Recent returns the last n budgets in stored order, newest first.
func Recent(budgets []model.Budget, n int) []model.Budget {
	if n <= 0 {
		return nil
	}
	start := len(budgets) - n
	if start < 0 {
		start = 0
	}
	out := make([]model.Budget, 0, len(budgets)-start)
	for i := len(budgets) - 1; i >= start; i-- {
		out = append(out, budgets[i])
	}
	return out
}

// FilterByStatus returns the budgets with the given status.
func FilterByStatus(budgets []model.Budget, status model.BudgetStatus) []model.Budget {
	var out []model.Budget
	for _, b := range budgets {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// FilterByClient returns the budgets issued to clientID.
func FilterByClient(budgets []model.Budget, clientID string) []model.Budget {
	var out []model.Budget
	for _, b := range budgets {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out
}

// SearchClients matches query against name, trading name and CNPJ
// (case-insensitive substring).
func SearchClients(clients []model.Client, query string) []model.Client {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clients
	}
	var out []model.Client
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.TradingName), q) ||
			strings.Contains(strings.ToLower(c.CNPJ), q) {
			out = append(out, c)
		}
	}
	return out
}

// AggregateClients computes per-client figures, sorted by approved revenue
// descending then name.
func AggregateClients(clients []model.Client, equipment []model.Equipment, budgets []model.Budget) []model.ClientStats {
	idx := make(map[string]*model.ClientStats, len(clients))
	out := make([]model.ClientStats, len(clients))
	for i, c := range clients {
		out[i] = model.ClientStats{ClientID: c.ID, Name: c.Name}
		idx[c.ID] = &out[i]
	}

	for _, e := range equipment {
		if cs, ok := idx[e.ClientID]; ok {
			cs.Equipment++
		}
	}
	for _, b := range budgets {
		cs, ok := idx[b.ClientID]
		if !ok {
			continue
		}
		cs.Budgets++
		if b.Status == model.StatusApproved {
			cs.Approved++
			cs.ApprovedRevenue += b.FinalTotal
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ApprovedRevenue != out[j].ApprovedRevenue {
			return out[i].ApprovedRevenue > out[j].ApprovedRevenue
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ExpiresAt is the last day the quote is valid: issue date plus ValidityDays.
func ExpiresAt(b model.Budget) time.Time {
	return b.Date.AddDate(0, 0, b.ValidityDays)
}

// IsExpired reports whether a budget still in analysis is past its validity.
func IsExpired(b model.Budget, now time.Time) bool {
	if b.Status != model.StatusAnalysis {
		return false
	}
	return now.After(ExpiresAt(b))
}

// AggregateMonths buckets budgets by issue month for the last n months up to
// and including now's month, oldest first. Budgets outside the window are
// ignored.
func AggregateMonths(budgets []model.Budget, n int, now time.Time) []model.MonthStats {
	if n <= 0 {
		return nil
	}
	now = now.Local()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -(n - 1), 0)

	out := make([]model.MonthStats, n)
	for i := range out {
		out[i].Month = first.AddDate(0, i, 0)
	}

	for _, b := range budgets {
		d := b.Date.Local()
		idx := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if idx < 0 || idx >= n {
			continue
		}
		m := &out[idx]
		m.Issued++
		m.IssuedValue += b.FinalTotal
		if b.Status == model.StatusApproved {
			m.Approved++
			m.ApprovedRevenue += b.FinalTotal
		}
	}
	return out
}

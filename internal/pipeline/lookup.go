package pipeline

import (
	"strconv"
	"strings"

	"github.com/mproservicos/mpro/internal/model"
)

// NotFound is the display label for a reference that does not resolve.
const NotFound = "N/A"

// FindClient returns the client with the given ID.
func FindClient(clients []model.Client, id string) (model.Client, bool) {
	for _, c := range clients {
		if c.ID == id {
			return c, true
		}
	}
	return model.Client{}, false
}

// FindEquipment returns the equipment with the given ID.
func FindEquipment(equipment []model.Equipment, id string) (model.Equipment, bool) {
	for _, e := range equipment {
		if e.ID == id {
			return e, true
		}
	}
	return model.Equipment{}, false
}

// FindBudget returns the budget with the given ID, or failing that the one
// with the given number as printed on the quote.
func FindBudget(budgets []model.Budget, ref string) (model.Budget, bool) {
	for _, b := range budgets {
		if b.ID == ref {
			return b, true
		}
	}
	if n, ok := parseNumber(ref); ok {
		for _, b := range budgets {
			if b.Number == n {
				return b, true
			}
		}
	}
	return model.Budget{}, false
}

// ClientName returns the client's name or NotFound.
func ClientName(clients []model.Client, id string) string {
	if c, ok := FindClient(clients, id); ok {
		return c.Name
	}
	return NotFound
}

// EquipmentLabel returns "Brand - Model" or NotFound.
func EquipmentLabel(equipment []model.Equipment, id string) string {
	if e, ok := FindEquipment(equipment, id); ok {
		return e.Label()
	}
	return NotFound
}

// EquipmentForClient returns the equipment owned by clientID, in stored order.
func EquipmentForClient(equipment []model.Equipment, clientID string) []model.Equipment {
	var out []model.Equipment
	for _, e := range equipment {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out
}

// parseNumber accepts "12", "#12" and the padded "#000012".
func parseNumber(ref string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(ref, "#"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

package desk

import (
	"fmt"

	"github.com/mproservicos/mpro/internal/model"
)

// Snapshot is every collection read at one point in time.
type Snapshot struct {
	Clients   []model.Client
	Equipment []model.Equipment
	Budgets   []model.Budget
}

// Load reads all three collections. A corrupt collection fails the load.
func (d *Desk) Load() (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Clients, err = d.st.Clients().GetAll(); err != nil {
		return Snapshot{}, fmt.Errorf("loading clients: %w", err)
	}
	if snap.Equipment, err = d.st.Equipment().GetAll(); err != nil {
		return Snapshot{}, fmt.Errorf("loading equipment: %w", err)
	}
	if snap.Budgets, err = d.st.Budgets().GetAll(); err != nil {
		return Snapshot{}, fmt.Errorf("loading budgets: %w", err)
	}
	return snap, nil
}

// Package desk is the write path for mpro records. It validates input,
// assigns identities and budget numbers, recomputes budget totals and then
// persists through the store. Presentation code calls the desk and never
// writes a budget to the store directly.
package desk

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
	"github.com/mproservicos/mpro/internal/store"
)

var (
	// ErrValidation wraps every required-field failure.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an edit targets an unknown record.
	ErrNotFound = errors.New("record not found")
)

// Defaults are applied to new budgets when the draft leaves a field empty.
type Defaults struct {
	ValidityDays int
	PaymentTerms string
}

// Desk performs validated writes against a store.
type Desk struct {
	st       *store.Store
	defaults Defaults
	now      func() time.Time
}

// New returns a desk writing to st.
func New(st *store.Store, defaults Defaults) *Desk {
	if defaults.ValidityDays <= 0 {
		defaults.ValidityDays = 15
	}
	if defaults.PaymentTerms == "" {
		defaults.PaymentTerms = "A vista"
	}
	return &Desk{st: st, defaults: defaults, now: time.Now}
}

// Store returns the underlying store for read paths.
func (d *Desk) Store() *store.Store {
	return d.st
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return nil
}

// SaveClient validates and upserts a client, assigning an ID to new ones.
func (d *Desk) SaveClient(c model.Client) (model.Client, error) {
	c = trimClient(c)
	if err := required("name", c.Name); err != nil {
		return model.Client{}, err
	}
	if err := required("cnpj", c.CNPJ); err != nil {
		return model.Client{}, err
	}
	if c.ID == "" {
		c.ID = model.NewID()
	}
	if err := d.st.Clients().Save(c); err != nil {
		return model.Client{}, fmt.Errorf("saving client: %w", err)
	}
	return c, nil
}

// SaveEquipment validates and upserts equipment. The client reference is not
// checked; an unknown client shows as N/A.
func (d *Desk) SaveEquipment(e model.Equipment) (model.Equipment, error) {
	e = trimEquipment(e)
	for _, f := range []struct{ name, value string }{
		{"client", e.ClientID},
		{"brand", e.Brand},
		{"model", e.Model},
		{"serial number", e.SerialNumber},
	} {
		if err := required(f.name, f.value); err != nil {
			return model.Equipment{}, err
		}
	}
	if e.ID == "" {
		e.ID = model.NewID()
	}
	if err := d.st.Equipment().Save(e); err != nil {
		return model.Equipment{}, fmt.Errorf("saving equipment: %w", err)
	}
	return e, nil
}

// EquipmentForClient returns the equipment a budget for clientID may use.
func (d *Desk) EquipmentForClient(clientID string) ([]model.Equipment, error) {
	all, err := d.st.Equipment().GetAll()
	if err != nil {
		return nil, err
	}
	return pipeline.EquipmentForClient(all, clientID), nil
}

func trimClient(c model.Client) model.Client {
	c.Name = strings.TrimSpace(c.Name)
	c.TradingName = strings.TrimSpace(c.TradingName)
	c.CNPJ = strings.TrimSpace(c.CNPJ)
	c.StateRegistration = strings.TrimSpace(c.StateRegistration)
	c.Address = strings.TrimSpace(c.Address)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	return c
}

func trimEquipment(e model.Equipment) model.Equipment {
	e.ClientID = strings.TrimSpace(e.ClientID)
	e.Type = strings.TrimSpace(e.Type)
	e.Brand = strings.TrimSpace(e.Brand)
	e.Model = strings.TrimSpace(e.Model)
	e.SerialNumber = strings.TrimSpace(e.SerialNumber)
	e.AssetNumber = strings.TrimSpace(e.AssetNumber)
	e.ManufacturingYear = strings.TrimSpace(e.ManufacturingYear)
	e.InstallationLocation = strings.TrimSpace(e.InstallationLocation)
	e.Condition = strings.TrimSpace(e.Condition)
	e.Notes = strings.TrimSpace(e.Notes)
	return e
}

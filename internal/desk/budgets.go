package desk

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
)

// Draft holds the fields of a budget a user can edit. Identity, number, date
// and totals are never taken from a draft.
type Draft struct {
	ClientID       string
	EquipmentID    string
	ValidityDays   int
	Services       []model.ServiceItem
	Materials      []model.MaterialItem
	Discount       float64
	TravelFee      float64
	PaymentTerms   string
	TechnicalNotes string
	Status         model.BudgetStatus
}

// DraftOf returns the editable fields of b.
func DraftOf(b model.Budget) Draft {
	return Draft{
		ClientID:       b.ClientID,
		EquipmentID:    b.EquipmentID,
		ValidityDays:   b.ValidityDays,
		Services:       slices.Clone(b.Services),
		Materials:      slices.Clone(b.Materials),
		Discount:       b.Discount,
		TravelFee:      b.TravelFee,
		PaymentTerms:   b.PaymentTerms,
		TechnicalNotes: b.TechnicalNotes,
		Status:         b.Status,
	}
}

func (d *Desk) validateDraft(dr Draft) error {
	if err := required("client", dr.ClientID); err != nil {
		return err
	}
	if err := required("equipment", dr.EquipmentID); err != nil {
		return err
	}
	if dr.Status != "" && !slices.Contains(model.Statuses, dr.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, dr.Status)
	}
	for i, s := range dr.Services {
		if s.Type != "" && !slices.Contains(model.ServiceTypes, s.Type) {
			return fmt.Errorf("%w: service %d has unknown type %q", ErrValidation, i+1, s.Type)
		}
	}
	return nil
}

// apply copies the draft onto b, filling defaults and line item IDs.
func (d *Desk) apply(b *model.Budget, dr Draft) {
	b.ClientID = strings.TrimSpace(dr.ClientID)
	b.EquipmentID = strings.TrimSpace(dr.EquipmentID)
	b.ValidityDays = dr.ValidityDays
	if b.ValidityDays <= 0 {
		b.ValidityDays = d.defaults.ValidityDays
	}
	b.PaymentTerms = strings.TrimSpace(dr.PaymentTerms)
	if b.PaymentTerms == "" {
		b.PaymentTerms = d.defaults.PaymentTerms
	}
	b.TechnicalNotes = strings.TrimSpace(dr.TechnicalNotes)
	b.Discount = dr.Discount
	b.TravelFee = dr.TravelFee
	b.Status = dr.Status
	if b.Status == "" {
		b.Status = model.StatusAnalysis
	}

	b.Services = make([]model.ServiceItem, len(dr.Services))
	for i, s := range dr.Services {
		if s.ID == "" {
			s.ID = model.NewID()
		}
		if s.Type == "" {
			s.Type = model.ServiceCorrective
		}
		b.Services[i] = s
	}
	b.Materials = make([]model.MaterialItem, len(dr.Materials))
	for i, m := range dr.Materials {
		if m.ID == "" {
			m.ID = model.NewID()
		}
		b.Materials[i] = m
	}
}

// persist recomputes the totals and writes the budget. Every budget write
// goes through here.
func (d *Desk) persist(b model.Budget) (model.Budget, error) {
	pipeline.Recompute(&b)
	if err := d.st.Budgets().Save(b); err != nil {
		return model.Budget{}, fmt.Errorf("saving budget: %w", err)
	}
	return b, nil
}

// CreateBudget validates the draft and stores a new budget numbered after
// the existing ones. Nothing is written if validation fails.
func (d *Desk) CreateBudget(dr Draft) (model.Budget, error) {
	if err := d.validateDraft(dr); err != nil {
		return model.Budget{}, err
	}

	existing, err := d.st.Budgets().GetAll()
	if err != nil {
		return model.Budget{}, fmt.Errorf("reading budgets: %w", err)
	}

	b := model.Budget{
		ID:     model.NewID(),
		Number: pipeline.NextNumber(existing),
		Date:   d.now().UTC(),
	}
	d.apply(&b, dr)
	return d.persist(b)
}

// UpdateBudget replaces the editable fields of the budget with the given ID.
// ID, number and issue date are kept.
func (d *Desk) UpdateBudget(id string, dr Draft) (model.Budget, error) {
	if err := d.validateDraft(dr); err != nil {
		return model.Budget{}, err
	}

	b, err := d.budget(id)
	if err != nil {
		return model.Budget{}, err
	}
	d.apply(&b, dr)
	return d.persist(b)
}

// SetStatus moves a budget to status.
func (d *Desk) SetStatus(id string, status model.BudgetStatus) (model.Budget, error) {
	if !slices.Contains(model.Statuses, status) {
		return model.Budget{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	b, err := d.budget(id)
	if err != nil {
		return model.Budget{}, err
	}
	b.Status = status
	return d.persist(b)
}

func (d *Desk) budget(id string) (model.Budget, error) {
	b, ok, err := d.st.Budgets().Find(id)
	if err != nil {
		return model.Budget{}, fmt.Errorf("reading budgets: %w", err)
	}
	if !ok {
		return model.Budget{}, fmt.Errorf("%w: budget %s", ErrNotFound, id)
	}
	return b, nil
}

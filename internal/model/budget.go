package model

import (
	"fmt"
	"strings"
	"time"
)

// BudgetStatus is the approval state of a budget.
type BudgetStatus string

const (
	StatusAnalysis BudgetStatus = "Em Análise"
	StatusApproved BudgetStatus = "Aprovado"
	StatusRejected BudgetStatus = "Reprovado"
)

// Statuses lists every budget status in display order.
var Statuses = []BudgetStatus{StatusAnalysis, StatusApproved, StatusRejected}

// ParseBudgetStatus accepts the stored value or a short English alias
// ("analysis", "approved", "rejected"), case-insensitively.
func ParseBudgetStatus(s string) (BudgetStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "analysis", strings.ToLower(string(StatusAnalysis)):
		return StatusAnalysis, nil
	case "approved", strings.ToLower(string(StatusApproved)):
		return StatusApproved, nil
	case "rejected", strings.ToLower(string(StatusRejected)):
		return StatusRejected, nil
	}
	return "", fmt.Errorf("unknown budget status %q", s)
}

// ServiceType classifies a labor line.
type ServiceType string

const (
	ServicePreventive ServiceType = "Preventiva"
	ServiceCorrective ServiceType = "Corretiva"
	ServicePredictive ServiceType = "Preditiva"
)

// ServiceTypes lists every service type in display order.
var ServiceTypes = []ServiceType{ServicePreventive, ServiceCorrective, ServicePredictive}

// ParseServiceType accepts the stored value or an English alias.
func ParseServiceType(s string) (ServiceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preventive", strings.ToLower(string(ServicePreventive)):
		return ServicePreventive, nil
	case "corrective", strings.ToLower(string(ServiceCorrective)):
		return ServiceCorrective, nil
	case "predictive", strings.ToLower(string(ServicePredictive)):
		return ServicePredictive, nil
	}
	return "", fmt.Errorf("unknown service type %q", s)
}

// ServiceItem is a labor line. Price is flat; EstimatedHours is shown on the
// quote but never multiplied into the total.
type ServiceItem struct {
	ID             string      `json:"id"`
	Description    string      `json:"description"`
	Type           ServiceType `json:"type"`
	Price          float64     `json:"price"`
	EstimatedHours float64     `json:"estimatedHours"`
}

// MaterialItem is a parts line.
type MaterialItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	PartCode    string  `json:"partCode,omitempty"`
}

// Budget is a service quote for one piece of equipment.
//
// TotalLabor, TotalMaterials and FinalTotal are a stored snapshot. They are
// only valid if recomputed after the last change to the line items, TravelFee
// or Discount.
type Budget struct {
	ID             string         `json:"id"`
	Number         int            `json:"number"`
	Date           time.Time      `json:"date"`
	ValidityDays   int            `json:"validityDays"`
	ClientID       string         `json:"clientId"`
	EquipmentID    string         `json:"equipmentId"`
	Services       []ServiceItem  `json:"services"`
	Materials      []MaterialItem `json:"materials"`
	Discount       float64        `json:"discount"`
	TravelFee      float64        `json:"travelFee"`
	PaymentTerms   string         `json:"paymentTerms"`
	TechnicalNotes string         `json:"technicalNotes"`
	Status         BudgetStatus   `json:"status"`
	TotalLabor     float64        `json:"totalLabor"`
	TotalMaterials float64        `json:"totalMaterials"`
	FinalTotal     float64        `json:"finalTotal"`
}

// RecordID implements store.Record.
func (b Budget) RecordID() string { return b.ID }

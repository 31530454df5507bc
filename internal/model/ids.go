// Package model defines the records kept by mpro: clients, their equipment,
// and the service budgets (quotes) issued for that equipment.
package model

import "github.com/google/uuid"

// NewID returns a fresh random identity for a record or line item.
func NewID() string {
	return uuid.NewString()
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingItem is a shared shopping-list entry. RestockCount increments every
// time an item transitions bought -> unbought, tracking frequently restocked
// items.
type ShoppingItem struct {
	ID            uuid.UUID  `json:"id"`
	HouseholdID   uuid.UUID  `json:"household_id"`
	Title         string     `json:"title"`
	QuantityValue *string    `json:"quantity_value"`
	QuantityUnit  *string    `json:"quantity_unit"`
	IsBought      bool       `json:"is_bought"`
	BoughtAt      *time.Time `json:"bought_at"`
	RestockCount  int        `json:"restock_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// QuantityDisplay formats the quantity for display, or "" when unset.
func (s ShoppingItem) QuantityDisplay() string {
	if s.QuantityValue == nil || *s.QuantityValue == "" {
		return ""
	}
	if s.QuantityUnit != nil && *s.QuantityUnit != "" {
		return *s.QuantityValue + " " + *s.QuantityUnit
	}
	return *s.QuantityValue
}

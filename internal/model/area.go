package model

import (
	"time"

	"github.com/google/uuid"
)

// Area is a pure categorization tag for tasks, ordered by SortOrder.
type Area struct {
	ID          uuid.UUID `json:"id"`
	HouseholdID uuid.UUID `json:"household_id"`
	Name        string    `json:"name"`
	Icon        *string   `json:"icon"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type BacklogCategory struct {
	ID          uuid.UUID `json:"id"`
	HouseholdID uuid.UUID `json:"household_id"`
	Title       string    `json:"title"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BacklogItem belongs to exactly one category. HouseholdID is denormalized
// for query convenience.
type BacklogItem struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	HouseholdID uuid.UUID `json:"household_id"`
	Title       string    `json:"title"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

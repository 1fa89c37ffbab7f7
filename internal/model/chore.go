package model

import (
	"time"

	"github.com/google/uuid"
)

type RecurrenceType string

const (
	RecurDaily        RecurrenceType = "daily"
	RecurWeekly       RecurrenceType = "weekly"
	RecurBiweekly     RecurrenceType = "biweekly"
	RecurMonthly      RecurrenceType = "monthly"
	RecurEveryNDays   RecurrenceType = "everyNDays"
	RecurEveryNWeeks  RecurrenceType = "everyNWeeks"
	RecurEveryNMonths RecurrenceType = "everyNMonths"
)

// RecurringChore is a template that generates Task instances on a schedule.
// NextScheduledDate is a cached derived value, recomputed on create, update
// and task generation.
type RecurringChore struct {
	ID                   uuid.UUID      `json:"id"`
	HouseholdID          uuid.UUID      `json:"household_id"`
	Title                string         `json:"title"`
	RecurrenceType       RecurrenceType `json:"recurrence_type"`
	RecurrenceDay        *int           `json:"recurrence_day"`          // weekday 1 (Sunday) .. 7 (Saturday)
	RecurrenceDayOfMonth *int           `json:"recurrence_day_of_month"` // 1..31
	RecurrenceInterval   *int           `json:"recurrence_interval"`     // for everyN* types, min 1
	DefaultAssigneeIDs   []uuid.UUID    `json:"default_assignee_ids"`
	AreaID               *uuid.UUID     `json:"area_id"`
	IsActive             bool           `json:"is_active"`
	LastGeneratedDate    *time.Time     `json:"last_generated_date"`
	NextScheduledDate    *time.Time     `json:"next_scheduled_date"`
	Notes                *string        `json:"notes"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

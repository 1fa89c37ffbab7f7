package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusBacklog TaskStatus = "backlog"
	StatusNext    TaskStatus = "next"
	StatusDone    TaskStatus = "done"
)

type TaskType string

const (
	TaskOneOff    TaskType = "one-off"
	TaskRecurring TaskType = "recurring"
)

type Task struct {
	ID               uuid.UUID   `json:"id"`
	HouseholdID      uuid.UUID   `json:"household_id"`
	Title            string      `json:"title"`
	Status           TaskStatus  `json:"status"`
	AssigneeID       *uuid.UUID  `json:"assignee_id"`
	AssigneeIDs      []uuid.UUID `json:"assignee_ids"`
	AreaID           *uuid.UUID  `json:"area_id"`
	DueDate          *time.Time  `json:"due_date"`
	CompletedAt      *time.Time  `json:"completed_at"`
	CompletedByID    *string     `json:"completed_by_id"`
	TaskType         TaskType    `json:"task_type"`
	RecurringChoreID *uuid.UUID  `json:"recurring_chore_id"`
	Notes            *string     `json:"notes"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// IsOverdue reports whether the task's due date has passed and the task is not done.
// Derived, never stored.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	return t.DueDate.Before(now)
}

// Assignees returns the multi-assignee list, falling back to the legacy
// single assignee field when the list is empty.
func (t Task) Assignees() []uuid.UUID {
	if len(t.AssigneeIDs) > 0 {
		return t.AssigneeIDs
	}
	if t.AssigneeID != nil {
		return []uuid.UUID{*t.AssigneeID}
	}
	return nil
}

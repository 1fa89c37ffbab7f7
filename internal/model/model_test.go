package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		task Task
		want bool
	}{
		{"no due date", Task{Status: StatusNext}, false},
		{"due in future", Task{Status: StatusNext, DueDate: &future}, false},
		{"due in past", Task{Status: StatusNext, DueDate: &past}, true},
		{"done tasks never overdue", Task{Status: StatusDone, DueDate: &past}, false},
	}
	for _, tc := range cases {
		if got := tc.task.IsOverdue(now); got != tc.want {
			t.Errorf("%s: IsOverdue = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTaskAssigneesLegacyFallback(t *testing.T) {
	single := uuid.New()
	multi := []uuid.UUID{uuid.New(), uuid.New()}

	none := Task{}
	if got := none.Assignees(); got != nil {
		t.Errorf("unassigned task: assignees = %v, want nil", got)
	}

	legacy := Task{AssigneeID: &single}
	if got := legacy.Assignees(); len(got) != 1 || got[0] != single {
		t.Errorf("legacy task: assignees = %v, want [%v]", got, single)
	}

	// The list wins when both are present.
	both := Task{AssigneeID: &single, AssigneeIDs: multi}
	if got := both.Assignees(); len(got) != 2 {
		t.Errorf("multi task: assignees = %v, want the list", got)
	}
}

func TestQuantityDisplay(t *testing.T) {
	value, unit, empty := "2", "liters", ""

	cases := []struct {
		name string
		item ShoppingItem
		want string
	}{
		{"no quantity", ShoppingItem{}, ""},
		{"empty value", ShoppingItem{QuantityValue: &empty}, ""},
		{"value only", ShoppingItem{QuantityValue: &value}, "2"},
		{"value and unit", ShoppingItem{QuantityValue: &value, QuantityUnit: &unit}, "2 liters"},
	}
	for _, tc := range cases {
		if got := tc.item.QuantityDisplay(); got != tc.want {
			t.Errorf("%s: QuantityDisplay = %q, want %q", tc.name, got, tc.want)
		}
	}
}

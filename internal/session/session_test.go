package session

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewDefaultsToCloud(t *testing.T) {
	s := New("")
	if s.Mode() != ModeCloud {
		t.Errorf("mode = %q, want %q", s.Mode(), ModeCloud)
	}
}

func TestHouseholdLifecycle(t *testing.T) {
	s := New(ModeCloud)

	if _, ok := s.HouseholdID(); ok {
		t.Error("new session should have no household")
	}

	id := uuid.New()
	s.SetHouseholdID(id)
	got, ok := s.HouseholdID()
	if !ok || got != id {
		t.Errorf("household = %v, %v; want %v, true", got, ok, id)
	}

	s.ClearHousehold()
	if _, ok := s.HouseholdID(); ok {
		t.Error("household should be cleared")
	}
}

func TestOnChangeFires(t *testing.T) {
	s := New(ModeCloud)

	calls := 0
	s.OnChange(func() { calls++ })

	s.SetUserID("user-alice")
	s.SetHouseholdID(uuid.New())
	s.SetMode(ModeLocalOnly)
	s.ClearHousehold()

	if calls != 4 {
		t.Errorf("onChange calls = %d, want 4", calls)
	}
}

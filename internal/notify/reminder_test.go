package notify

import (
	"sync"
	"testing"
	"time"
)

type reminderRecorder struct {
	mu    sync.Mutex
	fired []Reminder
}

func (r *reminderRecorder) send(rem Reminder) {
	r.mu.Lock()
	r.fired = append(r.fired, rem)
	r.mu.Unlock()
}

func (r *reminderRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func TestScheduleReplacesById(t *testing.T) {
	rec := &reminderRecorder{}
	s := NewReminderScheduler(rec.send, testLogger())

	at := time.Now().Add(time.Hour)
	s.Schedule("task-1", at, "Task due: Vacuum")
	s.Schedule("task-1", at.Add(time.Hour), "Task due: Vacuum (moved)")

	if s.Pending() != 1 {
		t.Errorf("pending = %d, want 1 (same id replaces)", s.Pending())
	}
}

func TestCancelUnknownIsNoop(t *testing.T) {
	rec := &reminderRecorder{}
	s := NewReminderScheduler(rec.send, testLogger())

	s.Cancel("task-missing")
	if s.Pending() != 0 {
		t.Errorf("pending = %d, want 0", s.Pending())
	}
}

func TestCancelAll(t *testing.T) {
	rec := &reminderRecorder{}
	s := NewReminderScheduler(rec.send, testLogger())

	at := time.Now().Add(time.Hour)
	s.Schedule("task-1", at, "a")
	s.Schedule("task-2", at, "b")
	s.CancelAll()

	if s.Pending() != 0 {
		t.Errorf("pending = %d, want 0 after CancelAll", s.Pending())
	}
}

func TestTickFiresDueReminders(t *testing.T) {
	rec := &reminderRecorder{}
	s := NewReminderScheduler(rec.send, testLogger())
	now := time.Now()

	s.Schedule("task-due", now.Add(-time.Minute), "Task due: Vacuum")
	s.Schedule("task-later", now.Add(time.Hour), "Task due: Laundry")

	s.tick(now)

	if rec.count() != 1 {
		t.Fatalf("fired = %d, want 1", rec.count())
	}
	if rec.fired[0].ID != "task-due" {
		t.Errorf("fired id = %q, want %q", rec.fired[0].ID, "task-due")
	}
	if s.Pending() != 1 {
		t.Errorf("pending = %d, want 1 (future reminder kept)", s.Pending())
	}
}

func TestTickFiresOnlyOnce(t *testing.T) {
	rec := &reminderRecorder{}
	s := NewReminderScheduler(rec.send, testLogger())
	now := time.Now()

	s.Schedule("task-due", now.Add(-time.Minute), "Task due: Vacuum")
	s.tick(now)
	s.tick(now.Add(time.Minute))

	if rec.count() != 1 {
		t.Errorf("fired = %d, want 1 (fired reminders are removed)", rec.count())
	}
}

func TestStartStop(t *testing.T) {
	rec := &reminderRecorder{}
	s := NewReminderScheduler(rec.send, testLogger())

	ctx := t.Context()
	s.Start(ctx)
	s.Stop()
	// Stop waits for the loop to exit; a second Stop must not hang.
	s.Stop()
}

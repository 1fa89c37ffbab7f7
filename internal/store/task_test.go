package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/model"
	"github.com/kochanowski/housepulse/internal/notify"
)

func (e *testEnv) taskStore() *TaskStore {
	return NewTaskStore(e.fake, e.repo, e.sess, nil, e.logger)
}

func (e *testEnv) newTask(title string, status model.TaskStatus, assignee *uuid.UUID) model.Task {
	now := time.Now().UTC()
	return model.Task{
		ID:          uuid.New(),
		HouseholdID: e.householdID,
		Title:       title,
		Status:      status,
		AssigneeID:  assignee,
		TaskType:    model.TaskOneOff,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestWipLimitBlocksFourthTask(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()
	assignee := uuid.New()

	for i := 0; i < WipLimit; i++ {
		task := env.newTask("Task", model.StatusNext, &assignee)
		if err := s.Create(context.Background(), task); err != nil {
			t.Fatalf("create task %d: %v", i+1, err)
		}
	}

	fourth := env.newTask("One too many", model.StatusNext, &assignee)
	err := s.Create(context.Background(), fourth)
	if !errors.Is(err, ErrWipLimitReached) {
		t.Fatalf("create err = %v, want ErrWipLimitReached", err)
	}
	if _, ok := s.Find(fourth.ID); ok {
		t.Error("rejected task must not be published")
	}
}

func TestWipLimitPerAssignee(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()
	alice, bob := uuid.New(), uuid.New()

	for i := 0; i < WipLimit; i++ {
		if err := s.Create(context.Background(), env.newTask("Task", model.StatusNext, &alice)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// Bob is unaffected by Alice's full column.
	if err := s.Create(context.Background(), env.newTask("Bob's task", model.StatusNext, &bob)); err != nil {
		t.Errorf("create for second assignee: %v", err)
	}
}

func TestWipLimitIgnoresOtherStatuses(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()
	assignee := uuid.New()

	for i := 0; i < WipLimit+2; i++ {
		if err := s.Create(context.Background(), env.newTask("Backlog task", model.StatusBacklog, &assignee)); err != nil {
			t.Fatalf("create backlog task: %v", err)
		}
	}
	if err := s.Create(context.Background(), env.newTask("Next task", model.StatusNext, &assignee)); err != nil {
		t.Errorf("backlog tasks must not count toward WIP: %v", err)
	}
}

func TestWipLimitCountsMultiAssigneeTasks(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()
	alice, bob := uuid.New(), uuid.New()

	for i := 0; i < WipLimit; i++ {
		task := env.newTask("Shared task", model.StatusNext, nil)
		task.AssigneeIDs = []uuid.UUID{alice, bob}
		if err := s.Create(context.Background(), task); err != nil {
			t.Fatalf("create shared task: %v", err)
		}
	}

	// Both assignees are now at the limit.
	err := s.Create(context.Background(), env.newTask("Alice solo", model.StatusNext, &alice))
	if !errors.Is(err, ErrWipLimitReached) {
		t.Errorf("alice: err = %v, want ErrWipLimitReached", err)
	}
	err = s.Create(context.Background(), env.newTask("Bob solo", model.StatusNext, &bob))
	if !errors.Is(err, ErrWipLimitReached) {
		t.Errorf("bob: err = %v, want ErrWipLimitReached", err)
	}
}

func TestUpdateSameTaskDoesNotSelfCount(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()
	assignee := uuid.New()

	var last model.Task
	for i := 0; i < WipLimit; i++ {
		last = env.newTask("Task", model.StatusNext, &assignee)
		if err := s.Create(context.Background(), last); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// Renaming a task already in next must not trip the limit.
	last.Title = "Renamed"
	if err := s.Update(context.Background(), last); err != nil {
		t.Errorf("update: %v", err)
	}
}

func TestCanMoveToNext(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()
	assignee := uuid.New()

	if !s.CanMoveToNext(assignee) {
		t.Error("empty column should have capacity")
	}
	for i := 0; i < WipLimit; i++ {
		if err := s.Create(context.Background(), env.newTask("Task", model.StatusNext, &assignee)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if s.CanMoveToNext(assignee) {
		t.Error("full column should have no capacity")
	}
}

func TestMoveToDoneStampsCompletion(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()
	task := env.newTask("Fix faucet", model.StatusNext, nil)
	if err := s.Create(context.Background(), task); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Move(context.Background(), task, model.StatusDone); err != nil {
		t.Fatalf("move: %v", err)
	}

	got, ok := s.Find(task.ID)
	if !ok {
		t.Fatal("task missing after move")
	}
	if got.Status != model.StatusDone {
		t.Errorf("status = %q, want %q", got.Status, model.StatusDone)
	}
	if got.CompletedAt == nil {
		t.Error("completedAt should be stamped")
	}
	if got.CompletedByID == nil || *got.CompletedByID != "user-alice" {
		t.Errorf("completedById = %v, want session user", got.CompletedByID)
	}
}

func TestMoveOutOfDoneClearsCompletion(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()
	task := env.newTask("Fix faucet", model.StatusNext, nil)
	if err := s.Create(context.Background(), task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Move(context.Background(), task, model.StatusDone); err != nil {
		t.Fatalf("move to done: %v", err)
	}

	done, _ := s.Find(task.ID)
	if err := s.Move(context.Background(), done, model.StatusBacklog); err != nil {
		t.Fatalf("move back: %v", err)
	}

	got, _ := s.Find(task.ID)
	if got.CompletedAt != nil || got.CompletedByID != nil {
		t.Error("completion stamps should be cleared when leaving done")
	}
}

func TestBacklogSortedByDueDateUndatedLast(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()

	later := time.Now().UTC().Add(72 * time.Hour)
	soon := time.Now().UTC().Add(2 * time.Hour)

	undated := env.newTask("Undated", model.StatusBacklog, nil)
	dueSoon := env.newTask("Due soon", model.StatusBacklog, nil)
	dueSoon.DueDate = &soon
	dueLater := env.newTask("Due later", model.StatusBacklog, nil)
	dueLater.DueDate = &later

	for _, task := range []model.Task{undated, dueLater, dueSoon} {
		if err := s.Create(context.Background(), task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got := s.Backlog()
	if len(got) != 3 {
		t.Fatalf("backlog count = %d, want 3", len(got))
	}
	if got[0].ID != dueSoon.ID {
		t.Errorf("first = %q, want due-soonest", got[0].Title)
	}
	if got[2].ID != undated.ID {
		t.Errorf("last = %q, want undated", got[2].Title)
	}
}

func TestDoneSortedByCompletionDesc(t *testing.T) {
	env := setupEnv(t)
	s := env.taskStore()

	older := time.Now().UTC().Add(-2 * time.Hour)
	newer := time.Now().UTC().Add(-time.Minute)

	first := env.newTask("First done", model.StatusDone, nil)
	first.CompletedAt = &older
	second := env.newTask("Second done", model.StatusDone, nil)
	second.CompletedAt = &newer

	for _, task := range []model.Task{first, second} {
		if err := s.Create(context.Background(), task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got := s.Done()
	if len(got) != 2 {
		t.Fatalf("done count = %d, want 2", len(got))
	}
	if got[0].ID != second.ID {
		t.Errorf("first = %q, want most recently completed", got[0].Title)
	}
}

func TestTaskRemindersFollowDueDate(t *testing.T) {
	env := setupEnv(t)
	reminders := notify.NewReminderScheduler(func(notify.Reminder) {}, env.logger)
	s := NewTaskStore(env.fake, env.repo, env.sess, reminders, env.logger)

	due := time.Now().UTC().Add(24 * time.Hour)
	task := env.newTask("Water plants", model.StatusBacklog, nil)
	task.DueDate = &due

	if err := s.Create(context.Background(), task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if reminders.Pending() != 1 {
		t.Fatalf("pending reminders = %d, want 1", reminders.Pending())
	}

	// Completing the task cancels its reminder.
	if err := s.Move(context.Background(), task, model.StatusDone); err != nil {
		t.Fatalf("move: %v", err)
	}
	if reminders.Pending() != 0 {
		t.Errorf("pending reminders = %d, want 0 after completion", reminders.Pending())
	}
}

package store

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/model"
	"github.com/kochanowski/housepulse/internal/notify"
	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/remote"
	"github.com/kochanowski/housepulse/internal/session"
)

// WipLimit is the maximum number of tasks one assignee may have in "next".
// Client-side, best-effort: concurrent writers on other devices can exceed it.
const WipLimit = 3

// ErrWipLimitReached rejects a create/update that would put a fourth task in
// "next" for the same assignee.
var ErrWipLimitReached = errors.New("WIP limit reached: complete or move existing tasks before adding more to Next")

// TaskStore is the kanban task store. It layers the WIP-limit invariant,
// status moves and due-date reminders on the generic engine.
type TaskStore struct {
	*Store[model.Task]
	session   *session.Session
	reminders *notify.ReminderScheduler
}

func NewTaskStore(rc remote.Client, repo *cache.Repository, sess *session.Session, reminders *notify.ReminderScheduler, logger *slog.Logger) *TaskStore {
	cfg := Config[model.Task]{
		Type:       record.TypeTask,
		ToRecord:   record.TaskRecord,
		FromRecord: record.TaskFromRecord,
		ID:         func(t model.Task) uuid.UUID { return t.ID },
		Household:  func(t model.Task) uuid.UUID { return t.HouseholdID },
		Touch: func(t model.Task, now time.Time) model.Task {
			t.UpdatedAt = now
			return t
		},
		SortKey:  "createdAt",
		Validate: checkWipLimit,
	}
	return &TaskStore{
		Store:     New(cfg, rc, repo, sess, logger),
		session:   sess,
		reminders: reminders,
	}
}

func checkWipLimit(others []model.Task, candidate model.Task) error {
	if candidate.Status != model.StatusNext {
		return nil
	}
	for _, assignee := range candidate.Assignees() {
		count := 0
		for _, t := range others {
			if t.Status != model.StatusNext {
				continue
			}
			for _, a := range t.Assignees() {
				if a == assignee {
					count++
					break
				}
			}
		}
		if count >= WipLimit {
			return ErrWipLimitReached
		}
	}
	return nil
}

// CanMoveToNext reports whether the assignee has WIP capacity left.
func (s *TaskStore) CanMoveToNext(assigneeID uuid.UUID) bool {
	count := 0
	for _, t := range s.Items() {
		if t.Status != model.StatusNext {
			continue
		}
		for _, a := range t.Assignees() {
			if a == assigneeID {
				count++
				break
			}
		}
	}
	return count < WipLimit
}

func sortByDueDate(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := tasks[i].DueDate, tasks[j].DueDate
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.Before(*dj)
	})
}

// Backlog returns backlog tasks, soonest due first, undated last.
func (s *TaskStore) Backlog() []model.Task {
	out := s.filterStatus(model.StatusBacklog)
	sortByDueDate(out)
	return out
}

// Next returns in-progress tasks, soonest due first, undated last.
func (s *TaskStore) Next() []model.Task {
	out := s.filterStatus(model.StatusNext)
	sortByDueDate(out)
	return out
}

// Done returns completed tasks, most recently completed first.
func (s *TaskStore) Done() []model.Task {
	out := s.filterStatus(model.StatusDone)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].CompletedAt, out[j].CompletedAt
		if ci == nil {
			return false
		}
		if cj == nil {
			return true
		}
		return ci.After(*cj)
	})
	return out
}

func (s *TaskStore) filterStatus(status model.TaskStatus) []model.Task {
	var out []model.Task
	for _, t := range s.Items() {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func taskReminderID(id uuid.UUID) string {
	return "task-" + id.String()
}

// Create adds a task and schedules its due-date reminder.
func (s *TaskStore) Create(ctx context.Context, t model.Task) error {
	if err := s.Store.Create(ctx, t); err != nil {
		return err
	}
	s.scheduleReminder(t)
	return nil
}

// Update saves a task edit and keeps its reminder in step.
func (s *TaskStore) Update(ctx context.Context, t model.Task) error {
	if err := s.Store.Update(ctx, t); err != nil {
		return err
	}
	s.scheduleReminder(t)
	return nil
}

// Move transitions a task between statuses. Moving into done stamps
// completedAt and the completing user; moving out of done clears them.
func (s *TaskStore) Move(ctx context.Context, t model.Task, status model.TaskStatus) error {
	t.Status = status
	if status == model.StatusDone {
		now := time.Now().UTC()
		t.CompletedAt = &now
		if uid := s.session.UserID(); uid != "" {
			t.CompletedByID = &uid
		}
	} else {
		t.CompletedAt = nil
		t.CompletedByID = nil
	}
	return s.Update(ctx, t)
}

// Delete removes a task and cancels its reminder.
func (s *TaskStore) Delete(ctx context.Context, t model.Task) error {
	if s.reminders != nil {
		s.reminders.Cancel(taskReminderID(t.ID))
	}
	return s.Store.Delete(ctx, t)
}

func (s *TaskStore) scheduleReminder(t model.Task) {
	if s.reminders == nil {
		return
	}
	if t.DueDate == nil || t.Status == model.StatusDone {
		s.reminders.Cancel(taskReminderID(t.ID))
		return
	}
	s.reminders.Schedule(taskReminderID(t.ID), *t.DueDate, "Task due: "+t.Title)
}

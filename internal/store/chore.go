package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/model"
	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/recurrence"
	"github.com/kochanowski/housepulse/internal/remote"
	"github.com/kochanowski/housepulse/internal/session"
)

// ChoreStore manages recurring chores and generates their task instances.
// NextScheduledDate is recomputed on every create, update and generation.
type ChoreStore struct {
	*Store[model.RecurringChore]
}

func NewChoreStore(rc remote.Client, repo *cache.Repository, sess *session.Session, logger *slog.Logger) *ChoreStore {
	cfg := Config[model.RecurringChore]{
		Type:       record.TypeRecurringChore,
		ToRecord:   record.RecurringChoreRecord,
		FromRecord: record.RecurringChoreFromRecord,
		ID:         func(c model.RecurringChore) uuid.UUID { return c.ID },
		Household:  func(c model.RecurringChore) uuid.UUID { return c.HouseholdID },
		Touch: func(c model.RecurringChore, now time.Time) model.RecurringChore {
			c.UpdatedAt = now
			return c
		},
		Less:    func(a, b model.RecurringChore) bool { return a.Title < b.Title },
		SortKey: "title",
	}
	return &ChoreStore{Store: New(cfg, rc, repo, sess, logger)}
}

func reschedule(c model.RecurringChore, ref time.Time) model.RecurringChore {
	c.NextScheduledDate = recurrence.NextOccurrence(recurrence.FromChore(c), c.LastGeneratedDate, ref)
	return c
}

// Create recomputes the chore's next scheduled date, then persists it.
func (s *ChoreStore) Create(ctx context.Context, c model.RecurringChore) error {
	return s.Store.Create(ctx, reschedule(c, time.Now().UTC()))
}

// Update recomputes the chore's next scheduled date, then persists the edit.
func (s *ChoreStore) Update(ctx context.Context, c model.RecurringChore) error {
	return s.Store.Update(ctx, reschedule(c, time.Now().UTC()))
}

// Due returns active chores whose next scheduled date is on or before now.
func (s *ChoreStore) Due(now time.Time) []model.RecurringChore {
	var out []model.RecurringChore
	for _, c := range s.Items() {
		if !c.IsActive || c.NextScheduledDate == nil {
			continue
		}
		if !c.NextScheduledDate.After(now) {
			out = append(out, c)
		}
	}
	return out
}

// GenerateTask materializes one task instance from the chore. The task is
// created through the task store (due on the chore's scheduled date, assigned
// to the chore's defaults), then the chore's lastGeneratedDate is stamped and
// its next scheduled date recomputed.
func (s *ChoreStore) GenerateTask(ctx context.Context, c model.RecurringChore, tasks *TaskStore) (model.Task, error) {
	now := time.Now().UTC()

	due := now
	if c.NextScheduledDate != nil {
		due = *c.NextScheduledDate
	}

	choreID := c.ID
	task := model.Task{
		ID:               uuid.New(),
		HouseholdID:      c.HouseholdID,
		Title:            c.Title,
		Status:           model.StatusBacklog,
		AssigneeIDs:      append([]uuid.UUID(nil), c.DefaultAssigneeIDs...),
		AreaID:           c.AreaID,
		DueDate:          &due,
		TaskType:         model.TaskRecurring,
		RecurringChoreID: &choreID,
		Notes:            c.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if len(c.DefaultAssigneeIDs) > 0 {
		first := c.DefaultAssigneeIDs[0]
		task.AssigneeID = &first
	}

	if err := tasks.Create(ctx, task); err != nil {
		return model.Task{}, err
	}

	c.LastGeneratedDate = &now
	if err := s.Update(ctx, c); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// GenerateDue creates task instances for every due chore. Generation
// failures are logged and skipped so one bad chore cannot block the rest.
func (s *ChoreStore) GenerateDue(ctx context.Context, now time.Time, tasks *TaskStore) int {
	generated := 0
	for _, c := range s.Due(now) {
		if _, err := s.GenerateTask(ctx, c, tasks); err != nil {
			s.logger.Error("failed to generate task from chore", "chore_id", c.ID, "error", err)
			continue
		}
		generated++
	}
	return generated
}

// NewChore builds an active chore with fresh identity and timestamps.
func NewChore(householdID uuid.UUID, title string, recurrenceType model.RecurrenceType) model.RecurringChore {
	now := time.Now().UTC()
	return model.RecurringChore{
		ID:             uuid.New(),
		HouseholdID:    householdID,
		Title:          title,
		RecurrenceType: recurrenceType,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

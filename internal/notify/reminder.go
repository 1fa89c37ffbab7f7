package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Reminder is one scheduled local notification.
type Reminder struct {
	ID   string
	At   time.Time
	Body string
}

// ReminderScheduler implements the reminder contract: schedule a reminder at
// time T with body B keyed by id, cancel by id, bulk cancel. A ticker loop
// fires due reminders into the send callback.
type ReminderScheduler struct {
	mu        sync.Mutex
	reminders map[string]Reminder
	interval  time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
	send      func(Reminder)
	logger    *slog.Logger
}

func NewReminderScheduler(send func(Reminder), logger *slog.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		reminders: make(map[string]Reminder),
		interval:  60 * time.Second,
		send:      send,
		logger:    logger.With("component", "reminders"),
	}
}

// Schedule registers or replaces the reminder keyed by id.
func (s *ReminderScheduler) Schedule(id string, at time.Time, body string) {
	s.mu.Lock()
	s.reminders[id] = Reminder{ID: id, At: at, Body: body}
	s.mu.Unlock()
}

// Cancel removes the reminder keyed by id. Unknown ids are a no-op.
func (s *ReminderScheduler) Cancel(id string) {
	s.mu.Lock()
	delete(s.reminders, id)
	s.mu.Unlock()
}

// CancelAll removes every scheduled reminder.
func (s *ReminderScheduler) CancelAll() {
	s.mu.Lock()
	s.reminders = make(map[string]Reminder)
	s.mu.Unlock()
}

// Pending reports how many reminders are scheduled.
func (s *ReminderScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reminders)
}

// Start begins the scheduler loop.
func (s *ReminderScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(time.Now())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *ReminderScheduler) tick(now time.Time) {
	s.mu.Lock()
	var due []Reminder
	for id, r := range s.reminders {
		if !r.At.After(now) {
			due = append(due, r)
			delete(s.reminders, id)
		}
	}
	s.mu.Unlock()

	for _, r := range due {
		s.logger.Debug("reminder due", "id", r.ID)
		s.send(r)
	}
}

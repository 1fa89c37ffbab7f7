// Package notify handles remote-originated change notifications: an
// immediate in-app banner plus a debounced aggregated system notification,
// and scheduling of task reminders.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Change is one remote-originated record change.
type Change struct {
	RecordType string    `json:"record_type"`
	RecordID   uuid.UUID `json:"record_id"`
	Action     string    `json:"action"`
	UserID     string    `json:"user_id"`
	At         time.Time `json:"at"`
}

// AggregationWindow is how long the notifier waits for a burst of changes to
// settle before sending one aggregated notification.
const AggregationWindow = 60 * time.Second

type pendingChange struct {
	recordType string
	at         time.Time
}

// Notifier aggregates change bursts into a single deferred notification and
// keeps the immediate banner state. Changes originated by the current user
// are suppressed.
type Notifier struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	pending []pendingChange

	bannerCount int
	showBanner  bool

	currentUserID func() string
	send          func(title, body string)
	logger        *slog.Logger
}

// NewNotifier creates a Notifier. currentUserID supplies the session's user
// id for self-change suppression; send delivers the aggregated notification.
func NewNotifier(currentUserID func() string, send func(title, body string), logger *slog.Logger) *Notifier {
	return &Notifier{
		window:        AggregationWindow,
		currentUserID: currentUserID,
		send:          send,
		logger:        logger.With("component", "notify"),
	}
}

// HandleChange records a remote change: the banner updates immediately, the
// aggregated notification timer resets.
func (n *Notifier) HandleChange(c Change) {
	if c.UserID != "" && c.UserID == n.currentUserID() {
		return
	}

	at := c.At
	if at.IsZero() {
		at = time.Now()
	}

	n.mu.Lock()
	n.pending = append(n.pending, pendingChange{recordType: c.RecordType, at: at})
	n.bannerCount++
	n.showBanner = true

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.window, n.fire)
	n.mu.Unlock()

	n.logger.Debug("remote change queued", "record_type", c.RecordType, "action", c.Action)
}

func (n *Notifier) fire() {
	n.mu.Lock()
	count := len(n.pending)
	n.pending = nil
	n.bannerCount = 0
	n.showBanner = false
	n.mu.Unlock()

	if count == 0 {
		return
	}

	body := "New shared item added"
	if count > 1 {
		body = fmt.Sprintf("%d new shared items added", count)
	}
	n.send("HousePulse", body)
}

// BannerCount returns the visible new-items counter.
func (n *Notifier) BannerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bannerCount
}

// BannerVisible reports whether the in-app banner should be shown.
func (n *Notifier) BannerVisible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.showBanner
}

// DismissBanner hides the banner and clears the pending queue.
func (n *Notifier) DismissBanner() {
	n.mu.Lock()
	n.pending = nil
	n.bannerCount = 0
	n.showBanner = false
	n.mu.Unlock()
}

// Stop cancels any pending aggregated notification.
func (n *Notifier) Stop() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.mu.Unlock()
}

// SetWindow overrides the aggregation window. Tests only.
func (n *Notifier) SetWindow(d time.Duration) {
	n.mu.Lock()
	n.window = d
	n.mu.Unlock()
}

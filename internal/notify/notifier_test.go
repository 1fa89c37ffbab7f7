package notify

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type sentNotification struct {
	title string
	body  string
}

type sendRecorder struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *sendRecorder) send(title, body string) {
	r.mu.Lock()
	r.sent = append(r.sent, sentNotification{title, body})
	r.mu.Unlock()
}

func (r *sendRecorder) all() []sentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentNotification, len(r.sent))
	copy(out, r.sent)
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func change(userID string) Change {
	return Change{
		RecordType: "ShoppingItem",
		RecordID:   uuid.New(),
		Action:     "created",
		UserID:     userID,
		At:         time.Now(),
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestBannerUpdatesImmediately(t *testing.T) {
	rec := &sendRecorder{}
	n := NewNotifier(func() string { return "user-alice" }, rec.send, testLogger())
	defer n.Stop()

	n.HandleChange(change("user-bob"))
	n.HandleChange(change("user-bob"))

	if n.BannerCount() != 2 {
		t.Errorf("banner count = %d, want 2", n.BannerCount())
	}
	if !n.BannerVisible() {
		t.Error("banner should be visible")
	}
	// The aggregated notification is still deferred.
	if len(rec.all()) != 0 {
		t.Error("notification should not fire before the window elapses")
	}
}

func TestSelfChangesSuppressed(t *testing.T) {
	rec := &sendRecorder{}
	n := NewNotifier(func() string { return "user-alice" }, rec.send, testLogger())
	defer n.Stop()

	n.HandleChange(change("user-alice"))

	if n.BannerCount() != 0 {
		t.Errorf("banner count = %d, want 0 for own changes", n.BannerCount())
	}
	if n.BannerVisible() {
		t.Error("banner should stay hidden for own changes")
	}
}

func TestBurstAggregatesIntoOneNotification(t *testing.T) {
	rec := &sendRecorder{}
	n := NewNotifier(func() string { return "user-alice" }, rec.send, testLogger())
	defer n.Stop()
	n.SetWindow(30 * time.Millisecond)

	n.HandleChange(change("user-bob"))
	n.HandleChange(change("user-bob"))
	n.HandleChange(change("user-carol"))

	waitFor(t, time.Second, func() bool { return len(rec.all()) > 0 })

	sent := rec.all()
	if len(sent) != 1 {
		t.Fatalf("notifications = %d, want 1 aggregated", len(sent))
	}
	if sent[0].title != "HousePulse" {
		t.Errorf("title = %q, want %q", sent[0].title, "HousePulse")
	}
	if sent[0].body != "3 new shared items added" {
		t.Errorf("body = %q, want aggregated count", sent[0].body)
	}
}

func TestSingleChangeBody(t *testing.T) {
	rec := &sendRecorder{}
	n := NewNotifier(func() string { return "user-alice" }, rec.send, testLogger())
	defer n.Stop()
	n.SetWindow(20 * time.Millisecond)

	n.HandleChange(change("user-bob"))
	waitFor(t, time.Second, func() bool { return len(rec.all()) > 0 })

	if body := rec.all()[0].body; body != "New shared item added" {
		t.Errorf("body = %q, want singular form", body)
	}
}

func TestEachChangeResetsTimer(t *testing.T) {
	rec := &sendRecorder{}
	n := NewNotifier(func() string { return "user-alice" }, rec.send, testLogger())
	defer n.Stop()
	n.SetWindow(80 * time.Millisecond)

	// Keep the burst alive past the first window.
	for i := 0; i < 3; i++ {
		n.HandleChange(change("user-bob"))
		time.Sleep(40 * time.Millisecond)
	}
	if len(rec.all()) != 0 {
		t.Fatal("notification should be deferred while changes keep arriving")
	}

	waitFor(t, time.Second, func() bool { return len(rec.all()) > 0 })
	if len(rec.all()) != 1 {
		t.Errorf("notifications = %d, want 1", len(rec.all()))
	}
}

func TestDismissBanner(t *testing.T) {
	rec := &sendRecorder{}
	n := NewNotifier(func() string { return "user-alice" }, rec.send, testLogger())
	defer n.Stop()

	n.HandleChange(change("user-bob"))
	n.DismissBanner()

	if n.BannerVisible() || n.BannerCount() != 0 {
		t.Error("dismiss should clear the banner state")
	}
}

func TestBannerClearsAfterNotificationFires(t *testing.T) {
	rec := &sendRecorder{}
	n := NewNotifier(func() string { return "user-alice" }, rec.send, testLogger())
	defer n.Stop()
	n.SetWindow(20 * time.Millisecond)

	n.HandleChange(change("user-bob"))
	waitFor(t, time.Second, func() bool { return len(rec.all()) > 0 })

	if n.BannerVisible() || n.BannerCount() != 0 {
		t.Error("banner should clear once the aggregated notification fires")
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/logging"
	"github.com/kochanowski/housepulse/internal/notify"
	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/remote"
	"github.com/kochanowski/housepulse/internal/session"
	"github.com/kochanowski/housepulse/internal/store"
)

// app wires the cache, remote client, session and entity stores together.
// Configuration comes from HOUSEPULSE_* environment variables.
type app struct {
	db     *sql.DB
	repo   *cache.Repository
	sess   *session.Session
	logger *slog.Logger

	reminders *notify.ReminderScheduler
	notifier  *notify.Notifier
	listener  *notify.Listener

	households *store.HouseholdStore
	members    *store.MemberStore
	tasks      *store.TaskStore
	chores     *store.ChoreStore
	areas      *store.AreaStore
	shopping   *store.ShoppingStore
	backlog    *store.BacklogStore
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newApp() (*app, error) {
	logger := logging.Setup(os.Getenv("HOUSEPULSE_LOG_LEVEL"))

	dbPath := envOr("HOUSEPULSE_DB_PATH", "housepulse.db")
	db, err := cache.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	repo := cache.NewRepository(db)

	mode := session.ModeCloud
	if envOr("HOUSEPULSE_SYNC_MODE", "cloud") == "local" {
		mode = session.ModeLocalOnly
	}
	sess := session.New(mode)
	sess.SetUserID(os.Getenv("HOUSEPULSE_USER_ID"))
	if raw := os.Getenv("HOUSEPULSE_HOUSEHOLD_ID"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("parse HOUSEPULSE_HOUSEHOLD_ID: %w", err)
		}
		sess.SetHouseholdID(id)
	}

	rc := remote.NewHTTPClient(remote.Config{
		BaseURL: envOr("HOUSEPULSE_REMOTE_URL", "http://localhost:8080"),
		Token:   os.Getenv("HOUSEPULSE_TOKEN"),
	})

	reminders := notify.NewReminderScheduler(func(r notify.Reminder) {
		logger.Info("reminder due", "id", r.ID, "body", r.Body)
	}, logger)

	notifier := notify.NewNotifier(sess.UserID, func(title, body string) {
		logger.Info("notification", "title", title, "body", body)
	}, logger)

	a := &app{
		db:        db,
		repo:      repo,
		sess:      sess,
		logger:    logger,
		reminders: reminders,
		notifier:  notifier,
		members:   store.NewMemberStore(rc, repo, sess, logger),
		tasks:     store.NewTaskStore(rc, repo, sess, reminders, logger),
		chores:    store.NewChoreStore(rc, repo, sess, logger),
		areas:     store.NewAreaStore(rc, repo, sess, logger),
		shopping:  store.NewShoppingStore(rc, repo, sess, logger),
		backlog:   store.NewBacklogStore(rc, repo, sess, logger),
	}
	a.households = store.NewHouseholdStore(rc, repo, sess, a.members, logger)

	if notifyURL := os.Getenv("HOUSEPULSE_NOTIFY_URL"); notifyURL != "" && mode == session.ModeCloud {
		a.listener = notify.NewListener(notifyURL, os.Getenv("HOUSEPULSE_TOKEN"), notifier, func(c notify.Change) {
			a.reloadFor(c.RecordType)
		}, logger)
	}
	return a, nil
}

func (a *app) loadAll(ctx context.Context) {
	a.households.Load(ctx)
	a.members.Load(ctx)
	a.tasks.Load(ctx)
	a.chores.Load(ctx)
	a.areas.Load(ctx)
	a.shopping.Load(ctx)
	a.backlog.Load(ctx)
}

// reloadFor refreshes the store that publishes the changed record type.
func (a *app) reloadFor(recordType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch recordType {
	case record.TypeHousehold:
		a.households.Load(ctx)
	case record.TypeMember:
		a.members.Load(ctx)
	case record.TypeTask:
		a.tasks.Load(ctx)
	case record.TypeRecurringChore:
		a.chores.Load(ctx)
	case record.TypeArea:
		a.areas.Load(ctx)
	case record.TypeShoppingItem:
		a.shopping.Load(ctx)
	case record.TypeBacklogCategory, record.TypeBacklogItem:
		a.backlog.Load(ctx)
	default:
		a.loadAll(ctx)
	}
}

func (a *app) close() {
	a.reminders.Stop()
	a.notifier.Stop()
	if err := a.db.Close(); err != nil {
		a.logger.Error("close cache", "error", err)
	}
}

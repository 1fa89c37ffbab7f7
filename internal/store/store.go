// Package store implements the offline-first entity stores: optimistic local
// mutation, cache persistence, and best-effort remote sync with rollback.
//
// One generic engine carries the pattern; each entity type configures it with
// its mapper, its presentation order and its invariant hook. The in-memory
// list is the published source of truth for callers, the cache repository is
// the durable mirror, and the remote store is reconciled last-write-wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/model"
	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/remote"
	"github.com/kochanowski/housepulse/internal/session"
)

// Config parameterizes the generic engine for one entity type.
type Config[T any] struct {
	// Type is the remote record type name, also used as the cache entity type.
	Type string

	ToRecord   func(T) record.Record
	FromRecord func(record.Record) (T, error)

	ID        func(T) uuid.UUID
	Household func(T) uuid.UUID

	// Touch stamps the entity's updatedAt before an update is applied.
	Touch func(T, time.Time) T

	// Less is the presentation order of Items. Optional.
	Less func(a, b T) bool

	// SortKey orders the remote query.
	SortKey  string
	SortDesc bool

	// Validate is the entity-specific invariant hook, run synchronously
	// before any mutation. others excludes the entity being written.
	Validate func(others []T, candidate T) error

	// SoftFailDelete controls the failure path of Delete: when false
	// (default) a failed remote delete reloads the store; when true the
	// entity stays removed and only the pendingDelete cache row remains.
	SoftFailDelete bool
}

// Store is the generic offline-first entity store.
type Store[T any] struct {
	cfg     Config[T]
	remote  remote.Client
	cache   *cache.Repository
	session *session.Session
	logger  *slog.Logger

	mu       sync.Mutex
	items    []T
	err      error
	onChange func()
}

func New[T any](cfg Config[T], rc remote.Client, repo *cache.Repository, sess *session.Session, logger *slog.Logger) *Store[T] {
	return &Store[T]{
		cfg:     cfg,
		remote:  rc,
		cache:   repo,
		session: sess,
		logger:  logger.With("component", "store", "entity", cfg.Type),
	}
}

// SetOnChange registers a callback invoked after every visible state change.
// Must be set before the store is used.
func (s *Store[T]) SetOnChange(fn func()) {
	s.onChange = fn
}

func (s *Store[T]) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Items returns a snapshot of the published list in presentation order.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	if s.cfg.Less != nil {
		sort.SliceStable(out, func(i, j int) bool { return s.cfg.Less(out[i], out[j]) })
	}
	return out
}

// Err returns the last captured sync error, or nil.
func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearErr resets the captured error.
func (s *Store[T]) ClearErr() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

func (s *Store[T]) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Find returns the published entity with the given id.
func (s *Store[T]) Find(id uuid.UUID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if s.cfg.ID(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Load populates the store for the session's household: cache first, then an
// authoritative remote refresh. It never fails from the caller's perspective;
// refresh errors are captured in Err and the cached state stays visible.
func (s *Store[T]) Load(ctx context.Context) {
	householdID, ok := s.session.HouseholdID()
	if !ok {
		return
	}

	cached := s.loadFromCache(householdID)
	s.mu.Lock()
	s.items = cached
	s.err = nil
	s.mu.Unlock()
	s.notifyChange()

	if s.session.Mode() != session.ModeCloud {
		return
	}

	fresh, err := s.fetchRemote(ctx, householdID)
	if err != nil {
		s.logger.Warn("remote refresh failed, keeping cached state", "error", err)
		s.setErr(err)
		return
	}

	s.mu.Lock()
	s.items = fresh
	s.mu.Unlock()
	s.notifyChange()

	for _, it := range fresh {
		if err := s.persist(it, model.SyncSynced); err != nil {
			s.logger.Error("cache write after refresh", "error", err)
		}
	}
}

func (s *Store[T]) loadFromCache(householdID uuid.UUID) []T {
	rows, err := s.cache.FindAll(s.cfg.Type, householdID)
	if err != nil {
		s.logger.Error("cache read", "error", err)
		return nil
	}

	var out []T
	for _, row := range rows {
		if row.SyncStatus == model.SyncPendingDelete {
			continue
		}
		var it T
		if err := json.Unmarshal(row.Payload, &it); err != nil {
			s.logger.Error("cache payload decode", "id", row.ID, "error", err)
			continue
		}
		out = append(out, it)
	}
	return out
}

func (s *Store[T]) fetchRemote(ctx context.Context, householdID uuid.UUID) ([]T, error) {
	q := remote.ByHousehold(householdID, s.cfg.SortKey)
	q.Descending = s.cfg.SortDesc

	recs, err := s.remote.Query(ctx, s.cfg.Type, q)
	if err != nil {
		return nil, err
	}

	// Unparseable records are dropped, not fatal for the whole fetch.
	var out []T
	for _, rec := range recs {
		it, err := s.cfg.FromRecord(rec)
		if err != nil {
			if errors.Is(err, record.ErrInvalidRecord) {
				s.logger.Warn("skipping invalid record", "id", rec.ID, "error", err)
				continue
			}
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *Store[T]) persist(it T, status model.SyncStatus) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	row := cache.Row{
		ID:          s.cfg.ID(it),
		EntityType:  s.cfg.Type,
		HouseholdID: s.cfg.Household(it),
		Payload:     payload,
		SyncStatus:  status,
	}
	if status == model.SyncSynced {
		now := time.Now().UTC()
		row.LastSyncedAt = &now
	}
	return s.cache.Upsert(row)
}

func (s *Store[T]) validate(candidate T) error {
	if s.cfg.Validate == nil {
		return nil
	}
	s.mu.Lock()
	others := make([]T, 0, len(s.items))
	for _, it := range s.items {
		if s.cfg.ID(it) != s.cfg.ID(candidate) {
			others = append(others, it)
		}
	}
	s.mu.Unlock()
	return s.cfg.Validate(others, candidate)
}

// Create validates, appends the entity optimistically, writes a pendingUpload
// cache row and syncs to the remote store. On remote failure the optimistic
// in-memory entry is rolled back while the pending cache row stays for a
// later retry.
func (s *Store[T]) Create(ctx context.Context, it T) error {
	if err := s.validate(it); err != nil {
		return err
	}

	s.mu.Lock()
	s.items = append(s.items, it)
	s.mu.Unlock()
	s.notifyChange()

	if err := s.persist(it, model.SyncPendingUpload); err != nil {
		s.logger.Error("cache write on create", "error", err)
	}

	if s.session.Mode() != session.ModeCloud {
		if err := s.cache.MarkStatus(s.cfg.ID(it), model.SyncSynced); err != nil {
			s.logger.Error("cache mark synced", "error", err)
		}
		return nil
	}

	if _, err := s.remote.Save(ctx, s.cfg.ToRecord(it)); err != nil {
		id := s.cfg.ID(it)
		s.mu.Lock()
		s.items = removeByID(s.items, id, s.cfg.ID)
		s.err = err
		s.mu.Unlock()
		s.notifyChange()
		return err
	}

	if err := s.cache.MarkStatus(s.cfg.ID(it), model.SyncSynced); err != nil {
		s.logger.Error("cache mark synced", "error", err)
	}
	return nil
}

// Update stamps updatedAt, validates, replaces the published entry and syncs.
// A failed remote save is resolved by reloading from cache+remote rather than
// undoing the single edit: partial local edits may have compounded.
func (s *Store[T]) Update(ctx context.Context, it T) error {
	if s.cfg.Touch != nil {
		it = s.cfg.Touch(it, time.Now().UTC())
	}
	if err := s.validate(it); err != nil {
		return err
	}

	id := s.cfg.ID(it)
	s.mu.Lock()
	replaced := false
	for i := range s.items {
		if s.cfg.ID(s.items[i]) == id {
			s.items[i] = it
			replaced = true
			break
		}
	}
	if !replaced {
		s.items = append(s.items, it)
	}
	s.mu.Unlock()
	s.notifyChange()

	if err := s.persist(it, model.SyncPendingUpload); err != nil {
		s.logger.Error("cache write on update", "error", err)
	}

	if s.session.Mode() != session.ModeCloud {
		if err := s.cache.MarkStatus(id, model.SyncSynced); err != nil {
			s.logger.Error("cache mark synced", "error", err)
		}
		return nil
	}

	if _, err := s.remote.Save(ctx, s.cfg.ToRecord(it)); err != nil {
		s.Load(ctx)
		s.setErr(err)
		return err
	}

	if err := s.cache.MarkStatus(id, model.SyncSynced); err != nil {
		s.logger.Error("cache mark synced", "error", err)
	}
	return nil
}

// Delete removes the entity from the published list, marks the cache row
// pendingDelete and deletes remotely. Success removes the cache row. Failure
// either reloads the store or, for stores configured to soft-fail, leaves the
// entity removed with the pendingDelete row retained for reconciliation.
func (s *Store[T]) Delete(ctx context.Context, it T) error {
	id := s.cfg.ID(it)

	s.mu.Lock()
	s.items = removeByID(s.items, id, s.cfg.ID)
	s.mu.Unlock()
	s.notifyChange()

	if err := s.cache.MarkStatus(id, model.SyncPendingDelete); err != nil {
		s.logger.Error("cache mark pending delete", "error", err)
	}

	if s.session.Mode() != session.ModeCloud {
		if err := s.cache.Delete(id); err != nil {
			s.logger.Error("cache delete", "error", err)
		}
		return nil
	}

	if err := s.remote.Delete(ctx, s.cfg.Type, id); err != nil {
		if !s.cfg.SoftFailDelete {
			s.Load(ctx)
		}
		s.setErr(err)
		return err
	}

	if err := s.cache.Delete(id); err != nil {
		s.logger.Error("cache delete", "error", err)
	}
	return nil
}

func removeByID[T any](items []T, id uuid.UUID, idOf func(T) uuid.UUID) []T {
	out := items[:0]
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}

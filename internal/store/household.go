package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/model"
	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/remote"
	"github.com/kochanowski/housepulse/internal/session"
)

var ErrEmptyHouseholdName = errors.New("household name cannot be empty")

// HouseholdStore manages the single household of the current session. Unlike
// the list stores it loads by id rather than by household query, and Create
// also enrolls the creating user as the owner member and activates the
// household on the session.
type HouseholdStore struct {
	remote  remote.Client
	cache   *cache.Repository
	session *session.Session
	members *MemberStore
	logger  *slog.Logger

	mu       sync.Mutex
	current  *model.Household
	err      error
	onChange func()
}

func NewHouseholdStore(rc remote.Client, repo *cache.Repository, sess *session.Session, members *MemberStore, logger *slog.Logger) *HouseholdStore {
	return &HouseholdStore{
		remote:  rc,
		cache:   repo,
		session: sess,
		members: members,
		logger:  logger.With("component", "store", "entity", record.TypeHousehold),
	}
}

func (s *HouseholdStore) SetOnChange(fn func()) {
	s.onChange = fn
}

func (s *HouseholdStore) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Current returns the active household, or false when none is loaded.
func (s *HouseholdStore) Current() (model.Household, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return model.Household{}, false
	}
	return *s.current, true
}

func (s *HouseholdStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *HouseholdStore) setCurrent(h *model.Household) {
	s.mu.Lock()
	s.current = h
	s.mu.Unlock()
	s.notifyChange()
}

func (s *HouseholdStore) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Load resolves the session's household, cache first then remote fetch by id.
// Refresh errors keep the cached copy visible and land in Err.
func (s *HouseholdStore) Load(ctx context.Context) {
	id, ok := s.session.HouseholdID()
	if !ok {
		s.setCurrent(nil)
		return
	}

	if row, err := s.cache.Find(id); err != nil {
		s.logger.Error("cache read", "error", err)
	} else if row != nil && row.SyncStatus != model.SyncPendingDelete {
		var h model.Household
		if err := json.Unmarshal(row.Payload, &h); err != nil {
			s.logger.Error("cache payload decode", "id", row.ID, "error", err)
		} else {
			s.setCurrent(&h)
		}
	}

	if s.session.Mode() != session.ModeCloud {
		return
	}

	rec, err := s.remote.Fetch(ctx, record.TypeHousehold, id)
	if err != nil {
		s.logger.Warn("remote refresh failed, keeping cached state", "error", err)
		s.setErr(err)
		return
	}
	h, err := record.HouseholdFromRecord(rec)
	if err != nil {
		s.logger.Warn("skipping invalid record", "id", rec.ID, "error", err)
		s.setErr(err)
		return
	}

	s.setCurrent(&h)
	s.setErr(nil)
	if err := s.persist(h, model.SyncSynced); err != nil {
		s.logger.Error("cache write after refresh", "error", err)
	}
}

func (s *HouseholdStore) persist(h model.Household, status model.SyncStatus) error {
	payload, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	row := cache.Row{
		ID:          h.ID,
		EntityType:  record.TypeHousehold,
		HouseholdID: h.ID,
		Payload:     payload,
		SyncStatus:  status,
	}
	if status == model.SyncSynced {
		now := time.Now().UTC()
		row.LastSyncedAt = &now
	}
	return s.cache.Upsert(row)
}

// Create makes a new household owned by the session user, enrolls the owner
// member and activates the household on the session. Unlike the list stores a
// failed remote save fails the whole operation: there is nothing to fall back
// to before a household exists.
func (s *HouseholdStore) Create(ctx context.Context, name string) (model.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Household{}, ErrEmptyHouseholdName
	}

	now := time.Now().UTC()
	h := model.Household{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   s.session.UserID(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.session.Mode() == session.ModeCloud {
		if _, err := s.remote.Save(ctx, record.HouseholdRecord(h)); err != nil {
			s.setErr(err)
			return model.Household{}, fmt.Errorf("create household: %w", err)
		}
	}

	if err := s.persist(h, model.SyncSynced); err != nil {
		s.logger.Error("cache write on create", "error", err)
	}

	s.setCurrent(&h)
	s.session.SetHouseholdID(h.ID)

	owner := NewMember(h.ID, h.OwnerID, h.OwnerID, model.RoleOwner)
	if err := s.members.Create(ctx, owner); err != nil {
		s.logger.Warn("owner member enrollment failed", "error", err)
	}
	return h, nil
}

// Rename updates the household name.
func (s *HouseholdStore) Rename(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyHouseholdName
	}

	h, ok := s.Current()
	if !ok {
		return remote.ErrRecordNotFound
	}
	h.Name = name
	h.UpdatedAt = time.Now().UTC()

	s.setCurrent(&h)
	if err := s.persist(h, model.SyncPendingUpload); err != nil {
		s.logger.Error("cache write on update", "error", err)
	}

	if s.session.Mode() != session.ModeCloud {
		if err := s.cache.MarkStatus(h.ID, model.SyncSynced); err != nil {
			s.logger.Error("cache mark synced", "error", err)
		}
		return nil
	}

	if _, err := s.remote.Save(ctx, record.HouseholdRecord(h)); err != nil {
		s.Load(ctx)
		s.setErr(err)
		return err
	}
	if err := s.cache.MarkStatus(h.ID, model.SyncSynced); err != nil {
		s.logger.Error("cache mark synced", "error", err)
	}
	return nil
}

// CreateShare starts sharing the household and returns the invite URL.
func (s *HouseholdStore) CreateShare(ctx context.Context) (remote.Share, error) {
	h, ok := s.Current()
	if !ok {
		return remote.Share{}, remote.ErrRecordNotFound
	}
	share, err := s.remote.CreateShare(ctx, h.ID)
	if err != nil {
		s.setErr(err)
		return remote.Share{}, err
	}
	return share, nil
}

// ShareURL returns the invite URL of an already shared household.
func (s *HouseholdStore) ShareURL(ctx context.Context) (string, error) {
	h, ok := s.Current()
	if !ok {
		return "", remote.ErrRecordNotFound
	}
	url, err := s.remote.FetchShareURL(ctx, h.ID)
	if err != nil {
		return "", err
	}
	return url, nil
}

// AcceptShare joins the household behind an invite URL, enrolls the session
// user as a regular member and activates the household.
func (s *HouseholdStore) AcceptShare(ctx context.Context, inviteURL string) (model.Household, error) {
	householdID, err := s.remote.AcceptShare(ctx, inviteURL)
	if err != nil {
		s.setErr(err)
		return model.Household{}, fmt.Errorf("accept share: %w", err)
	}

	rec, err := s.remote.Fetch(ctx, record.TypeHousehold, householdID)
	if err != nil {
		return model.Household{}, fmt.Errorf("fetch shared household: %w", err)
	}
	h, err := record.HouseholdFromRecord(rec)
	if err != nil {
		return model.Household{}, err
	}

	if err := s.persist(h, model.SyncSynced); err != nil {
		s.logger.Error("cache write on accept", "error", err)
	}
	s.setCurrent(&h)
	s.session.SetHouseholdID(h.ID)

	member := NewMember(h.ID, s.session.UserID(), s.session.UserID(), model.RoleMember)
	if err := s.members.Create(ctx, member); err != nil {
		s.logger.Warn("member enrollment failed", "error", err)
	}
	return h, nil
}

// Leave clears the active household from the session. Local cache rows are
// kept so rejoining does not start cold.
func (s *HouseholdStore) Leave() {
	s.setCurrent(nil)
	s.session.ClearHousehold()
}

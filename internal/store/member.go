package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/model"
	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/remote"
	"github.com/kochanowski/housepulse/internal/session"
)

// Membership business-rule errors. Validated against current in-memory
// membership before any cache or remote call.
var (
	ErrEmptyDisplayName        = errors.New("display name must not be empty")
	ErrLastOwner               = errors.New("household must keep at least one owner")
	ErrCannotDemoteSelf        = errors.New("owners cannot demote themselves")
	ErrInsufficientPermissions = errors.New("only owners can manage members")
	ErrMemberNotFound          = errors.New("member not found")
)

// MemberStore manages household membership. Its operations return errors to
// the caller for contextual handling rather than capturing them.
type MemberStore struct {
	*Store[model.Member]
	session *session.Session
}

func NewMemberStore(rc remote.Client, repo *cache.Repository, sess *session.Session, logger *slog.Logger) *MemberStore {
	cfg := Config[model.Member]{
		Type:       record.TypeMember,
		ToRecord:   record.MemberRecord,
		FromRecord: record.MemberFromRecord,
		ID:         func(m model.Member) uuid.UUID { return m.ID },
		Household:  func(m model.Member) uuid.UUID { return m.HouseholdID },
		Less:       func(a, b model.Member) bool { return a.JoinedAt.Before(b.JoinedAt) },
		SortKey:    "joinedAt",
	}
	return &MemberStore{
		Store:   New(cfg, rc, repo, sess, logger),
		session: sess,
	}
}

// Current returns the member entry of the session's user.
func (s *MemberStore) Current() (model.Member, bool) {
	uid := s.session.UserID()
	for _, m := range s.Items() {
		if m.UserID == uid {
			return m, true
		}
	}
	return model.Member{}, false
}

func (s *MemberStore) activeOwners() int {
	count := 0
	for _, m := range s.Items() {
		if m.Role == model.RoleOwner && m.IsActive {
			count++
		}
	}
	return count
}

// UpdateDisplayName renames a member. Owners may rename anyone; members only
// themselves.
func (s *MemberStore) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	if strings.TrimSpace(displayName) == "" {
		return ErrEmptyDisplayName
	}

	target, ok := s.Find(id)
	if !ok {
		return ErrMemberNotFound
	}

	caller, ok := s.Current()
	if !ok || (caller.Role != model.RoleOwner && target.UserID != caller.UserID) {
		return ErrInsufficientPermissions
	}

	target.DisplayName = displayName
	return s.Update(ctx, target)
}

// UpdateRole changes a member's role. Removing the household's last owner,
// demoting yourself, or calling as a non-owner are rejected.
func (s *MemberStore) UpdateRole(ctx context.Context, id uuid.UUID, role model.MemberRole) error {
	target, ok := s.Find(id)
	if !ok {
		return ErrMemberNotFound
	}

	caller, ok := s.Current()
	if !ok || caller.Role != model.RoleOwner {
		return ErrInsufficientPermissions
	}

	if target.Role == model.RoleOwner && role != model.RoleOwner {
		if s.activeOwners() <= 1 {
			return ErrLastOwner
		}
		if target.UserID == caller.UserID {
			return ErrCannotDemoteSelf
		}
	}

	target.Role = role
	return s.Update(ctx, target)
}

// DeleteMember removes a member from the household.
func (s *MemberStore) DeleteMember(ctx context.Context, id uuid.UUID) error {
	target, ok := s.Find(id)
	if !ok {
		return ErrMemberNotFound
	}

	caller, ok := s.Current()
	if !ok || caller.Role != model.RoleOwner {
		return ErrInsufficientPermissions
	}

	if target.Role == model.RoleOwner && s.activeOwners() <= 1 {
		return ErrLastOwner
	}

	return s.Delete(ctx, target)
}

// NewMember builds a member entry with fresh identity and timestamps.
func NewMember(householdID uuid.UUID, userID, displayName string, role model.MemberRole) model.Member {
	return model.Member{
		ID:          uuid.New(),
		HouseholdID: householdID,
		UserID:      userID,
		DisplayName: displayName,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
		IsActive:    true,
	}
}

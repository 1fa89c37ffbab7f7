package store

import (
	"context"
	"errors"
	"testing"

	"github.com/kochanowski/housepulse/internal/model"
)

// seedMembers creates an owner entry for the session user plus the given
// extra members.
func seedMembers(t *testing.T, env *testEnv, s *MemberStore, extras ...model.Member) model.Member {
	t.Helper()
	owner := NewMember(env.householdID, "user-alice", "Alice", model.RoleOwner)
	if err := s.Create(context.Background(), owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	for _, m := range extras {
		if err := s.Create(context.Background(), m); err != nil {
			t.Fatalf("create member %s: %v", m.DisplayName, err)
		}
	}
	return owner
}

func (e *testEnv) memberStore() *MemberStore {
	return NewMemberStore(e.fake, e.repo, e.sess, e.logger)
}

func TestCurrentMember(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	owner := seedMembers(t, env, s)

	got, ok := s.Current()
	if !ok {
		t.Fatal("current member not found")
	}
	if got.ID != owner.ID {
		t.Errorf("current = %v, want session user's entry", got.ID)
	}
}

func TestUpdateDisplayNameEmptyRejected(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	owner := seedMembers(t, env, s)

	err := s.UpdateDisplayName(context.Background(), owner.ID, "   ")
	if !errors.Is(err, ErrEmptyDisplayName) {
		t.Errorf("err = %v, want ErrEmptyDisplayName", err)
	}
}

func TestMemberCanOnlyRenameSelf(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	bob := NewMember(env.householdID, "user-bob", "Bob", model.RoleMember)
	seedMembers(t, env, s, bob)

	// Session user becomes a plain member.
	env.sess.SetUserID("user-bob")

	if err := s.UpdateDisplayName(context.Background(), bob.ID, "Robert"); err != nil {
		t.Errorf("renaming self: %v", err)
	}

	owner, _ := func() (model.Member, bool) {
		for _, m := range s.Items() {
			if m.UserID == "user-alice" {
				return m, true
			}
		}
		return model.Member{}, false
	}()
	err := s.UpdateDisplayName(context.Background(), owner.ID, "Al")
	if !errors.Is(err, ErrInsufficientPermissions) {
		t.Errorf("renaming another member: err = %v, want ErrInsufficientPermissions", err)
	}
}

func TestOwnerCanRenameAnyone(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	bob := NewMember(env.householdID, "user-bob", "Bob", model.RoleMember)
	seedMembers(t, env, s, bob)

	if err := s.UpdateDisplayName(context.Background(), bob.ID, "Robert"); err != nil {
		t.Errorf("owner renaming member: %v", err)
	}
	got, _ := s.Find(bob.ID)
	if got.DisplayName != "Robert" {
		t.Errorf("display name = %q, want %q", got.DisplayName, "Robert")
	}
}

func TestNonOwnerCannotChangeRoles(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	bob := NewMember(env.householdID, "user-bob", "Bob", model.RoleMember)
	seedMembers(t, env, s, bob)

	env.sess.SetUserID("user-bob")
	err := s.UpdateRole(context.Background(), bob.ID, model.RoleOwner)
	if !errors.Is(err, ErrInsufficientPermissions) {
		t.Errorf("err = %v, want ErrInsufficientPermissions", err)
	}
}

func TestLastOwnerCannotBeDemoted(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	bob := NewMember(env.householdID, "user-bob", "Bob", model.RoleMember)
	owner := seedMembers(t, env, s, bob)

	err := s.UpdateRole(context.Background(), owner.ID, model.RoleMember)
	if !errors.Is(err, ErrLastOwner) {
		t.Errorf("err = %v, want ErrLastOwner", err)
	}
}

func TestOwnerCannotDemoteSelf(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	carol := NewMember(env.householdID, "user-carol", "Carol", model.RoleOwner)
	owner := seedMembers(t, env, s, carol)

	// Two owners exist, so the last-owner check passes; self-demotion is
	// still rejected.
	err := s.UpdateRole(context.Background(), owner.ID, model.RoleMember)
	if !errors.Is(err, ErrCannotDemoteSelf) {
		t.Errorf("err = %v, want ErrCannotDemoteSelf", err)
	}
}

func TestOwnerCanDemoteOtherOwner(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	carol := NewMember(env.householdID, "user-carol", "Carol", model.RoleOwner)
	seedMembers(t, env, s, carol)

	if err := s.UpdateRole(context.Background(), carol.ID, model.RoleMember); err != nil {
		t.Fatalf("demote: %v", err)
	}
	got, _ := s.Find(carol.ID)
	if got.Role != model.RoleMember {
		t.Errorf("role = %q, want %q", got.Role, model.RoleMember)
	}
}

func TestPromoteMemberToOwner(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	bob := NewMember(env.householdID, "user-bob", "Bob", model.RoleMember)
	seedMembers(t, env, s, bob)

	if err := s.UpdateRole(context.Background(), bob.ID, model.RoleOwner); err != nil {
		t.Fatalf("promote: %v", err)
	}
	got, _ := s.Find(bob.ID)
	if got.Role != model.RoleOwner {
		t.Errorf("role = %q, want %q", got.Role, model.RoleOwner)
	}
}

func TestDeleteLastOwnerRejected(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	bob := NewMember(env.householdID, "user-bob", "Bob", model.RoleMember)
	owner := seedMembers(t, env, s, bob)

	err := s.DeleteMember(context.Background(), owner.ID)
	if !errors.Is(err, ErrLastOwner) {
		t.Errorf("err = %v, want ErrLastOwner", err)
	}
}

func TestDeleteMemberAsOwner(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	bob := NewMember(env.householdID, "user-bob", "Bob", model.RoleMember)
	seedMembers(t, env, s, bob)

	if err := s.DeleteMember(context.Background(), bob.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Find(bob.ID); ok {
		t.Error("member should be gone")
	}
}

func TestDeleteUnknownMember(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	seedMembers(t, env, s)

	err := s.DeleteMember(context.Background(), NewMember(env.householdID, "x", "X", model.RoleMember).ID)
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestMembersOrderedByJoinDate(t *testing.T) {
	env := setupEnv(t)
	s := env.memberStore()
	owner := seedMembers(t, env, s)

	// Bob joins after the owner.
	bob := NewMember(env.householdID, "user-bob", "Bob", model.RoleMember)
	if err := s.Create(context.Background(), bob); err != nil {
		t.Fatalf("create member: %v", err)
	}

	got := s.Items()
	if len(got) != 2 {
		t.Fatalf("member count = %d, want 2", len(got))
	}
	if got[0].ID != owner.ID {
		t.Errorf("first member = %q, want earliest joiner", got[0].DisplayName)
	}
}

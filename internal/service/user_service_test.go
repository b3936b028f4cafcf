package service

import (
	"errors"
	"testing"
)

type recordingRoleSyncer struct {
	calls map[uint]bool
}

func (r *recordingRoleSyncer) SyncAdminFlag(userID uint, isAdmin bool) error {
	if r.calls == nil {
		r.calls = map[uint]bool{}
	}
	r.calls[userID] = isAdmin
	return nil
}

func TestAdminUserListSortedByName(t *testing.T) {
	f := setupStore(t)
	svc := NewUserService(testAuthConfig(), f.users, nil)
	f.user(t, "Carol", "carol@shop.test")
	f.user(t, "alice", "alice@other.test")
	f.user(t, "Bob", "bob@shop.test")

	users, total, err := svc.List(AdminUserFilter{})
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if total != 3 || users[0].Name != "Bob" || users[1].Name != "Carol" || users[2].Name != "alice" {
		t.Fatalf("unexpected order: total=%d users=%v", total, users)
	}

	users, total, err = svc.List(AdminUserFilter{Keyword: "shop.test"})
	if err != nil {
		t.Fatalf("keyword list failed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("keyword should match email, got total=%d", total)
	}
}

func TestAdminUserUpdate(t *testing.T) {
	f := setupStore(t)
	roles := &recordingRoleSyncer{}
	svc := NewUserService(testAuthConfig(), f.users, roles)
	alice := f.userWithPassword(t, "Alice", "alice@shop.test", "secret1", false, false)
	f.user(t, "Bob", "bob@shop.test")

	updated, err := svc.Update(alice.ID, AdminUserUpdateInput{Name: "Alice B", Email: "alice.b@shop.test", IsAdmin: true})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Alice B" || updated.Email != "alice.b@shop.test" || !updated.IsAdmin {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.TokenVersion != 0 {
		t.Fatalf("profile edit must not revoke tokens, got version %d", updated.TokenVersion)
	}
	if granted, ok := roles.calls[alice.ID]; !ok || !granted {
		t.Fatalf("admin flag should be synced to roles, got %v", roles.calls)
	}
	if err := VerifyPassword(updated.PasswordHash, "secret1"); err != nil {
		t.Fatalf("empty password must keep the old one")
	}

	banned, err := svc.Update(alice.ID, AdminUserUpdateInput{Name: "Alice B", Email: "alice.b@shop.test", IsAdmin: true, IsBanned: true, Password: "newpass1"})
	if err != nil {
		t.Fatalf("ban update failed: %v", err)
	}
	if !banned.IsBanned || banned.TokenVersion != 1 {
		t.Fatalf("ban with password change should bump token version once, got %+v", banned)
	}
	if err := VerifyPassword(banned.PasswordHash, "newpass1"); err != nil {
		t.Fatalf("password should be replaced")
	}
}

func TestAdminUserUpdateErrors(t *testing.T) {
	f := setupStore(t)
	svc := NewUserService(testAuthConfig(), f.users, nil)
	alice := f.user(t, "Alice", "alice@shop.test")
	f.user(t, "Bob", "bob@shop.test")

	if _, err := svc.Update(alice.ID, AdminUserUpdateInput{Name: "Alice", Email: "BOB@shop.test"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate email want ErrEmailExists got %v", err)
	}
	if _, err := svc.Update(alice.ID, AdminUserUpdateInput{Name: "Alice", Email: "alice@shop.test", Password: "123"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password want validation error got %v", err)
	}
	if _, err := svc.Update(alice.ID, AdminUserUpdateInput{Email: "alice@shop.test"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty name want validation error got %v", err)
	}
	if _, err := svc.Update(alice.ID+100, AdminUserUpdateInput{Name: "X", Email: "x@shop.test"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user want ErrUserNotFound got %v", err)
	}
}

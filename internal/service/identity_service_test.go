package service

import (
	"errors"
	"testing"

	"github.com/inkwell/internal/db"
)

func TestIdentitySyncCreatesUser(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewIdentityService(gdb, []string{"boss@example.com"})

	user, err := svc.Sync(ExternalIdentity{
		ID:        "idp_123",
		Email:     "writer@example.com",
		FirstName: "小",
		LastName:  "王",
		AvatarURL: "https://cdn.example.com/a.png",
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if user.Name != "小 王" {
		t.Fatalf("unexpected display name %q", user.Name)
	}
	if user.Role != db.RoleUser {
		t.Fatalf("expected role user, got %s", user.Role)
	}

	admin, err := svc.Sync(ExternalIdentity{ID: "idp_999", Email: "boss@example.com"})
	if err != nil {
		t.Fatalf("sync admin: %v", err)
	}
	if admin.Role != db.RoleAdmin {
		t.Fatalf("expected allow-listed email to become admin, got %s", admin.Role)
	}
	if admin.Name != "boss" {
		t.Fatalf("expected name derived from email local part, got %q", admin.Name)
	}
}

func TestIdentitySyncUpdateKeepsRole(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewIdentityService(gdb, nil)

	created, err := svc.Sync(ExternalIdentity{ID: "idp_42", Email: "old@example.com", FirstName: "旧"})
	if err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	// 手工升级为管理员，后续同步不得改写
	if err := gdb.Model(created).Update("role", db.RoleAdmin).Error; err != nil {
		t.Fatalf("promote: %v", err)
	}

	updated, err := svc.Sync(ExternalIdentity{
		ID:        "idp_42",
		Email:     "new@example.com",
		FirstName: "新",
		AvatarURL: "https://cdn.example.com/new.png",
	})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("expected in-place update, got new row %d", updated.ID)
	}
	if updated.Email != "new@example.com" {
		t.Fatalf("expected refreshed email, got %q", updated.Email)
	}
	if updated.Role != db.RoleAdmin {
		t.Fatalf("role must survive profile sync, got %s", updated.Role)
	}

	var total int64
	gdb.Model(&db.User{}).Count(&total)
	if total != 1 {
		t.Fatalf("expected single user row, got %d", total)
	}
}

func TestIdentitySyncRequiresID(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewIdentityService(gdb, nil)

	if _, err := svc.Sync(ExternalIdentity{Email: "no-id@example.com"}); !errors.Is(err, ErrIdentityMissing) {
		t.Fatalf("expected ErrIdentityMissing, got %v", err)
	}
}

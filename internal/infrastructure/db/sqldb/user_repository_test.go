package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

func TestUserRepository_RegisterAndGet(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	seedUser(t, repo, "u1", "alice")

	got, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Username != "alice" || got.Role != domain.RoleUser || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("created_at not scanned")
	}

	missing, err := repo.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing user, got %+v, %v", missing, err)
	}
}

func TestUserRepository_RegisterDuplicate(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "u1", "alice")

	_, err := repo.Register(context.Background(), &domain.User{
		ID: "u2", Username: "alice", Email: "other@example.com", PasswordHash: "x", Role: domain.RoleUser,
	})
	if !errors.Is(err, domain.SignalUserAlreadyExists) {
		t.Fatalf("expected SignalUserAlreadyExists, got %v", err)
	}
}

func TestUserRepository_Search(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	seedUser(t, repo, "u1", "alice")
	seedUser(t, repo, "u2", "bob")

	got, err := repo.Search(ctx, domain.UserFilter{Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "u2" {
		t.Fatalf("unexpected result: %+v", got)
	}

	got, err = repo.Search(ctx, domain.UserFilter{Username: "alice", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestUserRepository_ModifyAndDelete(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()
	seedUser(t, repo, "u1", "alice")
	seedUser(t, repo, "u2", "bob")

	email := "alice@new.example.com"
	if err := repo.ModifyByID(ctx, "u1", domain.UserPatch{Email: &email}); err != nil {
		t.Fatalf("modify: %v", err)
	}
	got, _ := repo.GetByID(ctx, "u1")
	if got.Email != email {
		t.Fatalf("email not updated: %+v", got)
	}

	taken := "bob"
	if err := repo.ModifyByID(ctx, "u1", domain.UserPatch{Username: &taken}); !errors.Is(err, domain.SignalUserAlreadyExists) {
		t.Fatalf("expected SignalUserAlreadyExists, got %v", err)
	}
	if err := repo.ModifyByID(ctx, "nope", domain.UserPatch{Email: &email}); !errors.Is(err, domain.SignalUserNotFound) {
		t.Fatalf("expected SignalUserNotFound, got %v", err)
	}

	if err := repo.DeleteByID(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteByID(ctx, "u1"); !errors.Is(err, domain.SignalUserNotFound) {
		t.Fatalf("expected SignalUserNotFound, got %v", err)
	}
}

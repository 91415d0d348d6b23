package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID        map[string]*domain.User
	searchCalls int
	modifyErr   error
	lastPatch   domain.UserPatch
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Search(_ context.Context, f domain.UserFilter) ([]*domain.User, error) {
	r.searchCalls++
	var out []*domain.User
	for _, u := range r.byID {
		if f.Username != "" && u.Username != f.Username {
			continue
		}
		if f.Email != "" && u.Email != f.Email {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Register(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.SignalUserAlreadyExists
		}
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return cloneUser(r.byID[id]), nil
}

func (r *stubUserRepo) ModifyByID(_ context.Context, id string, patch domain.UserPatch) error {
	r.lastPatch = patch
	if r.modifyErr != nil {
		return r.modifyErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.SignalUserNotFound
	}
	return nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.SignalUserNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubHasher struct{}

func (stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (stubHasher) Compare(plain, hash string) bool  { return hash == "hashed:"+plain }

type publishedEvent struct {
	name        domain.EventName
	aggregateID string
	payload     any
}

type stubPublisher struct {
	err       error
	published []publishedEvent
}

func (p *stubPublisher) Publish(_ context.Context, name domain.EventName, aggregateID string, payload any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedEvent{name: name, aggregateID: aggregateID, payload: payload})
	return nil
}

func newUserSvc(repo *stubUserRepo) (*UserService, *stubPublisher) {
	pub := &stubPublisher{}
	return NewUserService(repo, stubHasher{}, pub, zerolog.Nop()), pub
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestUserService_RegisterUser_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, pub := newUserSvc(repo)

	res, err := svc.RegisterUser(context.Background(), ports.RegisterUserInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}
	if res.ID == "" || res.Role != domain.RoleUser {
		t.Fatalf("unexpected result: %+v", res)
	}
	stored := repo.byID[res.ID]
	if stored.PasswordHash != "hashed:secret1" {
		t.Fatalf("expected hashed password, got %q", stored.PasswordHash)
	}
	if len(pub.published) != 1 || pub.published[0].name != domain.EventUserRegistered {
		t.Fatalf("expected USER_REGISTERED event, got %+v", pub.published)
	}
}

func TestUserService_RegisterUser_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserSvc(repo)
	in := ports.RegisterUserInput{Username: "bob", Email: "bob@example.com", Password: "secret1"}

	if _, err := svc.RegisterUser(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.RegisterUser(context.Background(), in); !errors.Is(err, domain.SignalUserAlreadyExists) {
		t.Fatalf("expected SignalUserAlreadyExists, got %v", err)
	}
}

func TestUserService_SearchUsers_EmptyFilterRejectedBeforeRepository(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserSvc(repo)

	_, err := svc.SearchUsers(context.Background(), domain.UserFilter{})
	if !errors.Is(err, domain.SignalUserSearchInvalidFilters) {
		t.Fatalf("expected SignalUserSearchInvalidFilters, got %v", err)
	}
	if repo.searchCalls != 0 {
		t.Fatalf("repository must not be called, got %d calls", repo.searchCalls)
	}
}

func TestUserService_SearchUsers_NoMatchIsEmpty(t *testing.T) {
	svc, _ := newUserSvc(newStubUserRepo())

	res, err := svc.SearchUsers(context.Background(), domain.UserFilter{Username: "ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	svc, _ := newUserSvc(newStubUserRepo())

	if _, err := svc.GetUserByID(context.Background(), "missing"); !errors.Is(err, domain.SignalUserNotFound) {
		t.Fatalf("expected SignalUserNotFound, got %v", err)
	}
}

func TestUserService_ModifyUserByID_EmptyPatchRejected(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserSvc(repo)

	if err := svc.ModifyUserByID(context.Background(), "id", ports.ModifyUserInput{}); !errors.Is(err, domain.SignalUserUpdateRejected) {
		t.Fatalf("expected SignalUserUpdateRejected, got %v", err)
	}
}

func TestUserService_ModifyUserByID_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	repo.byID["u1"] = &domain.User{ID: "u1", Username: "carol"}
	svc, _ := newUserSvc(repo)

	pwd := "newpass"
	if err := svc.ModifyUserByID(context.Background(), "u1", ports.ModifyUserInput{Password: &pwd}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastPatch.PasswordHash == nil || *repo.lastPatch.PasswordHash != "hashed:newpass" {
		t.Fatalf("expected hashed password in patch, got %+v", repo.lastPatch)
	}
}

func TestUserService_SearchUserEntity(t *testing.T) {
	repo := newStubUserRepo()
	repo.byID["u1"] = &domain.User{ID: "u1", Username: "dave", PasswordHash: "hashed:pw"}
	svc, _ := newUserSvc(repo)

	u, err := svc.SearchUserEntity(context.Background(), domain.UserFilter{Username: "dave"})
	if err != nil || u.ID != "u1" {
		t.Fatalf("unexpected result: %+v, %v", u, err)
	}
	if _, err := svc.SearchUserEntity(context.Background(), domain.UserFilter{Username: "nobody"}); !errors.Is(err, domain.SignalUserNotFound) {
		t.Fatalf("expected SignalUserNotFound, got %v", err)
	}
	if _, err := svc.SearchUserEntity(context.Background(), domain.UserFilter{}); !errors.Is(err, domain.SignalUserSearchInvalidFilters) {
		t.Fatalf("expected SignalUserSearchInvalidFilters, got %v", err)
	}
}

func TestUserService_VerifyUserPassword(t *testing.T) {
	repo := newStubUserRepo()
	repo.byID["u1"] = &domain.User{ID: "u1", Username: "erin", PasswordHash: "hashed:right"}
	svc, _ := newUserSvc(repo)
	ctx := context.Background()

	cases := []struct {
		username, password string
		want               bool
	}{
		{"erin", "right", true},
		{"erin", "wrong", false},
		{"nobody", "right", false},
		{"", "right", false},
		{"erin", "", false},
	}
	for _, tc := range cases {
		got, err := svc.VerifyUserPassword(ctx, tc.username, tc.password)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tc.want {
			t.Errorf("VerifyUserPassword(%q, %q) = %v, want %v", tc.username, tc.password, got, tc.want)
		}
	}
}

func TestUserService_EnsureAdmin_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newUserSvc(repo)
	in := ports.RegisterUserInput{Username: "admin", Email: "admin@example.com", Password: "changeme"}

	for i := 0; i < 2; i++ {
		if err := svc.EnsureAdmin(context.Background(), in); err != nil {
			t.Fatalf("EnsureAdmin #%d: %v", i, err)
		}
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected exactly one admin, got %d users", len(repo.byID))
	}
	for _, u := range repo.byID {
		if u.Role != domain.RoleAdmin || !strings.HasPrefix(u.PasswordHash, "hashed:") {
			t.Fatalf("unexpected admin: %+v", u)
		}
	}
}

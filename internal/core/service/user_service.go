package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// UserService implements the user use-cases and the internal lookups used
// by the auth flow.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.Hasher
	events ports.EventPublisher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.Hasher, events ports.EventPublisher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, events: events, logger: logger}
}

// RegisterUser creates a USER account. Duplicate usernames or emails surface
// as domain.SignalUserAlreadyExists from the repository.
func (s *UserService) RegisterUser(ctx context.Context, input ports.RegisterUserInput) (*ports.UserResult, error) {
	created, err := s.register(ctx, input, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, domain.EventUserRegistered, created.ID, map[string]string{"id": created.ID}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", created.ID).Msg("failed to publish user registered event")
	}

	return toUserResult(created), nil
}

func (s *UserService) register(ctx context.Context, input ports.RegisterUserInput, role domain.Role) (*domain.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	now := time.Now().UTC()
	return s.repo.Register(ctx, &domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// SearchUsers returns the users matching filter. An empty filter is rejected
// before the repository is consulted.
func (s *UserService) SearchUsers(ctx context.Context, filter domain.UserFilter) ([]ports.UserResult, error) {
	if filter.Empty() {
		return nil, domain.SignalUserSearchInvalidFilters
	}

	users, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]ports.UserResult, len(users))
	for i, u := range users {
		out[i] = *toUserResult(u)
	}
	return out, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*ports.UserResult, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.SignalUserNotFound
	}
	return toUserResult(user), nil
}

// ModifyUserByID applies input to the user. An update that changes nothing
// is rejected.
func (s *UserService) ModifyUserByID(ctx context.Context, id string, input ports.ModifyUserInput) error {
	patch := domain.UserPatch{
		Username: input.Username,
		Email:    input.Email,
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return fmt.Errorf("modify user: %w", err)
		}
		patch.PasswordHash = &hash
	}
	if patch.Empty() {
		return domain.SignalUserUpdateRejected
	}

	return s.repo.ModifyByID(ctx, id, patch)
}

func (s *UserService) DeleteUserByID(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// SearchUserEntity returns the first user matching filter, including the
// password hash. It is not exposed to transports.
func (s *UserService) SearchUserEntity(ctx context.Context, filter domain.UserFilter) (*domain.User, error) {
	if filter.Empty() {
		return nil, domain.SignalUserSearchInvalidFilters
	}

	users, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.SignalUserNotFound
	}
	return users[0], nil
}

// VerifyUserPassword reports whether password matches the stored hash of
// username. Unknown users and empty credentials are not an error.
func (s *UserService) VerifyUserPassword(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	users, err := s.repo.Search(ctx, domain.UserFilter{Username: username})
	if err != nil {
		return false, err
	}
	if len(users) == 0 {
		return false, nil
	}
	return s.hasher.Compare(password, users[0].PasswordHash), nil
}

// EnsureAdmin creates an ADMIN account for username unless one with that
// username already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, input ports.RegisterUserInput) error {
	users, err := s.repo.Search(ctx, domain.UserFilter{Username: input.Username})
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	created, err := s.register(ctx, input, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("admin user created")
	return nil
}

func toUserResult(u *domain.User) *ports.UserResult {
	return &ports.UserResult{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

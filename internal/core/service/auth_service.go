package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// AuthService implements login.
type AuthService struct {
	users  ports.UserLookup
	tokens ports.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(users ports.UserLookup, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Login verifies the credentials and returns a signed token carrying the
// user's id, name, email and role.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.users.VerifyUserPassword(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.SignalAuthUnauthorized
	}

	user, err := s.users.SearchUserEntity(ctx, domain.UserFilter{Username: username})
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(ctx, domain.Identity{
		ID:    user.ID,
		Name:  user.Username,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("user_id", user.ID).Msg("token issued")
	return token, nil
}

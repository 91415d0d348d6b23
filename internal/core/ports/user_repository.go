package ports

import (
	"context"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Search returns the users matching filter, or an empty slice.
	Search(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error)
	// Register stores a new user. Uniqueness violations yield
	// domain.SignalUserAlreadyExists.
	Register(ctx context.Context, user *domain.User) (*domain.User, error)
	// GetByID returns nil, nil when no user has id.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// ModifyByID applies patch. A missing row yields domain.SignalUserNotFound,
	// a rejected change domain.SignalUserUpdateRejected.
	ModifyByID(ctx context.Context, id string, patch domain.UserPatch) error
	DeleteByID(ctx context.Context, id string) error
}

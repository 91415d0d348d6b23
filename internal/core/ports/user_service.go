package ports

import (
	"context"
	"time"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

// RegisterUserInput carries the data for a new account.
type RegisterUserInput struct {
	Username string
	Email    string
	Password string
}

// ModifyUserInput carries a user update. Nil fields are left untouched.
type ModifyUserInput struct {
	Username *string
	Email    *string
	Password *string
}

// UserResult is the public view of a user.
type UserResult struct {
	ID        string
	Username  string
	Email     string
	Role      domain.Role
	CreatedAt time.Time
}

// UserService defines the user use-cases exposed to transports.
type UserService interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*UserResult, error)
	SearchUsers(ctx context.Context, filter domain.UserFilter) ([]UserResult, error)
	GetUserByID(ctx context.Context, id string) (*UserResult, error)
	ModifyUserByID(ctx context.Context, id string, input ModifyUserInput) error
	DeleteUserByID(ctx context.Context, id string) error
}

// UserLookup is used internally by the auth flow and is not exposed to
// transports.
type UserLookup interface {
	SearchUserEntity(ctx context.Context, filter domain.UserFilter) (*domain.User, error)
	VerifyUserPassword(ctx context.Context, username, password string) (bool, error)
}

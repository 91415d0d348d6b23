package ports

import "context"

// AuthService exchanges credentials for a signed token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

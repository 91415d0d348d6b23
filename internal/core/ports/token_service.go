package ports

import (
	"context"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

// TokenVerifier validates a bearer token and returns the identity it carries.
// Malformed, expired and badly signed tokens all fail.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

// TokenIssuer signs a token for identity.
type TokenIssuer interface {
	Issue(ctx context.Context, identity domain.Identity) (string, error)
}

// TokenService issues and verifies tokens.
type TokenService interface {
	TokenVerifier
	TokenIssuer
}

// Hasher hashes and compares passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
}

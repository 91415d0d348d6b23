package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esteveslima/media-collection/internal/core/domain"
)

// MsgForbidden is returned when the caller's role is not allowed.
const MsgForbidden = "Forbidden resource"

// Policy is the access requirement of a single route.
type Policy struct {
	// Auth requires a verified token. When false the route is public and
	// Roles is ignored.
	Auth bool
	// Roles lists the accepted roles. Empty means any authenticated caller.
	Roles []domain.Role
}

// Policies indexes route policies by method and registered route path
// (e.g. "GET /api/rest/media/:uuid").
type Policies map[string]Policy

// Set registers p for method and path.
func (p Policies) Set(method, path string, policy Policy) {
	p[method+" "+path] = policy
}

// Lookup returns the policy registered for method and path.
func (p Policies) Lookup(method, path string) (Policy, bool) {
	policy, ok := p[method+" "+path]
	return policy, ok
}

// authorize allows any identity when roles is empty, otherwise only
// identities holding one of roles.
func authorize(identity domain.Identity, roles []domain.Role) error {
	if len(roles) == 0 || identity.HasRole(roles...) {
		return nil
	}
	return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
}

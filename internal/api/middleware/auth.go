package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/api/metrics"
	"github.com/esteveslima/media-collection/internal/api/reqctx"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// Gate rejection messages, part of the public contract.
const (
	MsgHeaderNotFound = "Auth header not found"
	MsgTokenNotFound  = "Auth header token not found"
	MsgTokenInvalid   = "Auth token invalid"
)

// Gate authenticates and authorizes requests according to the policy
// registered for their route. Routes without a policy, or with Auth unset,
// pass straight through.
//
// On a protected route it extracts the bearer token, verifies it, attaches
// the resulting identity to the request state and checks the route's roles.
// Verification failures are logged at warn; the caller only ever sees
// MsgTokenInvalid.
func Gate(verifier ports.TokenVerifier, policies Policies, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			policy, ok := policies.Lookup(c.Request().Method, c.Path())
			if !ok || !policy.Auth {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, MsgHeaderNotFound)
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenNotFound)
			}

			identity, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				log.Warn().Err(err).
					Str("method", c.Request().Method).
					Str("path", c.Path()).
					Msg("token verification failed")
				return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenInvalid)
			}

			if err := reqctx.From(c).AttachIdentity(identity); err != nil {
				return err
			}

			if err := authorize(identity, policy.Roles); err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return err
			}

			return next(c)
		}
	}
}

// bearerToken returns the token of a "Bearer <token>" header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/api/handler"
	"github.com/esteveslima/media-collection/internal/api/middleware"
	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// searchOnlyUsers serves SearchUsers and panics on anything else.
type searchOnlyUsers struct {
	ports.UserService
	searchFn func(ctx context.Context, f domain.UserFilter) ([]ports.UserResult, error)
}

func (s searchOnlyUsers) SearchUsers(ctx context.Context, f domain.UserFilter) ([]ports.UserResult, error) {
	return s.searchFn(ctx, f)
}

func newTestRouter(t *testing.T, logBuf *bytes.Buffer) *echo.Echo {
	t.Helper()
	return newTestRouterWithUsers(t, logBuf, nil)
}

func newTestRouterWithUsers(t *testing.T, logBuf *bytes.Buffer, users ports.UserService) *echo.Echo {
	t.Helper()
	gql, err := handler.NewGraphQLHandler(nil, nil)
	if err != nil {
		t.Fatalf("graphql handler: %v", err)
	}
	return NewRouter(Deps{
		Log:      zerolog.New(logBuf),
		Verifier: expiredVerifier{},
		Handlers: Handlers{
			Auth:    handler.NewAuthHandler(nil),
			User:    handler.NewUserHandler(users),
			Media:   handler.NewMediaHandler(nil),
			GraphQL: gql,
			Health:  handler.NewHealthHandler(),
			Ready:   handler.NewHealthDependenciesHandler(),
		},
		CORSAllowedDomain: "example.com",
	})
}

func TestRoutes_AdminOnlyUserByID(t *testing.T) {
	for _, r := range Routes(Handlers{}) {
		if !strings.HasPrefix(r.Path, "/api/rest/user/:uuid") {
			continue
		}
		if !r.Auth || len(r.Roles) != 1 || r.Roles[0] != domain.RoleAdmin {
			t.Fatalf("%s %s must be ADMIN only, got %+v", r.Method, r.Path, r)
		}
	}
}

func TestRoutes_MemberRoutesAllowUserAndAdmin(t *testing.T) {
	member := map[string]bool{
		"GET /api/rest/user/current":   true,
		"PUT /api/rest/user/current":   true,
		"PATCH /api/rest/user/current": true,
		"POST /api/rest/media":         true,
		"PUT /api/rest/media/:uuid":    true,
		"PATCH /api/rest/media/:uuid":  true,
		"DELETE /api/rest/media/:uuid": true,
	}
	seen := 0
	for _, r := range Routes(Handlers{}) {
		if !member[r.Method+" "+r.Path] {
			continue
		}
		seen++
		if !r.Auth || len(r.Roles) != 2 || r.Roles[0] != domain.RoleUser || r.Roles[1] != domain.RoleAdmin {
			t.Fatalf("%s %s must allow USER and ADMIN, got %+v", r.Method, r.Path, r)
		}
	}
	if seen != len(member) {
		t.Fatalf("expected %d member routes, found %d", len(member), seen)
	}
}

func TestRoutes_PublicRoutes(t *testing.T) {
	public := map[string]bool{
		"POST /api/rest/auth/login": true,
		"POST /api/rest/user":       true,
		"GET /api/rest/user":        true,
		"GET /api/rest/media":       true,
		"GET /api/rest/media/:uuid": true,
		"POST /api/graphql":         true,
		"GET /health":               true,
		"GET /health/ready":         true,
	}
	for _, r := range Routes(Handlers{}) {
		key := r.Method + " " + r.Path
		if public[key] == r.Auth {
			t.Fatalf("unexpected auth requirement for %s: %v", key, r.Auth)
		}
	}
}

func TestRouter_ProtectedRouteWithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	e := newTestRouter(t, &buf)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rest/user/current", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), middleware.MsgHeaderNotFound) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if !strings.Contains(buf.String(), `"statusCode":401`) {
		t.Fatalf("expected the rejection to be logged, got %s", buf.String())
	}
}

func TestRouter_AnonymousUserSearch(t *testing.T) {
	var got domain.UserFilter
	users := searchOnlyUsers{
		searchFn: func(_ context.Context, f domain.UserFilter) ([]ports.UserResult, error) {
			got = f
			return []ports.UserResult{{ID: "u1", Username: "alice"}}, nil
		},
	}
	e := newTestRouterWithUsers(t, &bytes.Buffer{}, users)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rest/user?username=alice", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Username != "alice" {
		t.Fatalf("expected the username filter to reach the service, got %+v", got)
	}
	if !strings.Contains(rec.Body.String(), `"alice"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter(t, &bytes.Buffer{})

	for _, path := range []string{"/health", "/health/ready"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if rec.Header().Get(echo.HeaderXRequestID) == "" {
			t.Fatalf("%s: expected a request id", path)
		}
	}
}

func TestRouter_UnknownRouteIsNormalized(t *testing.T) {
	e := newTestRouter(t, &bytes.Buffer{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"statusCode":404`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_CORS(t *testing.T) {
	e := newTestRouter(t, &bytes.Buffer{})

	tests := []struct {
		origin string
		allow  bool
	}{
		{origin: "https://app.example.com", allow: true},
		{origin: "http://example.com:3000", allow: true},
		{origin: "https://evil-example.com", allow: false},
		{origin: "https://example.com.evil.io", allow: false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/rest/media", nil)
			req.Header.Set(echo.HeaderOrigin, tt.origin)
			req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin)
			if tt.allow && got != tt.origin {
				t.Fatalf("expected origin to be allowed, got %q", got)
			}
			if !tt.allow && got != "" {
				t.Fatalf("expected origin to be rejected, got %q", got)
			}
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	e := newTestRouter(t, &bytes.Buffer{})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "media_http_requests_total") {
		t.Fatalf("expected http metrics in the exposition")
	}
}

func TestOriginAllowed(t *testing.T) {
	if originAllowed("not a url", "example.com") {
		t.Fatal("garbage origin must be rejected")
	}
	if originAllowed("https://app.example.com", "") {
		t.Fatal("empty domain allows nothing")
	}
	if !originAllowed("https://APP.Example.com", "example.com") {
		t.Fatal("host comparison is case-insensitive")
	}
}

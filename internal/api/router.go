package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/esteveslima/media-collection/internal/api/handler"
	"github.com/esteveslima/media-collection/internal/api/middleware"
	"github.com/esteveslima/media-collection/internal/api/reqctx"
	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

const (
	graphqlPath = "/api/graphql"
	bodyLimit   = "10M"
)

// Route is one entry of the routing table. Auth and Roles become the route's
// access policy in the auth gate.
type Route struct {
	Method  string
	Path    string
	Handler echo.HandlerFunc
	Auth    bool
	Roles   []domain.Role
}

// Handlers groups the transport handlers mounted by NewRouter.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Media   *handler.MediaHandler
	GraphQL *handler.GraphQLHandler
	Health  *handler.HealthHandler
	Ready   *handler.HealthDependenciesHandler
}

// Deps carries everything NewRouter needs.
type Deps struct {
	Log      zerolog.Logger
	Verifier ports.TokenVerifier
	Handlers Handlers
	// CORSAllowedDomain and its subdomains may make credentialed requests.
	CORSAllowedDomain string
	// Registry receives the HTTP metrics. A fresh one is used when nil.
	Registry *prometheus.Registry
}

// Routes returns the routing table.
func Routes(h Handlers) []Route {
	admin := []domain.Role{domain.RoleAdmin}
	member := []domain.Role{domain.RoleUser, domain.RoleAdmin}
	return []Route{
		{Method: http.MethodPost, Path: "/api/rest/auth/login", Handler: h.Auth.Login},

		{Method: http.MethodPost, Path: "/api/rest/user", Handler: h.User.Register},
		{Method: http.MethodGet, Path: "/api/rest/user", Handler: h.User.Search},
		{Method: http.MethodGet, Path: "/api/rest/user/current", Handler: h.User.GetCurrent, Auth: true, Roles: member},
		{Method: http.MethodPut, Path: "/api/rest/user/current", Handler: h.User.ReplaceCurrent, Auth: true, Roles: member},
		{Method: http.MethodPatch, Path: "/api/rest/user/current", Handler: h.User.PatchCurrent, Auth: true, Roles: member},
		{Method: http.MethodGet, Path: "/api/rest/user/:uuid", Handler: h.User.GetByID, Auth: true, Roles: admin},
		{Method: http.MethodPut, Path: "/api/rest/user/:uuid", Handler: h.User.ReplaceByID, Auth: true, Roles: admin},
		{Method: http.MethodPatch, Path: "/api/rest/user/:uuid", Handler: h.User.PatchByID, Auth: true, Roles: admin},
		{Method: http.MethodDelete, Path: "/api/rest/user/:uuid", Handler: h.User.DeleteByID, Auth: true, Roles: admin},

		{Method: http.MethodPost, Path: "/api/rest/media", Handler: h.Media.Register, Auth: true, Roles: member},
		{Method: http.MethodGet, Path: "/api/rest/media", Handler: h.Media.Search},
		{Method: http.MethodGet, Path: "/api/rest/media/:uuid", Handler: h.Media.Get},
		{Method: http.MethodPut, Path: "/api/rest/media/:uuid", Handler: h.Media.Replace, Auth: true, Roles: member},
		{Method: http.MethodPatch, Path: "/api/rest/media/:uuid", Handler: h.Media.Patch, Auth: true, Roles: member},
		{Method: http.MethodDelete, Path: "/api/rest/media/:uuid", Handler: h.Media.Delete, Auth: true, Roles: member},

		{Method: http.MethodPost, Path: graphqlPath, Handler: h.GraphQL.Serve},

		{Method: http.MethodGet, Path: "/health", Handler: h.Health.Liveness},
		{Method: http.MethodGet, Path: "/health/ready", Handler: h.Ready.Readiness},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	normalizer := NewNormalizer(deps.Log)
	normalizer.SetChannel(graphqlPath, reqctx.ChannelGraphQL)
	e.HTTPErrorHandler = normalizer.HandleError

	routes := Routes(deps.Handlers)
	policies := make(middleware.Policies, len(routes))
	for _, r := range routes {
		policies.Set(r.Method, r.Path, middleware.Policy{Auth: r.Auth, Roles: r.Roles})
	}

	// --- Global middleware ---
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(corsConfig(deps.CORSAllowedDomain)))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "media",
		Subsystem:  "http",
		Registerer: registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(normalizer.Track())
	e.Use(middleware.Gate(deps.Verifier, policies, deps.Log))

	for _, r := range routes {
		e.Add(r.Method, r.Path, r.Handler)
	}

	// process-wide collectors live in the default registry
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, registry},
	}))

	return e
}

func corsConfig(domain string) echomiddleware.CORSConfig {
	return echomiddleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			return originAllowed(origin, domain), nil
		},
		AllowMethods: []string{
			http.MethodHead, http.MethodOptions, http.MethodGet, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}
}

// originAllowed accepts domain itself and any of its subdomains, on any
// scheme or port.
func originAllowed(origin, domain string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" || domain == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

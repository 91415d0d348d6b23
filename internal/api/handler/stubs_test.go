package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/esteveslima/media-collection/internal/api/reqctx"
	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

type stubUserService struct {
	registerFn func(ctx context.Context, in ports.RegisterUserInput) (*ports.UserResult, error)
	searchFn   func(ctx context.Context, f domain.UserFilter) ([]ports.UserResult, error)
	getFn      func(ctx context.Context, id string) (*ports.UserResult, error)
	modifyFn   func(ctx context.Context, id string, in ports.ModifyUserInput) error
	deleteFn   func(ctx context.Context, id string) error
}

func (s *stubUserService) RegisterUser(ctx context.Context, in ports.RegisterUserInput) (*ports.UserResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) SearchUsers(ctx context.Context, f domain.UserFilter) ([]ports.UserResult, error) {
	return s.searchFn(ctx, f)
}

func (s *stubUserService) GetUserByID(ctx context.Context, id string) (*ports.UserResult, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) ModifyUserByID(ctx context.Context, id string, in ports.ModifyUserInput) error {
	return s.modifyFn(ctx, id, in)
}

func (s *stubUserService) DeleteUserByID(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubMediaService struct {
	registerFn func(ctx context.Context, in ports.RegisterMediaInput, owner domain.Identity) (*ports.RegisterMediaResult, error)
	getFn      func(ctx context.Context, id string) (*ports.MediaDetail, error)
	searchFn   func(ctx context.Context, f domain.MediaFilter) ([]ports.MediaSummary, error)
	modifyFn   func(ctx context.Context, id string, actor domain.Identity, in ports.ModifyMediaInput) error
	deleteFn   func(ctx context.Context, id string, actor domain.Identity) error
}

func (s *stubMediaService) RegisterMedia(ctx context.Context, in ports.RegisterMediaInput, owner domain.Identity) (*ports.RegisterMediaResult, error) {
	return s.registerFn(ctx, in, owner)
}

func (s *stubMediaService) GetMediaByID(ctx context.Context, id string) (*ports.MediaDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubMediaService) SearchMedia(ctx context.Context, f domain.MediaFilter) ([]ports.MediaSummary, error) {
	return s.searchFn(ctx, f)
}

func (s *stubMediaService) ModifyMediaByID(ctx context.Context, id string, actor domain.Identity, in ports.ModifyMediaInput) error {
	return s.modifyFn(ctx, id, actor, in)
}

func (s *stubMediaService) DeleteMediaByID(ctx context.Context, id string, actor domain.Identity) error {
	return s.deleteFn(ctx, id, actor)
}

const (
	aliceID = "6f1c1b8e-3f5a-4c1e-9a57-2f7e0d1d2a10"
	mediaID = "0b5e7c4a-8d2f-4e61-b1c3-9f2a6d7e8c01"
)

var alice = domain.Identity{ID: aliceID, Name: "alice", Email: "alice@example.com", Role: domain.RoleUser}

// newContext builds an echo.Context with the validator installed. A non-nil
// body is sent as JSON.
func newContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withIdentity(t *testing.T, c echo.Context, id domain.Identity) {
	t.Helper()
	if err := reqctx.From(c).AttachIdentity(id); err != nil {
		t.Fatalf("attach identity: %v", err)
	}
}

func withParam(c echo.Context, name, value string) {
	c.SetParamNames(name)
	c.SetParamValues(value)
}

func assertHTTPError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d", code, he.Code)
	}
	if msg != "" && he.Message != msg {
		t.Fatalf("expected message %q, got %v", msg, he.Message)
	}
}

func assertValidationError(t *testing.T, err error) validationErrorBody {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", he.Code)
	}
	body, ok := he.Message.(validationErrorBody)
	if !ok {
		t.Fatalf("expected validationErrorBody, got %T", he.Message)
	}
	return body
}

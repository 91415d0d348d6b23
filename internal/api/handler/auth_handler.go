package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esteveslima/media-collection/internal/api/errmap"
	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

var errInvalidCredentials = errmap.New(http.StatusUnauthorized, "Invalid credentials")

// a user deleted between password check and lookup is still a failed login
var loginErrors = errmap.Table{
	domain.SignalAuthUnauthorized: errInvalidCredentials,
	domain.SignalUserNotFound:     errInvalidCredentials,
}

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  validationErrorBody
// @Failure      401   {object}  api.ErrorBody
// @Router       /api/rest/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return errmap.Map(err, loginErrors)
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

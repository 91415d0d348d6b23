package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/esteveslima/media-collection/internal/api/reqctx"
	"github.com/esteveslima/media-collection/internal/core/domain"
)

// callerIdentity returns the identity attached by the auth gate. Its absence
// on a protected route means the route table and the handler disagree.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := reqctx.Identity(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// uuidParam returns the named path parameter after checking it is a UUID.
func uuidParam(c echo.Context, name string) (string, error) {
	return parseUUID(c.Param(name))
}

func parseUUID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Validation failed (uuid is expected)")
	}
	return id.String(), nil
}

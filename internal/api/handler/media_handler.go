package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esteveslima/media-collection/internal/api/errmap"
	"github.com/esteveslima/media-collection/internal/api/metrics"
	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

var (
	errMediaAlreadyExists  = errmap.New(http.StatusConflict, "Media already exists")
	errMediaNotFound       = errmap.New(http.StatusNotFound, "Media not found")
	errMediaUpdateRejected = errmap.New(http.StatusBadRequest, "Update data not accepted")
	errMediaInvalidFilters = errmap.New(http.StatusBadRequest, "Invalid search filters")
)

var (
	registerMediaErrors = errmap.Table{
		domain.SignalMediaAlreadyExists: errMediaAlreadyExists,
	}
	searchMediaErrors = errmap.Table{
		domain.SignalMediaSearchInvalidFilters: errMediaInvalidFilters,
	}
	mediaByIDErrors = errmap.Table{
		domain.SignalMediaNotFound:       errMediaNotFound,
		domain.SignalMediaUpdateRejected: errMediaUpdateRejected,
		domain.SignalMediaAlreadyExists:  errMediaAlreadyExists,
	}
)

type MediaHandler struct {
	service ports.MediaService
}

func NewMediaHandler(service ports.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// Register stores a media record owned by the caller.
//
// @Summary      Register media
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerMediaRequest  true  "Media details"
// @Success      201   {object}  registerMediaResponse
// @Failure      400   {object}  validationErrorBody
// @Failure      401   {object}  api.ErrorBody
// @Failure      409   {object}  api.ErrorBody
// @Router       /api/rest/media [post]
func (h *MediaHandler) Register(c echo.Context) error {
	owner, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req registerMediaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.RegisterMedia(c.Request().Context(), toRegisterMediaInput(req), owner)
	if err != nil {
		return errmap.Map(err, registerMediaErrors)
	}

	metrics.MediaRegisteredTotal.WithLabelValues(string(res.Type)).Inc()
	return c.JSON(http.StatusCreated, toRegisterMediaResponse(res))
}

// Search lists media matching the query filters.
//
// @Summary      Search media
// @Tags         media
// @Produce      json
// @Param        title            query     string   false  "Exact title"
// @Param        type             query     string   false  "VIDEO, AUDIO or IMAGE"
// @Param        description      query     string   false  "Substring of the description"
// @Param        durationSeconds  query     int      false  "Exact duration"
// @Param        views            query     int      false  "Exact view count"
// @Param        available        query     bool     false  "Availability"
// @Param        createdAt        query     string   false  "Creation day (ISO 8601)"
// @Param        username         query     string   false  "Owner username"
// @Param        take             query     int      false  "Page size (max 100)"
// @Param        skip             query     int      false  "Offset"
// @Success      200              {array}   mediaSummaryResponse
// @Failure      400              {object}  api.ErrorBody
// @Router       /api/rest/media [get]
func (h *MediaHandler) Search(c echo.Context) error {
	filter, invalid := toMediaFilter(c.QueryParams())
	if len(invalid) > 0 {
		return badRequest(invalid...)
	}

	res, err := h.service.SearchMedia(c.Request().Context(), filter)
	if err != nil {
		return errmap.Map(err, searchMediaErrors)
	}
	return c.JSON(http.StatusOK, toMediaSummaryResponses(res))
}

// Get returns a media record and counts the view.
//
// @Summary      Get media
// @Tags         media
// @Produce      json
// @Param        uuid  path      string  true  "Media id"
// @Success      200   {object}  mediaResponse
// @Failure      400   {object}  api.ErrorBody
// @Failure      404   {object}  api.ErrorBody
// @Router       /api/rest/media/{uuid} [get]
func (h *MediaHandler) Get(c echo.Context) error {
	id, err := uuidParam(c, "uuid")
	if err != nil {
		return err
	}

	res, err := h.service.GetMediaByID(c.Request().Context(), id)
	if err != nil {
		return errmap.Map(err, mediaByIDErrors)
	}
	return c.JSON(http.StatusOK, toMediaResponse(res))
}

// Replace overwrites a media record owned by the caller.
//
// @Summary      Replace media
// @Tags         media
// @Accept       json
// @Security     BearerAuth
// @Param        uuid  path  string               true  "Media id"
// @Param        body  body  replaceMediaRequest  true  "Media details"
// @Success      204
// @Failure      400  {object}  api.ErrorBody
// @Failure      404  {object}  api.ErrorBody
// @Router       /api/rest/media/{uuid} [put]
func (h *MediaHandler) Replace(c echo.Context) error {
	actor, id, err := h.target(c)
	if err != nil {
		return err
	}

	var req replaceMediaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.ModifyMediaByID(c.Request().Context(), id, actor, replaceToModifyMediaInput(req)); err != nil {
		return errmap.Map(err, mediaByIDErrors)
	}
	return c.NoContent(http.StatusNoContent)
}

// Patch updates the given fields of a media record owned by the caller.
//
// @Summary      Update media
// @Tags         media
// @Accept       json
// @Security     BearerAuth
// @Param        uuid  path  string             true  "Media id"
// @Param        body  body  patchMediaRequest  true  "Fields to change"
// @Success      204
// @Failure      400  {object}  api.ErrorBody
// @Failure      404  {object}  api.ErrorBody
// @Router       /api/rest/media/{uuid} [patch]
func (h *MediaHandler) Patch(c echo.Context) error {
	actor, id, err := h.target(c)
	if err != nil {
		return err
	}

	var req patchMediaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.ModifyMediaByID(c.Request().Context(), id, actor, patchToModifyMediaInput(req)); err != nil {
		return errmap.Map(err, mediaByIDErrors)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a media record owned by the caller.
//
// @Summary      Delete media
// @Tags         media
// @Security     BearerAuth
// @Param        uuid  path  string  true  "Media id"
// @Success      204
// @Failure      404  {object}  api.ErrorBody
// @Router       /api/rest/media/{uuid} [delete]
func (h *MediaHandler) Delete(c echo.Context) error {
	actor, id, err := h.target(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteMediaByID(c.Request().Context(), id, actor); err != nil {
		return errmap.Map(err, mediaByIDErrors)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MediaHandler) target(c echo.Context) (domain.Identity, string, error) {
	actor, err := callerIdentity(c)
	if err != nil {
		return domain.Identity{}, "", err
	}
	id, err := uuidParam(c, "uuid")
	if err != nil {
		return domain.Identity{}, "", err
	}
	return actor, id, nil
}

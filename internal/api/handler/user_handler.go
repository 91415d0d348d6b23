package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esteveslima/media-collection/internal/api/errmap"
	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

var (
	errUserAlreadyExists   = errmap.New(http.StatusConflict, "User already exists")
	errUserNotFound        = errmap.New(http.StatusNotFound, "User not found")
	errUserUpdateRejected  = errmap.New(http.StatusBadRequest, "Update data not accepted")
	errUserInvalidFilters  = errmap.New(http.StatusBadRequest, "Invalid search filters")
	errCurrentUserNotFound = errmap.New(http.StatusInternalServerError, "An error ocurred on getting the current user data")
)

var (
	registerUserErrors = errmap.Table{
		domain.SignalUserAlreadyExists: errUserAlreadyExists,
	}
	searchUserErrors = errmap.Table{
		domain.SignalUserSearchInvalidFilters: errUserInvalidFilters,
	}
	// the caller's own account vanishing mid-session is a server fault
	currentUserErrors = errmap.Table{
		domain.SignalUserNotFound:       errCurrentUserNotFound,
		domain.SignalUserUpdateRejected: errUserUpdateRejected,
		domain.SignalUserAlreadyExists:  errUserAlreadyExists,
	}
	userByIDErrors = errmap.Table{
		domain.SignalUserNotFound:       errUserNotFound,
		domain.SignalUserUpdateRejected: errUserUpdateRejected,
		domain.SignalUserAlreadyExists:  errUserAlreadyExists,
	}
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a USER account.
//
// @Summary      Register a new user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      registerUserRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  validationErrorBody
// @Failure      409   {object}  api.ErrorBody
// @Router       /api/rest/user [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.RegisterUser(c.Request().Context(), toRegisterUserInput(req))
	if err != nil {
		return errmap.Map(err, registerUserErrors)
	}
	return c.JSON(http.StatusCreated, toUserResponse(res))
}

// Search lists users by exact username and/or email.
//
// @Summary      Search users
// @Tags         user
// @Produce      json
// @Param        username  query     string  false  "Username"
// @Param        email     query     string  false  "Email"
// @Success      200       {array}   userResponse
// @Failure      400       {object}  api.ErrorBody
// @Router       /api/rest/user [get]
func (h *UserHandler) Search(c echo.Context) error {
	var q searchUsersQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return badRequest("invalid query parameters")
	}

	res, err := h.service.SearchUsers(c.Request().Context(), domain.UserFilter{Username: q.Username, Email: q.Email})
	if err != nil {
		return errmap.Map(err, searchUserErrors)
	}
	return c.JSON(http.StatusOK, toUserResponses(res))
}

// GetCurrent returns the caller's account.
//
// @Summary      Current user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  api.ErrorBody
// @Failure      500  {object}  api.ErrorBody
// @Router       /api/rest/user/current [get]
func (h *UserHandler) GetCurrent(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return h.get(c, id.ID, currentUserErrors)
}

// ReplaceCurrent overwrites every mutable field of the caller's account.
//
// @Summary      Replace current user
// @Tags         user
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  replaceUserRequest  true  "Account details"
// @Success      204
// @Failure      400  {object}  api.ErrorBody
// @Failure      409  {object}  api.ErrorBody
// @Router       /api/rest/user/current [put]
func (h *UserHandler) ReplaceCurrent(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return h.replace(c, id.ID, currentUserErrors)
}

// PatchCurrent updates the given fields of the caller's account.
//
// @Summary      Update current user
// @Tags         user
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  patchUserRequest  true  "Fields to change"
// @Success      204
// @Failure      400  {object}  api.ErrorBody
// @Failure      409  {object}  api.ErrorBody
// @Router       /api/rest/user/current [patch]
func (h *UserHandler) PatchCurrent(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return h.patch(c, id.ID, currentUserErrors)
}

// GetByID returns any account. ADMIN only.
//
// @Summary      Get user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string  true  "User id"
// @Success      200   {object}  userResponse
// @Failure      403   {object}  api.ErrorBody
// @Failure      404   {object}  api.ErrorBody
// @Router       /api/rest/user/{uuid} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := uuidParam(c, "uuid")
	if err != nil {
		return err
	}
	return h.get(c, id, userByIDErrors)
}

// ReplaceByID overwrites any account. ADMIN only.
//
// @Summary      Replace user
// @Tags         user
// @Accept       json
// @Security     BearerAuth
// @Param        uuid  path  string              true  "User id"
// @Param        body  body  replaceUserRequest  true  "Account details"
// @Success      204
// @Failure      404  {object}  api.ErrorBody
// @Router       /api/rest/user/{uuid} [put]
func (h *UserHandler) ReplaceByID(c echo.Context) error {
	id, err := uuidParam(c, "uuid")
	if err != nil {
		return err
	}
	return h.replace(c, id, userByIDErrors)
}

// PatchByID updates any account. ADMIN only.
//
// @Summary      Update user
// @Tags         user
// @Accept       json
// @Security     BearerAuth
// @Param        uuid  path  string            true  "User id"
// @Param        body  body  patchUserRequest  true  "Fields to change"
// @Success      204
// @Failure      404  {object}  api.ErrorBody
// @Router       /api/rest/user/{uuid} [patch]
func (h *UserHandler) PatchByID(c echo.Context) error {
	id, err := uuidParam(c, "uuid")
	if err != nil {
		return err
	}
	return h.patch(c, id, userByIDErrors)
}

// DeleteByID removes any account. ADMIN only.
//
// @Summary      Delete user
// @Tags         user
// @Security     BearerAuth
// @Param        uuid  path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  api.ErrorBody
// @Router       /api/rest/user/{uuid} [delete]
func (h *UserHandler) DeleteByID(c echo.Context) error {
	id, err := uuidParam(c, "uuid")
	if err != nil {
		return err
	}
	if err := h.service.DeleteUserByID(c.Request().Context(), id); err != nil {
		return errmap.Map(err, userByIDErrors)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) get(c echo.Context, id string, table errmap.Table) error {
	res, err := h.service.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return errmap.Map(err, table)
	}
	return c.JSON(http.StatusOK, toUserResponse(res))
}

func (h *UserHandler) replace(c echo.Context, id string, table errmap.Table) error {
	var req replaceUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.ModifyUserByID(c.Request().Context(), id, replaceToModifyUserInput(req)); err != nil {
		return errmap.Map(err, table)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) patch(c echo.Context, id string, table errmap.Table) error {
	var req patchUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.ModifyUserByID(c.Request().Context(), id, patchToModifyUserInput(req)); err != nil {
		return errmap.Map(err, table)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crazyimage/task-system/internal/core/ports"
	"github.com/crazyimage/task-system/internal/pkg/metrics"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /api/user/create.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        body  body      userRequest  true  "User"
// @Success      200   {string}  string  "Usuario Agregado"
// @Failure      400   {string}  string  "Error en el body de la request"
// @Router       /api/user/create [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.Register(c.Request().Context(), toUserInput(req)); err != nil {
		if isRejected(err) {
			return c.String(http.StatusBadRequest, msgBadBody)
		}
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.String(http.StatusOK, msgUserAdded)
}

// Get handles GET /api/user/{id}.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      400  {string}  string  "No se consiguio el usuario"
// @Router       /api/user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		if isRejected(err) {
			return c.String(http.StatusBadRequest, msgUserNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*user))
}

// List handles GET /api/user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  userResponse
// @Router       /api/user [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PUT /api/user/{id}. Email, username and password are
// replaced together.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        id    path      int          true  "User id"
// @Param        body  body      userRequest  true  "User"
// @Success      200   {string}  string  "Usuario Actualizado"
// @Failure      400   {string}  string  "Error en el body de la request"
// @Router       /api/user/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.UpdateUser(c.Request().Context(), id, toUserInput(req)); err != nil {
		if isRejected(err) {
			return c.String(http.StatusBadRequest, msgBadBody)
		}
		return err
	}
	return c.String(http.StatusOK, msgUserUpdated)
}

// Delete handles DELETE /api/user/{id}. Deleting an unknown id succeeds.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      plain
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {string}  string  "Usuario Eliminado"
// @Failure      400  {string}  string  "Error en el body de la request"
// @Router       /api/user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteUser(c.Request().Context(), id); err != nil {
		if isRejected(err) {
			return c.String(http.StatusBadRequest, msgBadBody)
		}
		return err
	}
	return c.String(http.StatusOK, msgUserDeleted)
}

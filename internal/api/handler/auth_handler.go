package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crazyimage/task-system/internal/core/domain"
	"github.com/crazyimage/task-system/internal/core/ports"
	"github.com/crazyimage/task-system/internal/pkg/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      plain
// @Param        body  body      userRequest  true  "User registration details"
// @Success      200   {string}  string       "Usuario Agregado"
// @Failure      400   {string}  string       "Error en el body de la request"
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.Register(c.Request().Context(), toUserInput(req)); err != nil {
		if isRejected(err) {
			return c.String(http.StatusBadRequest, msgBadBody)
		}
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.String(http.StatusOK, msgUserAdded)
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {string}  string  "Credenciales inválidas al momento de loguearte"
// @Failure      500   {string}  string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
			return c.String(http.StatusUnauthorized, msgInvalidCredentials)
		}
		// Login is the one endpoint that reports the failure text verbatim.
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return c.String(http.StatusInternalServerError, err.Error())
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toJWTResponse(res))
}

// Logout revokes the bearer token used for this request.
//
// @Summary      Logout
// @Tags         auth
// @Produce      plain
// @Security     BearerAuth
// @Success      200  {string}  string  "logged out"
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	tokenID, expiresAt, err := ctxToken(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), tokenID, expiresAt); err != nil {
		return err
	}
	return c.String(http.StatusOK, "logged out")
}

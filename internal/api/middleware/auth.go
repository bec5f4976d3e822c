package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crazyimage/task-system/internal/api/handler"
	"github.com/crazyimage/task-system/internal/core/ports"
	"github.com/crazyimage/task-system/internal/infrastructure/security"
)

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	Parse(raw string) (*security.Claims, error)
}

// Auth validates the JWT, rejects revoked tokens and injects the claims into
// the echo context under the handler.Ctx* keys.
func Auth(parser TokenParser, revocations ports.TokenRevoker, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := parser.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			revoked, err := revocations.IsRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				log.Error().Err(err).Str("token_id", claims.ID).Msg("revocation lookup failed")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "unable to verify token")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}

			c.Set(handler.CtxUserID, claims.UserID)
			c.Set(handler.CtxEmail, claims.Email)
			c.Set(handler.CtxTokenID, claims.ID)
			if claims.ExpiresAt != nil {
				c.Set(handler.CtxTokenExp, claims.ExpiresAt.Time)
			}

			return next(c)
		}
	}
}

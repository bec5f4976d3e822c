package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Context keys written by middleware.Auth.
const (
	CtxUserID   = "user_id"
	CtxEmail    = "email"
	CtxTokenID  = "token_id"
	CtxTokenExp = "token_exp"
)

// ctxToken extracts the token identity injected by the Auth middleware. A
// missing id means the middleware did not run for this route.
func ctxToken(c echo.Context) (tokenID string, expiresAt time.Time, err error) {
	tokenID, _ = c.Get(CtxTokenID).(string)
	if tokenID == "" {
		return "", time.Time{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	expiresAt, _ = c.Get(CtxTokenExp).(time.Time)
	return tokenID, expiresAt, nil
}

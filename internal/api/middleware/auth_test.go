package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crazyimage/task-system/internal/api/handler"
	"github.com/crazyimage/task-system/internal/core/domain"
	"github.com/crazyimage/task-system/internal/infrastructure/db/memory"
	"github.com/crazyimage/task-system/internal/infrastructure/security"
)

type failingRevoker struct{}

func (failingRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (failingRevoker) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func signedToken(t *testing.T, iss *security.JWTIssuer) (string, *security.Claims) {
	t.Helper()
	raw, err := iss.Issue(&domain.User{ID: 7, Email: "alice@example.com", Username: "alice"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	claims, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	return raw, claims
}

func run(t *testing.T, mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func mustNotReach(t *testing.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	iss := security.NewJWTIssuer("secret", time.Hour)
	raw, claims := signedToken(t, iss)

	called := false
	rec := run(t, Auth(iss, memory.NewRevocationStore(), zerolog.Nop()), "Bearer "+raw, func(c echo.Context) error {
		called = true
		if c.Get(handler.CtxUserID) != int64(7) {
			t.Fatalf("user_id not set: %v", c.Get(handler.CtxUserID))
		}
		if c.Get(handler.CtxEmail) != "alice@example.com" {
			t.Fatalf("email not set")
		}
		if c.Get(handler.CtxTokenID) != claims.ID {
			t.Fatalf("token_id not set")
		}
		if _, ok := c.Get(handler.CtxTokenExp).(time.Time); !ok {
			t.Fatalf("token_exp not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	iss := security.NewJWTIssuer("secret", time.Hour)
	rec := run(t, Auth(iss, memory.NewRevocationStore(), zerolog.Nop()), "", mustNotReach(t))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	iss := security.NewJWTIssuer("secret", time.Hour)
	for _, header := range []string{"Token abc", "Bearer", "Bearer "} {
		rec := run(t, Auth(iss, memory.NewRevocationStore(), zerolog.Nop()), header, mustNotReach(t))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	raw, _ := signedToken(t, security.NewJWTIssuer("other-secret", time.Hour))

	rec := run(t, Auth(security.NewJWTIssuer("secret", time.Hour), memory.NewRevocationStore(), zerolog.Nop()), "Bearer "+raw, mustNotReach(t))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	iss := security.NewJWTIssuer("secret", time.Hour)
	raw, claims := signedToken(t, iss)
	revocations := memory.NewRevocationStore()
	_ = revocations.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time)

	rec := run(t, Auth(iss, revocations, zerolog.Nop()), "Bearer "+raw, mustNotReach(t))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RevocationStoreDown(t *testing.T) {
	iss := security.NewJWTIssuer("secret", time.Hour)
	raw, _ := signedToken(t, iss)

	rec := run(t, Auth(iss, failingRevoker{}, zerolog.Nop()), "Bearer "+raw, mustNotReach(t))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

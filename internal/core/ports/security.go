package ports

import (
	"context"
	"time"

	"github.com/crazyimage/task-system/internal/core/domain"
)

// PasswordHasher is a one-way credential transform.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify compares in constant time and reports whether password matches hash.
	Verify(hash, password string) bool
}

// TokenIssuer signs a bearer credential bound to a user identity.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenRevoker records logged-out token ids until they would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

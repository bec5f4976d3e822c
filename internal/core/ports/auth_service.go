package ports

import (
	"context"
	"time"

	"github.com/crazyimage/task-system/internal/core/domain"
)

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input *UserInput) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

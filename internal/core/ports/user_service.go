package ports

import (
	"context"
	"time"

	"github.com/crazyimage/task-system/internal/core/domain"
)

// UserInput carries the writable profile fields. Password is plaintext.
type UserInput struct {
	Username string
	Email    string
	Password string
}

// UserDetail is the externally visible view of a user. It never carries the
// password hash.
type UserDetail struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserService defines use-case operations for user accounts.
type UserService interface {
	Register(ctx context.Context, input *UserInput) (*domain.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (bool, error)
	GetUser(ctx context.Context, id int64) (*UserDetail, error)
	ListUsers(ctx context.Context) ([]UserDetail, error)
	UpdateUser(ctx context.Context, id int64, input *UserInput) error
	DeleteUser(ctx context.Context, id int64) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

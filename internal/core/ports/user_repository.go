package ports

import (
	"context"

	"github.com/crazyimage/task-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Create must return domain.ErrUserExists when the email is already taken and
// must assign a fresh identity. FindByID and FindByEmail return
// domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user if present. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error
}

package ports

import (
	"context"

	"github.com/crazyimage/task-system/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// FindByID returns domain.ErrTaskNotFound when no task has the id.
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	// Update persists title, description, status and updated_at only.
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64) error
}

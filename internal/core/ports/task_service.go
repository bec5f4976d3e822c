package ports

import (
	"context"
	"time"
)

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	UserID      int64
}

// UpdateTaskInput carries the replaceable fields of a task. The owner is not
// updatable.
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
}

// TaskDetail is a task joined with its owner. User is nil when the owner id
// does not resolve. A zero TaskDetail means the id was well formed but unknown.
type TaskDetail struct {
	ID          int64
	Title       string
	Description string
	Status      string
	UserID      int64
	User        *UserDetail
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	CreateTask(ctx context.Context, input *CreateTaskInput) (int64, error)
	ListTasks(ctx context.Context) ([]TaskDetail, error)
	GetTask(ctx context.Context, id int64) (*TaskDetail, error)
	UpdateTask(ctx context.Context, id int64, input *UpdateTaskInput) error
	DeleteTask(ctx context.Context, id int64) error
}

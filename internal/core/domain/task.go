package domain

import (
	"errors"
	"time"
)

// StatusPending is applied when a task is created without an explicit status.
const StatusPending = "PENDING"

var ErrTaskNotFound = errors.New("task not found")

// Task is a unit of work owned by a single user. UserID is fixed at creation.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

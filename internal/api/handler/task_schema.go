package handler

import "time"

// --- Request / Response types ---

// createTaskRequest is the body of POST /api/task/create. Status defaults to
// PENDING when the field is omitted.
type createTaskRequest struct {
	Title       string `json:"title"       validate:"notblank,max=255"`
	Description string `json:"description" validate:"notblank"`
	Status      string `json:"status"      validate:"notblank,max=64"`
	UserID      *int64 `json:"user_Id"     validate:"required"`
}

// updateTaskRequest is the body of PUT /api/task/{id}. A user_Id in the body
// is accepted and ignored; the owner never changes.
type updateTaskRequest struct {
	Title       string `json:"title"       validate:"notblank,max=255"`
	Description string `json:"description" validate:"notblank"`
	Status      string `json:"status"      validate:"notblank,max=64"`
	UserID      *int64 `json:"user_Id"`
}

// taskResponse is the task-view: the task joined with its owner. User is
// null when the owner does not resolve.
type taskResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	UserID      int64         `json:"user_Id"`
	User        *userResponse `json:"user"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

package domain

import "time"

// TaskEventType names a task lifecycle transition.
type TaskEventType string

const (
	TaskCreated TaskEventType = "created"
	TaskUpdated TaskEventType = "updated"
	TaskDeleted TaskEventType = "deleted"
)

// TaskEvent is emitted after a task write has been persisted.
type TaskEvent struct {
	Type       TaskEventType `json:"type"`
	TaskID     int64         `json:"task_id"`
	UserID     int64         `json:"user_id,omitempty"`
	Status     string        `json:"status,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

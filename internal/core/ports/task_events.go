package ports

import (
	"context"

	"github.com/crazyimage/task-system/internal/core/domain"
)

// TaskEventPublisher accepts task events without blocking the caller.
type TaskEventPublisher interface {
	Enqueue(event domain.TaskEvent)
}

// TaskEventSink delivers a single event to its final destination.
type TaskEventSink interface {
	Publish(ctx context.Context, event domain.TaskEvent) error
}

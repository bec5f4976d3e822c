package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/crazyimage/task-system/internal/core/domain"
	"github.com/crazyimage/task-system/internal/core/ports"
)

// TaskService implements task CRUD. Reads join each task with its owner.
type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	events ports.TaskEventPublisher
	logger zerolog.Logger
}

// NewTaskService returns a TaskService. events may be nil, in which case no
// lifecycle events are emitted.
func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, events ports.TaskEventPublisher, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, events: events, logger: logger}
}

// CreateTask stores a new task. The owner id is not checked against the user
// store; an unknown owner shows up as a nil User on reads.
func (s *TaskService) CreateTask(ctx context.Context, input *ports.CreateTaskInput) (int64, error) {
	if input == nil {
		return 0, domain.ErrInvalidInput
	}

	status := input.Status
	if status == "" {
		status = domain.StatusPending
	}

	now := time.Now().UTC()
	created, err := s.tasks.Create(ctx, &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		UserID:      input.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return 0, fmt.Errorf("create task: %w", err)
	}

	s.emit(domain.TaskCreated, created)
	s.logger.Info().Int64("task_id", created.ID).Int64("user_id", created.UserID).Msg("task created")
	return created.ID, nil
}

// ListTasks returns every task joined with its owner, one lookup per task.
func (s *TaskService) ListTasks(ctx context.Context) ([]ports.TaskDetail, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := make([]ports.TaskDetail, 0, len(tasks))
	for _, t := range tasks {
		owner, err := s.resolveOwner(ctx, t.UserID)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		out = append(out, toTaskDetail(t, owner))
	}
	return out, nil
}

// GetTask returns domain.ErrInvalidID for a non-positive id. A well formed id
// with no task behind it yields an empty, non-nil TaskDetail.
func (s *TaskService) GetTask(ctx context.Context, id int64) (*ports.TaskDetail, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return &ports.TaskDetail{}, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	owner, err := s.resolveOwner(ctx, task.UserID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	detail := toTaskDetail(task, owner)
	return &detail, nil
}

// UpdateTask replaces title, description and status. The owner is kept.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, input *ports.UpdateTaskInput) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	if input == nil {
		return domain.ErrInvalidInput
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	s.emit(domain.TaskUpdated, task)
	s.logger.Info().Int64("task_id", id).Str("status", task.Status).Msg("task updated")
	return nil
}

// DeleteTask removes the task without checking that it exists.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.emit(domain.TaskDeleted, &domain.Task{ID: id})
	s.logger.Info().Int64("task_id", id).Msg("task deleted")
	return nil
}

// resolveOwner looks up the owner of a task. A missing owner is not an error.
func (s *TaskService) resolveOwner(ctx context.Context, userID int64) (*ports.UserDetail, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	detail := toUserDetail(user)
	return &detail, nil
}

func (s *TaskService) emit(kind domain.TaskEventType, t *domain.Task) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.TaskEvent{
		Type:       kind,
		TaskID:     t.ID,
		UserID:     t.UserID,
		Status:     t.Status,
		OccurredAt: time.Now().UTC(),
	})
}

func toTaskDetail(t *domain.Task, owner *ports.UserDetail) ports.TaskDetail {
	return ports.TaskDetail{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		UserID:      t.UserID,
		User:        owner,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

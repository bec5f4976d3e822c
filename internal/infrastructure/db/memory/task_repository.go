package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/crazyimage/task-system/internal/core/domain"
)

// TaskRepository implements ports.TaskRepository.
type TaskRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*domain.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{byID: make(map[int64]*domain.Task)}
}

func (r *TaskRepository) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *task
	stored.ID = r.nextID
	r.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *TaskRepository) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

// List returns tasks ordered by id.
func (r *TaskRepository) List(_ context.Context) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Task, 0, len(r.byID))
	for _, t := range r.byID {
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update writes title, description, status and updated_at. Owner and
// created_at are left untouched.
func (r *TaskRepository) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	current.Title = task.Title
	current.Description = task.Description
	current.Status = task.Status
	current.UpdatedAt = task.UpdatedAt
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}

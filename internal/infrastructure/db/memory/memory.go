// Package memory is a process-local storage driver. Data does not survive a
// restart. It backs the default configuration and the end-to-end tests.
package memory

import "context"

// Store bundles the in-memory repositories.
type Store struct {
	Users *UserRepository
	Tasks *TaskRepository
}

func New() *Store {
	return &Store{
		Users: NewUserRepository(),
		Tasks: NewTaskRepository(),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }

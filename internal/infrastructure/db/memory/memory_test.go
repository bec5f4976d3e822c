package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/crazyimage/task-system/internal/core/domain"
	"github.com/crazyimage/task-system/internal/core/ports"
)

var (
	_ ports.UserRepository = (*UserRepository)(nil)
	_ ports.TaskRepository = (*TaskRepository)(nil)
	_ ports.TokenRevoker   = (*RevocationStore)(nil)
)

func TestUserRepository_CreateAssignsIDsAndEnforcesEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, &domain.User{Username: "a", Email: "a@x.io"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := repo.Create(ctx, &domain.User{Username: "b", Email: "b@x.io"})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected sequential ids, got %d and %d", a.ID, b.ID)
	}

	if _, err := repo.Create(ctx, &domain.User{Username: "c", Email: "a@x.io"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	exists, _ := repo.ExistsByEmail(ctx, "a@x.io")
	if !exists {
		t.Fatal("expected email to exist")
	}
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	created, _ := repo.Create(ctx, &domain.User{Username: "a", Email: "a@x.io"})

	created.Username = "mutated"
	got, _ := repo.FindByID(ctx, created.ID)
	if got.Username != "a" {
		t.Fatalf("stored user leaked through returned pointer")
	}
}

func TestUserRepository_UpdateMovesEmailIndex(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	a, _ := repo.Create(ctx, &domain.User{Username: "a", Email: "a@x.io"})
	_, _ = repo.Create(ctx, &domain.User{Username: "b", Email: "b@x.io"})

	a.Email = "b@x.io"
	if err := repo.Update(ctx, a); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	a.Email = "new@x.io"
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "a@x.io"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("old email must be released, got %v", err)
	}
	if got, err := repo.FindByEmail(ctx, "new@x.io"); err != nil || got.ID != a.ID {
		t.Fatalf("new email must resolve to the user, got %+v, %v", got, err)
	}

	if err := repo.Update(ctx, &domain.User{ID: 99, Email: "z@x.io"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_DeleteIsIdempotent(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	a, _ := repo.Create(ctx, &domain.User{Username: "a", Email: "a@x.io"})

	for i := 0; i < 2; i++ {
		if err := repo.Delete(ctx, a.ID); err != nil {
			t.Fatalf("delete #%d: %v", i, err)
		}
	}
	if _, err := repo.Create(ctx, &domain.User{Username: "a2", Email: "a@x.io"}); err != nil {
		t.Fatalf("email must be reusable after delete: %v", err)
	}
	if users, _ := repo.List(ctx); len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
}

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Create(ctx, &domain.User{Email: "same@x.io"}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != 1 {
		t.Fatalf("expected exactly one successful create, got %d", ok)
	}
}

func TestTaskRepository_UpdateKeepsOwner(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()
	created, _ := repo.Create(ctx, &domain.Task{Title: "T", Description: "D", Status: "PENDING", UserID: 3})

	err := repo.Update(ctx, &domain.Task{ID: created.ID, Title: "T2", Description: "D2", Status: "DONE", UserID: 99})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := repo.FindByID(ctx, created.ID)
	if got.Title != "T2" || got.Status != "DONE" || got.UserID != 3 {
		t.Fatalf("unexpected task after update: %+v", got)
	}
	if err := repo.Update(ctx, &domain.Task{ID: 42}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskRepository_ListOrderedAndDelete(t *testing.T) {
	repo := NewTaskRepository()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _ = repo.Create(ctx, &domain.Task{Title: "T"})
	}
	_ = repo.Delete(ctx, 2)
	_ = repo.Delete(ctx, 2)

	tasks, _ := repo.List(ctx)
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[1].ID != 3 {
		t.Fatalf("unexpected list: %+v", tasks)
	}
	if _, err := repo.FindByID(ctx, 2); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestRevocationStore_ExpiresEntries(t *testing.T) {
	s := NewRevocationStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Revoke(ctx, "live", now.Add(time.Minute))
	_ = s.Revoke(ctx, "stale", now.Add(-time.Minute))

	if revoked, _ := s.IsRevoked(ctx, "live"); !revoked {
		t.Fatal("expected live token to be revoked")
	}
	if revoked, _ := s.IsRevoked(ctx, "stale"); revoked {
		t.Fatal("already expired token must not be tracked")
	}

	now = now.Add(2 * time.Minute)
	if revoked, _ := s.IsRevoked(ctx, "live"); revoked {
		t.Fatal("entry must lapse after expiry")
	}
	if len(s.revoked) != 0 {
		t.Fatalf("expected map to be empty, got %v", s.revoked)
	}
}

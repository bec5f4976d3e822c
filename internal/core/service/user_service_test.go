package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/crazyimage/task-system/internal/core/domain"
	"github.com/crazyimage/task-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[int64]*domain.User
	nextID    int64
	findErr   error // if set, FindByEmail/FindByID return this error
	deleted   []int64
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	delete(r.byID, id)
	return nil
}

// prefixHasher is a reversible stand-in for bcrypt.
type prefixHasher struct{}

func (prefixHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (prefixHasher) Verify(hash, password string) bool { return hash == "hashed:"+password }

var discardLogger = zerolog.Nop()

func newUserSvc(repo *stubUserRepo) *UserService {
	return NewUserService(repo, prefixHasher{}, discardLogger)
}

func aliceInput() *ports.UserInput {
	return &ports.UserInput{Username: "alice", Email: "alice@example.com", Password: "s3cret"}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestUserService_Register_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)

	user, err := svc.Register(context.Background(), aliceInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected a server-assigned id")
	}
	stored := repo.byID[user.ID]
	if stored.PasswordHash != "hashed:s3cret" {
		t.Fatalf("expected hashed password, got %q", stored.PasswordHash)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Fatalf("timestamps must be set")
	}
}

func TestUserService_Register_NilInput(t *testing.T) {
	svc := newUserSvc(newStubUserRepo())

	if _, err := svc.Register(context.Background(), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_Register_DuplicateEmailKeepsFirstUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)

	first, err := svc.Register(context.Background(), aliceInput())
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	dup := &ports.UserInput{Username: "mallory", Email: "alice@example.com", Password: "other"}
	if _, err := svc.Register(context.Background(), dup); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(repo.byID))
	}
	stored := repo.byID[first.ID]
	if stored.Username != "alice" || stored.PasswordHash != "hashed:s3cret" {
		t.Fatalf("first user was modified: %+v", stored)
	}
}

func TestUserService_Register_RepoError(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = errors.New("db unavailable")
	svc := newUserSvc(repo)

	_, err := svc.Register(context.Background(), aliceInput())
	if err == nil || !strings.Contains(err.Error(), "db unavailable") {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// VerifyCredentials
// ---------------------------------------------------------------------------

func TestUserService_VerifyCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)
	if _, err := svc.Register(context.Background(), aliceInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
		want     bool
	}{
		{"right password", "alice@example.com", "s3cret", true},
		{"wrong password", "alice@example.com", "nope", false},
		{"unknown email", "ghost@example.com", "s3cret", false},
	}

	for _, tc := range cases {
		got, err := svc.VerifyCredentials(context.Background(), tc.email, tc.password)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestUserService_VerifyCredentials_StorageError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc := newUserSvc(repo)

	ok, err := svc.VerifyCredentials(context.Background(), "alice@example.com", "s3cret")
	if err == nil || ok {
		t.Fatalf("expected storage error to surface, got ok=%v err=%v", ok, err)
	}
}

// ---------------------------------------------------------------------------
// GetUser / ListUsers
// ---------------------------------------------------------------------------

func TestUserService_GetUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)
	created, _ := svc.Register(context.Background(), aliceInput())

	detail, err := svc.GetUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != created.ID || detail.Email != "alice@example.com" || detail.Username != "alice" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	if _, err := svc.GetUser(context.Background(), 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.GetUser(context.Background(), 0); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)
	_, _ = svc.Register(context.Background(), aliceInput())
	_, _ = svc.Register(context.Background(), &ports.UserInput{Username: "bob", Email: "bob@example.com", Password: "pw"})

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

// ---------------------------------------------------------------------------
// UpdateUser
// ---------------------------------------------------------------------------

func TestUserService_UpdateUser_ReplacesFieldsAndRehashes(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)
	created, _ := svc.Register(context.Background(), aliceInput())

	err := svc.UpdateUser(context.Background(), created.ID, &ports.UserInput{
		Username: "alice2",
		Email:    "alice2@example.com",
		Password: "newpass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.byID[created.ID]
	if stored.Username != "alice2" || stored.Email != "alice2@example.com" {
		t.Fatalf("fields not replaced: %+v", stored)
	}
	if stored.PasswordHash != "hashed:newpass" {
		t.Fatalf("password must be re-hashed, got %q", stored.PasswordHash)
	}
}

func TestUserService_UpdateUser_Failures(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)

	if err := svc.UpdateUser(context.Background(), 0, aliceInput()); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if err := svc.UpdateUser(context.Background(), 1, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.UpdateUser(context.Background(), 42, aliceInput()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Errorf("update of a missing user must not create a row")
	}
}

// ---------------------------------------------------------------------------
// DeleteUser
// ---------------------------------------------------------------------------

func TestUserService_DeleteUser_MissingIdSucceeds(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)

	if err := svc.DeleteUser(context.Background(), 77); err != nil {
		t.Fatalf("expected delete of unknown id to succeed, got %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 77 {
		t.Fatalf("expected repo delete call, got %v", repo.deleted)
	}
}

func TestUserService_DeleteUser_InvalidID(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserSvc(repo)

	if err := svc.DeleteUser(context.Background(), -1); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("repo must not be called for an invalid id")
	}
}

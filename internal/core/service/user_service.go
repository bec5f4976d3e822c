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

// UserService implements registration, credential checks and profile CRUD.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// Register hashes the password and stores a new user. It fails with
// domain.ErrUserExists when the email is already registered.
func (s *UserService) Register(ctx context.Context, input *ports.UserInput) (*domain.User, error) {
	if input == nil {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register user: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		s.logger.Error().Err(err).Str("email", input.Email).Msg("failed to create user")
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.Info().Int64("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

// VerifyCredentials reports whether password matches the stored hash for email.
// An unknown email is reported as false, not as an error.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("verify credentials: %w", err)
	}
	return s.hasher.Verify(user.PasswordHash, password), nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*ports.UserDetail, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := toUserDetail(user)
	return &detail, nil
}

// ListUsers returns every user. There is no pagination.
func (s *UserService) ListUsers(ctx context.Context) ([]ports.UserDetail, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]ports.UserDetail, len(users))
	for i, u := range users {
		out[i] = toUserDetail(u)
	}
	return out, nil
}

// UpdateUser replaces email, username and password of an existing user. The
// new password is hashed before it is stored.
func (s *UserService) UpdateUser(ctx context.Context, id int64, input *ports.UserInput) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	if input == nil {
		return domain.ErrInvalidInput
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return fmt.Errorf("update user: hash password: %w", err)
	}

	user.Email = input.Email
	user.Username = input.Username
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return nil
}

// DeleteUser removes the user without checking that it exists.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func toUserDetail(u *domain.User) ports.UserDetail {
	return ports.UserDetail{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

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

// AuthService implements registration, login and logout on top of the user
// service, a token issuer and a revocation store.
type AuthService struct {
	users   ports.UserService
	issuer  ports.TokenIssuer
	revoker ports.TokenRevoker
	logger  zerolog.Logger
}

func NewAuthService(users ports.UserService, issuer ports.TokenIssuer, revoker ports.TokenRevoker, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, issuer: issuer, revoker: revoker, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, input *ports.UserInput) error {
	_, err := s.users.Register(ctx, input)
	return err
}

// Login verifies the credentials, then issues a token for the user behind
// email. Wrong credentials and a user that vanished between the two lookups
// both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.users.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Info().Str("email", email).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("login succeeded")
	return &ports.LoginResult{Token: token, User: user}, nil
}

// Logout revokes tokenID until expiresAt.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return domain.ErrInvalidInput
	}
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info().Str("token_id", tokenID).Msg("token revoked")
	return nil
}

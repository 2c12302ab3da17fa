package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/auth"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/repository"
)

// ErrInvalidCredentials is returned when a username/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates operators and issues tokens.
type AuthService struct {
	users  repository.UserStore
	tokens *auth.JWTManager
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repository.UserStore, tokens *auth.JWTManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login checks the credentials against the user store and returns a signed
// token on success.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// EnsureUser creates the account or resets its password. It is used to
// seed the bootstrap operator on startup.
func (s *AuthService) EnsureUser(ctx context.Context, username, password string) error {
	if username == "" {
		return errors.New("username is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.Upsert(ctx, &model.User{Username: username, PasswordHash: hash}); err != nil {
		return fmt.Errorf("ensure user %q: %w", username, err)
	}
	return nil
}

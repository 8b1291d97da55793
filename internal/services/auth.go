package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
)

// AuthService wraps the credential and identity endpoints.
type AuthService struct {
	c *Client
}

// Login exchanges email and password for a credential.
//
// The token is returned, not stored: persisting it is the caller's job.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Token, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	var token models.Token
	if err := s.c.doForm(ctx, http.MethodPost, "/auth/token/", form, &token); err != nil {
		if errors.Is(err, shared.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", shared.ErrBadCredentials, err)
		}
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response carried no access_token", shared.ErrInvalidResponse)
	}
	return &token, nil
}

// Register creates an account. It does not log in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := s.c.doJSON(ctx, http.MethodPost, "/users/", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the identity behind the current credential.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.c.doJSON(ctx, http.MethodGet, "/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout asks the backend to end the session and always clears the local credential.
//
// The backend may not implement /auth/logout, so any failure there is logged and ignored.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			s.c.logger.Debug("logout endpoint rejected request", "status", apiErr.StatusCode)
		} else {
			s.c.logger.Debug("logout request failed", "error", err)
		}
	}

	if err := s.c.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// userID resolves the caller's id. Two-step wrappers call this first.
func (s *AuthService) userID(ctx context.Context) (int, error) {
	user, err := s.Me(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolve identity: %w", err)
	}
	return user.UserID, nil
}

package services

import (
	"context"

	"realhub-app/internal/adapters/gateway"
	"realhub-app/internal/core/domain"
)

// ============================================================
// Profile & master data
// ============================================================

// UserBackend is the slice of the gateway the profile service needs
type UserBackend interface {
	Me(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, update gateway.ProfileUpdate) (*domain.User, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Agents(ctx context.Context) ([]domain.User, error)
}

// UserService backs the profile-completion wizard and directory views
type UserService struct {
	backend UserBackend
	session *SessionService
	notify  *NotificationService
}

// NewUserService creates a profile service
func NewUserService(backend UserBackend, session *SessionService, notify *NotificationService) *UserService {
	return &UserService{backend: backend, session: session, notify: notify}
}

// Refresh refetches the profile and refreshes the cached session projection
func (s *UserService) Refresh(ctx context.Context) (*domain.User, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}

	user, err := s.backend.Me(ctx)
	if err != nil {
		return nil, handleRemoteError(s.session, s.notify, "fetch profile", err)
	}
	if err := s.session.UpdateUser(*user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile replaces the profile fields. The session projection and its
// account status are recomputed from the backend's response.
func (s *UserService) UpdateProfile(ctx context.Context, update gateway.ProfileUpdate) (*domain.User, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}

	user, err := s.backend.UpdateProfile(ctx, update)
	if err != nil {
		return nil, handleRemoteError(s.session, s.notify, "update profile", err)
	}
	if err := s.session.UpdateUser(*user); err != nil {
		return nil, err
	}

	s.notify.Success("Profile updated")
	return user, nil
}

// Categories fetches the property category master list
func (s *UserService) Categories(ctx context.Context) ([]domain.Category, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}

	cats, err := s.backend.Categories(ctx)
	if err != nil {
		return nil, handleRemoteError(s.session, s.notify, "fetch categories", err)
	}
	return cats, nil
}

// Agents fetches the approved agent directory
func (s *UserService) Agents(ctx context.Context) ([]domain.User, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}

	agents, err := s.backend.Agents(ctx)
	if err != nil {
		return nil, handleRemoteError(s.session, s.notify, "fetch agents", err)
	}
	return agents, nil
}

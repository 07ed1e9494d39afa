package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"realhub-app/internal/adapters/sessionstore"
	"realhub-app/internal/core/domain"
)

// SessionBackend is the slice of the gateway the session holder needs to
// revalidate a persisted token at startup
type SessionBackend interface {
	ValidateToken(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
}

// Snapshot is an immutable view of the session taken per operation, so
// readers never race with a concurrent teardown
type Snapshot struct {
	User          domain.User
	Status        domain.AccountStatus
	Authenticated bool
	Initialized   bool
}

// SessionService holds the authenticated identity and token. It is the
// single writer of the token; every other component reads through Token()
// or Snapshot().
type SessionService struct {
	mu    sync.RWMutex
	store *sessionstore.Store

	user          domain.User
	token         string
	status        domain.AccountStatus
	authenticated bool
	initialized   bool
}

// NewSessionService creates a session holder backed by the given store
func NewSessionService(store *sessionstore.Store) *SessionService {
	return &SessionService{store: store}
}

// Token returns the current bearer token ("" when logged out).
// Implements gateway.TokenProvider.
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Snapshot returns an immutable view of the session
func (s *SessionService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		User:          s.user,
		Status:        s.status,
		Authenticated: s.authenticated,
		Initialized:   s.initialized,
	}
}

// SetAuth stores the credential pair and marks the session authenticated.
// A deleted account is never stored, whatever else the response claims.
func (s *SessionService) SetAuth(user domain.User, token string) error {
	if user.Status() == domain.AccountDeleted {
		return domain.ErrAccountDeleted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	s.token = token
	s.status = user.Status()
	s.authenticated = true

	if err := s.store.Save(&sessionstore.Record{User: user, Token: token}); err != nil {
		log.Printf("⚠️ Failed to persist session: %v", err)
	}
	return nil
}

// UpdateUser replaces the cached user projection and recomputes the account
// status. The token is untouched.
func (s *SessionService) UpdateUser(user domain.User) error {
	if user.Status() == domain.AccountDeleted {
		s.ClearAuth()
		return domain.ErrAccountDeleted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated {
		return domain.ErrNotAuthenticated
	}

	s.user = user
	s.status = user.Status()

	if err := s.store.Save(&sessionstore.Record{User: user, Token: s.token}); err != nil {
		log.Printf("⚠️ Failed to persist session: %v", err)
	}
	return nil
}

// ClearAuth wipes user and token. Idempotent.
func (s *SessionService) ClearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = domain.User{}
	s.token = ""
	s.status = ""
	s.authenticated = false

	if err := s.store.Clear(); err != nil {
		log.Printf("⚠️ Failed to clear session record: %v", err)
	}
}

// Initialize rehydrates a persisted session and revalidates it against the
// backend before marking the session usable. Any failure (invalid token,
// unreachable backend, deleted account) clears the session, so startup fails
// closed.
// Initialized becomes true exactly once and never reverts; a second call is
// a no-op.
func (s *SessionService) Initialize(ctx context.Context, backend SessionBackend) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	// Whatever happens below, the suspension point resolves.
	defer func() {
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
	}()

	rec, err := s.store.Load()
	if err != nil {
		if !errors.Is(err, domain.ErrNoStoredSession) {
			log.Printf("⚠️ Session record unreadable, starting logged out: %v", err)
			s.ClearAuth()
		}
		return nil
	}

	// Stage the token so the validate/profile calls carry it.
	s.mu.Lock()
	s.token = rec.Token
	s.mu.Unlock()

	if err := backend.ValidateToken(ctx); err != nil {
		log.Printf("🛑 Stored token rejected, forcing re-login: %v", err)
		s.ClearAuth()
		return nil
	}

	user, err := backend.Me(ctx)
	if err != nil {
		log.Printf("🛑 Profile fetch failed, forcing re-login: %v", err)
		s.ClearAuth()
		return nil
	}

	if err := s.SetAuth(*user, rec.Token); err != nil {
		s.ClearAuth()
		return nil
	}

	log.Printf("✅ Session restored for user %d [%s]", user.ID, user.Status())
	return nil
}

package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"realhub-app/internal/core/domain"
)

// ============================================================
// Pending-Change Review (admin disposition of submitted drafts)
// ============================================================

// ReviewBackend is the slice of the gateway the review controller needs
type ReviewBackend interface {
	ListPendingChanges(ctx context.Context) ([]domain.PendingChange, error)
	ApprovePendingChange(ctx context.Context, changeID string) error
	RejectPendingChange(ctx context.Context, changeID, reason string) error
	RequestChanges(ctx context.Context, changeID, reason string) error
}

// ReviewService drives the admin side of the draft cycle. Each change id
// sees exactly one terminal transition; the backend enforces it and the
// client surfaces a second attempt as the business rejection it is.
type ReviewService struct {
	mu       sync.Mutex
	backend  ReviewBackend
	session  *SessionService
	notify   *NotificationService
	inFlight map[string]bool
}

// NewReviewService creates a pending-change review controller
func NewReviewService(backend ReviewBackend, session *SessionService, notify *NotificationService) *ReviewService {
	return &ReviewService{
		backend:  backend,
		session:  session,
		notify:   notify,
		inFlight: make(map[string]bool),
	}
}

// List fetches the open review queue
func (s *ReviewService) List(ctx context.Context) ([]domain.PendingChange, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}

	changes, err := s.backend.ListPendingChanges(ctx)
	if err != nil {
		return nil, handleRemoteError(s.session, s.notify, "list pending changes", err)
	}
	return changes, nil
}

// Approve merges the submitted payload into the approved resource
func (s *ReviewService) Approve(ctx context.Context, changeID string) error {
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	if err := s.begin(changeID); err != nil {
		return err
	}
	defer s.end(changeID)

	if err := s.backend.ApprovePendingChange(ctx, changeID); err != nil {
		return handleRemoteError(s.session, s.notify, "approve change", err)
	}

	s.notify.Success("Change %s approved", changeID)
	log.Printf("✅ Pending change %s approved", changeID)
	return nil
}

// Reject rejects the submitted draft. Reason is mandatory.
func (s *ReviewService) Reject(ctx context.Context, changeID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.ErrEmptyReason
	}
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	if err := s.begin(changeID); err != nil {
		return err
	}
	defer s.end(changeID)

	if err := s.backend.RejectPendingChange(ctx, changeID, reason); err != nil {
		return handleRemoteError(s.session, s.notify, "reject change", err)
	}

	s.notify.Success("Change %s rejected", changeID)
	return nil
}

// RequestChanges returns the draft to its proposer for revision. Reason is
// mandatory.
func (s *ReviewService) RequestChanges(ctx context.Context, changeID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.ErrEmptyReason
	}
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	if err := s.begin(changeID); err != nil {
		return err
	}
	defer s.end(changeID)

	if err := s.backend.RequestChanges(ctx, changeID, reason); err != nil {
		return handleRemoteError(s.session, s.notify, "request changes", err)
	}

	s.notify.Success("Changes requested on %s", changeID)
	return nil
}

func (s *ReviewService) begin(changeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[changeID] {
		return domain.ErrOperationInFlight
	}
	s.inFlight[changeID] = true
	return nil
}

func (s *ReviewService) end(changeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, changeID)
}

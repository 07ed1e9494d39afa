package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"realhub-app/internal/adapters/gateway"
	"realhub-app/internal/core/domain"
)

// ============================================================
// Loan-Request Triage Controller
// ============================================================

// LoanBackend is the slice of the gateway the triage controller needs
type LoanBackend interface {
	ListLoanRequests(ctx context.Context) ([]domain.LoanRequest, error)
	ReassignLoan(ctx context.Context, id string, req gateway.ReassignRequest) error
	EscalateLoan(ctx context.Context, id, reason string) error
	CommentLoan(ctx context.Context, id, text string, isPublic bool) error
	BulkReassign(ctx context.Context, ids []string, req gateway.ReassignRequest) ([]domain.BulkOutcome, error)
	BulkEscalate(ctx context.Context, ids []string, reason string) ([]domain.BulkOutcome, error)
}

// ReassignOptions selects the new assignee. Exactly one of AssigneeID and
// AutoAssign must be set; supplying both (or neither) fails client-side.
type ReassignOptions struct {
	AssigneeID *uint
	AutoAssign bool
}

func (o ReassignOptions) validate() error {
	if o.AssigneeID != nil && o.AutoAssign {
		return domain.ErrAssigneeConflict
	}
	if o.AssigneeID == nil && !o.AutoAssign {
		return domain.ErrNoAssignee
	}
	return nil
}

// loanView is one registered list view over loan requests
type loanView struct {
	ids   map[string]bool
	stale bool
}

// LoanService manages assignment, escalation and status transitions for
// loan requests. Mutations mark dependent views stale instead of patching
// them in place: the backend may apply policy (SLA recalculation) the client
// cannot replicate.
type LoanService struct {
	mu      sync.Mutex
	backend LoanBackend
	session *SessionService
	notify  *NotificationService

	views    map[string]*loanView
	inFlight map[string]bool
}

// NewLoanService creates a triage controller
func NewLoanService(backend LoanBackend, session *SessionService, notify *NotificationService) *LoanService {
	return &LoanService{
		backend:  backend,
		session:  session,
		notify:   notify,
		views:    make(map[string]*loanView),
		inFlight: make(map[string]bool),
	}
}

// List fetches the triage queue and registers it as a named view
func (s *LoanService) List(ctx context.Context, viewName string) ([]domain.LoanRequest, error) {
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}

	requests, err := s.backend.ListLoanRequests(ctx)
	if err != nil {
		return nil, handleRemoteError(s.session, s.notify, "list loan requests", err)
	}

	ids := make(map[string]bool, len(requests))
	for _, r := range requests {
		ids[r.ID] = true
	}

	s.mu.Lock()
	s.views[viewName] = &loanView{ids: ids}
	s.mu.Unlock()
	return requests, nil
}

// IsStale reports whether a registered view must be refetched
func (s *LoanService) IsStale(viewName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[viewName]
	return ok && v.stale
}

// Reassign moves a loan request to a new assignee or to backend auto-assign
func (s *LoanService) Reassign(ctx context.Context, id string, opts ReassignOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	if err := s.begin(id); err != nil {
		return err
	}
	defer s.end(id)

	req := gateway.ReassignRequest{AssigneeID: opts.AssigneeID, AutoAssign: opts.AutoAssign}
	if err := s.backend.ReassignLoan(ctx, id, req); err != nil {
		return handleRemoteError(s.session, s.notify, "reassign loan request", err)
	}

	s.invalidate(id)
	s.notify.Success("Loan request %s reassigned", id)
	return nil
}

// Escalate escalates a loan request. The reason is mandatory; escalation
// appends a comment and may change the assignee via backend policy.
func (s *LoanService) Escalate(ctx context.Context, id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.ErrEmptyReason
	}
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	if err := s.begin(id); err != nil {
		return err
	}
	defer s.end(id)

	if err := s.backend.EscalateLoan(ctx, id, reason); err != nil {
		return handleRemoteError(s.session, s.notify, "escalate loan request", err)
	}

	s.invalidate(id)
	s.notify.Success("Loan request %s escalated", id)
	return nil
}

// AddComment appends a comment to a loan request's trail
func (s *LoanService) AddComment(ctx context.Context, id, text string, isPublic bool) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyComment
	}
	if _, err := requireAuth(s.session); err != nil {
		return err
	}
	if err := s.begin(id); err != nil {
		return err
	}
	defer s.end(id)

	if err := s.backend.CommentLoan(ctx, id, text, isPublic); err != nil {
		return handleRemoteError(s.session, s.notify, "comment loan request", err)
	}

	s.invalidate(id)
	return nil
}

// BulkReassign reassigns a set of loan requests. Not atomic: every id gets
// exactly one outcome entry so partial failure stays visible to the operator.
func (s *LoanService) BulkReassign(ctx context.Context, ids []string, opts ReassignOptions) ([]domain.BulkOutcome, error) {
	if len(ids) == 0 {
		return nil, domain.ErrNoTargets
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}

	req := gateway.ReassignRequest{AssigneeID: opts.AssigneeID, AutoAssign: opts.AutoAssign}
	outcomes, err := s.backend.BulkReassign(ctx, ids, req)
	if err != nil {
		return nil, handleRemoteError(s.session, s.notify, "bulk reassign", err)
	}

	return s.settleBulk("reassign", ids, outcomes), nil
}

// BulkEscalate escalates a set of loan requests with one shared reason
func (s *LoanService) BulkEscalate(ctx context.Context, ids []string, reason string) ([]domain.BulkOutcome, error) {
	if len(ids) == 0 {
		return nil, domain.ErrNoTargets
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrEmptyReason
	}
	if _, err := requireAuth(s.session); err != nil {
		return nil, err
	}

	outcomes, err := s.backend.BulkEscalate(ctx, ids, reason)
	if err != nil {
		return nil, handleRemoteError(s.session, s.notify, "bulk escalate", err)
	}

	return s.settleBulk("escalate", ids, outcomes), nil
}

// settleBulk reconciles backend outcomes against the requested ids: every
// requested id ends up with exactly one entry, and ids the backend never
// reported on come back as failures rather than being dropped.
func (s *LoanService) settleBulk(op string, ids []string, outcomes []domain.BulkOutcome) []domain.BulkOutcome {
	byID := make(map[string]domain.BulkOutcome, len(outcomes))
	for _, o := range outcomes {
		byID[o.ID] = o
	}

	settled := make([]domain.BulkOutcome, 0, len(ids))
	var ok, failed int
	for _, id := range ids {
		o, reported := byID[id]
		if !reported {
			o = domain.BulkOutcome{ID: id, OK: false, Error: "no outcome reported"}
		}
		settled = append(settled, o)
		if o.OK {
			ok++
			s.invalidate(id)
		} else {
			failed++
		}
	}

	if failed == 0 {
		s.notify.Success("Bulk %s: %d succeeded", op, ok)
	} else {
		s.notify.Error("Bulk %s: %d succeeded, %d failed", op, ok, failed)
	}
	log.Printf("✅ Bulk %s settled: %d ok, %d failed", op, ok, failed)
	return settled
}

// begin takes the per-id in-flight gate (same-id mutations are serialized)
func (s *LoanService) begin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[id] {
		return domain.ErrOperationInFlight
	}
	s.inFlight[id] = true
	return nil
}

func (s *LoanService) end(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// invalidate marks every view containing id stale
func (s *LoanService) invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.views {
		if v.ids[id] {
			v.stale = true
		}
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"realhub-app/internal/adapters/gateway"
	"realhub-app/internal/core/domain"
)

type stubLoanBackend struct {
	requests      []domain.LoanRequest
	bulkOutcomes  []domain.BulkOutcome
	reassignCalls int
	err           error
}

func (b *stubLoanBackend) ListLoanRequests(ctx context.Context) ([]domain.LoanRequest, error) {
	return b.requests, b.err
}

func (b *stubLoanBackend) ReassignLoan(ctx context.Context, id string, req gateway.ReassignRequest) error {
	b.reassignCalls++
	return b.err
}

func (b *stubLoanBackend) EscalateLoan(ctx context.Context, id, reason string) error {
	return b.err
}

func (b *stubLoanBackend) CommentLoan(ctx context.Context, id, text string, isPublic bool) error {
	return b.err
}

func (b *stubLoanBackend) BulkReassign(ctx context.Context, ids []string, req gateway.ReassignRequest) ([]domain.BulkOutcome, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.bulkOutcomes, nil
}

func (b *stubLoanBackend) BulkEscalate(ctx context.Context, ids []string, reason string) ([]domain.BulkOutcome, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.bulkOutcomes, nil
}

func newLoanService(t *testing.T, backend *stubLoanBackend) *LoanService {
	t.Helper()
	return NewLoanService(backend, authedSession(t), NewNotificationService())
}

func uintPtr(v uint) *uint { return &v }

func TestReassignValidatesAssigneeChoice(t *testing.T) {
	backend := &stubLoanBackend{}
	svc := newLoanService(t, backend)

	err := svc.Reassign(context.Background(), "l-1", ReassignOptions{AssigneeID: uintPtr(3), AutoAssign: true})
	if !errors.Is(err, domain.ErrAssigneeConflict) {
		t.Fatalf("both modes = %v, want ErrAssigneeConflict", err)
	}

	err = svc.Reassign(context.Background(), "l-1", ReassignOptions{})
	if !errors.Is(err, domain.ErrNoAssignee) {
		t.Fatalf("neither mode = %v, want ErrNoAssignee", err)
	}

	if backend.reassignCalls != 0 {
		t.Fatal("invalid option combinations must not reach the backend")
	}
}

func TestEscalateRequiresReason(t *testing.T) {
	svc := newLoanService(t, &stubLoanBackend{})

	if err := svc.Escalate(context.Background(), "l-1", "  "); !errors.Is(err, domain.ErrEmptyReason) {
		t.Fatalf("Escalate = %v, want ErrEmptyReason", err)
	}
	if err := svc.AddComment(context.Background(), "l-1", "", false); !errors.Is(err, domain.ErrEmptyComment) {
		t.Fatalf("AddComment = %v, want ErrEmptyComment", err)
	}
}

func TestMutationMarksViewStale(t *testing.T) {
	backend := &stubLoanBackend{requests: []domain.LoanRequest{{ID: "l-1"}, {ID: "l-2"}}}
	svc := newLoanService(t, backend)

	if _, err := svc.List(context.Background(), "triage"); err != nil {
		t.Fatalf("List: %v", err)
	}
	if svc.IsStale("triage") {
		t.Fatal("fresh view must not be stale")
	}

	if err := svc.Reassign(context.Background(), "l-1", ReassignOptions{AutoAssign: true}); err != nil {
		t.Fatalf("Reassign: %v", err)
	}
	if !svc.IsStale("triage") {
		t.Fatal("view containing a mutated id must go stale")
	}

	// Refetch clears staleness.
	if _, err := svc.List(context.Background(), "triage"); err != nil {
		t.Fatalf("List: %v", err)
	}
	if svc.IsStale("triage") {
		t.Fatal("refetched view must be fresh")
	}
}

func TestMutationOutsideViewKeepsItFresh(t *testing.T) {
	backend := &stubLoanBackend{requests: []domain.LoanRequest{{ID: "l-1"}}}
	svc := newLoanService(t, backend)

	if _, err := svc.List(context.Background(), "triage"); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := svc.Escalate(context.Background(), "l-99", "SLA breach"); err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if svc.IsStale("triage") {
		t.Fatal("mutating an id outside the view must not invalidate it")
	}
}

func TestBulkReassignSettlesEveryID(t *testing.T) {
	backend := &stubLoanBackend{
		requests: []domain.LoanRequest{{ID: "l-1"}, {ID: "l-2"}, {ID: "l-3"}},
		bulkOutcomes: []domain.BulkOutcome{
			{ID: "l-1", OK: true},
			{ID: "l-2", OK: false, Error: "assignee ineligible"},
			// l-3 never reported by the backend
		},
	}
	notify := NewNotificationService()
	svc := NewLoanService(backend, authedSession(t), notify)
	if _, err := svc.List(context.Background(), "triage"); err != nil {
		t.Fatalf("List: %v", err)
	}

	outcomes, err := svc.BulkReassign(context.Background(), []string{"l-1", "l-2", "l-3"}, ReassignOptions{AutoAssign: true})
	if err != nil {
		t.Fatalf("BulkReassign: %v", err)
	}

	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want exactly one per requested id", len(outcomes))
	}
	if !outcomes[0].OK {
		t.Fatal("l-1 should succeed")
	}
	if outcomes[1].OK || outcomes[1].Error != "assignee ineligible" {
		t.Fatalf("l-2 = %+v, want reported failure", outcomes[1])
	}
	if outcomes[2].OK || outcomes[2].Error != "no outcome reported" {
		t.Fatalf("l-3 = %+v, want synthesized failure", outcomes[2])
	}

	// The partial success still invalidates the view.
	if !svc.IsStale("triage") {
		t.Fatal("bulk success on l-1 must invalidate the view")
	}

	// The partial failure surfaces as an error entry in the feed.
	recent := notify.Recent(1)
	if len(recent) != 1 || recent[0].Level != LevelError {
		t.Fatalf("feed tail = %+v, want one error entry", recent)
	}
}

func TestBulkEscalateGuards(t *testing.T) {
	svc := newLoanService(t, &stubLoanBackend{})

	if _, err := svc.BulkEscalate(context.Background(), nil, "reason"); !errors.Is(err, domain.ErrNoTargets) {
		t.Fatalf("empty ids = %v, want ErrNoTargets", err)
	}
	if _, err := svc.BulkEscalate(context.Background(), []string{"l-1"}, ""); !errors.Is(err, domain.ErrEmptyReason) {
		t.Fatalf("empty reason = %v, want ErrEmptyReason", err)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"realhub-app/internal/core/domain"
)

type stubReviewBackend struct {
	changes      []domain.PendingChange
	approveCalls int
	rejectCalls  int
	err          error

	// block lets a test hold an operation open to exercise the in-flight gate
	block chan struct{}
}

func (b *stubReviewBackend) ListPendingChanges(ctx context.Context) ([]domain.PendingChange, error) {
	return b.changes, b.err
}

func (b *stubReviewBackend) ApprovePendingChange(ctx context.Context, changeID string) error {
	b.approveCalls++
	if b.block != nil {
		<-b.block
	}
	return b.err
}

func (b *stubReviewBackend) RejectPendingChange(ctx context.Context, changeID, reason string) error {
	b.rejectCalls++
	return b.err
}

func (b *stubReviewBackend) RequestChanges(ctx context.Context, changeID, reason string) error {
	return b.err
}

func newReviewService(t *testing.T, backend *stubReviewBackend) *ReviewService {
	t.Helper()
	return NewReviewService(backend, authedSession(t), NewNotificationService())
}

func TestApproveHappyPath(t *testing.T) {
	backend := &stubReviewBackend{}
	svc := newReviewService(t, backend)

	if err := svc.Approve(context.Background(), "c-1"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if backend.approveCalls != 1 {
		t.Fatalf("approve calls = %d, want 1", backend.approveCalls)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	backend := &stubReviewBackend{}
	svc := newReviewService(t, backend)

	if err := svc.Reject(context.Background(), "c-1", "   "); !errors.Is(err, domain.ErrEmptyReason) {
		t.Fatalf("Reject = %v, want ErrEmptyReason", err)
	}
	if err := svc.RequestChanges(context.Background(), "c-1", ""); !errors.Is(err, domain.ErrEmptyReason) {
		t.Fatalf("RequestChanges = %v, want ErrEmptyReason", err)
	}
	if backend.rejectCalls != 0 {
		t.Fatal("blank reason must not reach the backend")
	}
}

func TestReviewSerializesPerChange(t *testing.T) {
	backend := &stubReviewBackend{block: make(chan struct{})}
	svc := newReviewService(t, backend)

	done := make(chan error, 1)
	go func() {
		done <- svc.Approve(context.Background(), "c-1")
	}()

	// Wait until the first call holds the gate.
	deadline := time.Now().Add(2 * time.Second)
	for {
		svc.mu.Lock()
		entered := svc.inFlight["c-1"]
		svc.mu.Unlock()
		if entered {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first approve never took the in-flight gate")
		}
		time.Sleep(time.Millisecond)
	}

	if err := svc.Reject(context.Background(), "c-1", "duplicate listing"); !errors.Is(err, domain.ErrOperationInFlight) {
		t.Fatalf("overlapping mutation = %v, want ErrOperationInFlight", err)
	}

	// A different change id is unaffected by the gate.
	if err := svc.RequestChanges(context.Background(), "c-2", "photos missing"); err != nil {
		t.Fatalf("RequestChanges on other id: %v", err)
	}

	close(backend.block)
	if err := <-done; err != nil {
		t.Fatalf("Approve: %v", err)
	}

	// Gate released: the same id accepts a new operation again.
	if err := svc.Approve(context.Background(), "c-1"); err != nil {
		t.Fatalf("Approve after release: %v", err)
	}
}

func TestReviewRequiresAuth(t *testing.T) {
	session := NewSessionService(newStore(t))
	if err := session.Initialize(context.Background(), &stubSessionBackend{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	svc := NewReviewService(&stubReviewBackend{}, session, NewNotificationService())

	if _, err := svc.List(context.Background()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("List = %v, want ErrNotAuthenticated", err)
	}
	if err := svc.Approve(context.Background(), "c-1"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("Approve = %v, want ErrNotAuthenticated", err)
	}
}

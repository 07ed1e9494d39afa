package services

import (
	"context"
	"errors"
	"testing"

	"realhub-app/internal/adapters/gateway"
	"realhub-app/internal/core/domain"
)

type stubDraftBackend struct {
	createCalls int
	updateCalls int
	submitCalls int
	deleteCalls int

	createInfo *gateway.DraftInfo
	submitInfo *gateway.SubmitInfo
	err        error
}

func (b *stubDraftBackend) CreateDraft(ctx context.Context, role domain.Role, rtype domain.ResourceType, resourceID string, payload interface{}) (*gateway.DraftInfo, error) {
	b.createCalls++
	if b.err != nil {
		return nil, b.err
	}
	return b.createInfo, nil
}

func (b *stubDraftBackend) UpdateDraft(ctx context.Context, role domain.Role, draftID string, payload interface{}) error {
	b.updateCalls++
	return b.err
}

func (b *stubDraftBackend) SubmitDraft(ctx context.Context, role domain.Role, draftID string) (*gateway.SubmitInfo, error) {
	b.submitCalls++
	if b.err != nil {
		return nil, b.err
	}
	return b.submitInfo, nil
}

func (b *stubDraftBackend) DeleteDraft(ctx context.Context, role domain.Role, draftID string) error {
	b.deleteCalls++
	return b.err
}

func authedSession(t *testing.T) *SessionService {
	t.Helper()
	session := NewSessionService(newStore(t))
	if err := session.Initialize(context.Background(), &stubSessionBackend{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := session.SetAuth(activeUser(), "tok"); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}
	return session
}

func validProperty() domain.PropertyPayload {
	return domain.PropertyPayload{
		Title:      "Riverside Condo",
		Price:      4500000,
		Location:   "Bangkok",
		Bedrooms:   2,
		AreaSqm:    68,
		CategoryID: 1,
	}
}

func newDraftService(t *testing.T, backend *stubDraftBackend) *DraftService {
	t.Helper()
	return NewDraftService(backend, authedSession(t), NewNotificationService())
}

func TestCreateDraftNewResource(t *testing.T) {
	backend := &stubDraftBackend{createInfo: &gateway.DraftInfo{DraftID: "d-1", ResourceID: "p-1", Status: domain.StatusDraft}}
	svc := newDraftService(t, backend)

	id, err := svc.CreateDraft(context.Background(), domain.ResourceProperty, "", validProperty())
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if id != "p-1" {
		t.Fatalf("resource id = %q, want p-1 (backend allocates)", id)
	}

	state, err := svc.State(domain.ResourceProperty, "p-1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Edit.Phase != domain.EditDraft || state.Edit.DraftID != "d-1" {
		t.Fatalf("edit = %+v, want open draft d-1", state.Edit)
	}
	if state.Status != domain.StatusDraft {
		t.Fatalf("status = %s, want %s", state.Status, domain.StatusDraft)
	}
}

func TestCreateDraftGuardsOpenWork(t *testing.T) {
	backend := &stubDraftBackend{}
	svc := newDraftService(t, backend)

	svc.TrackProperty(domain.Property{
		ID:      "p-1",
		Status:  domain.StatusApproved,
		Payload: validProperty(),
		DraftID: "d-1",
	})

	_, err := svc.CreateDraft(context.Background(), domain.ResourceProperty, "p-1", validProperty())
	if !errors.Is(err, domain.ErrDraftAlreadyOpen) {
		t.Fatalf("CreateDraft = %v, want ErrDraftAlreadyOpen", err)
	}
	if backend.createCalls != 0 {
		t.Fatal("guarded create must not issue a backend call")
	}
}

func TestUpdateDraftRequiresOpenDraft(t *testing.T) {
	backend := &stubDraftBackend{}
	svc := newDraftService(t, backend)

	if err := svc.UpdateDraft(context.Background(), domain.ResourceProperty, "p-9", validProperty()); !errors.Is(err, domain.ErrNotTracked) {
		t.Fatalf("untracked update = %v, want ErrNotTracked", err)
	}

	svc.TrackProperty(domain.Property{ID: "p-1", Status: domain.StatusApproved, Payload: validProperty()})
	if err := svc.UpdateDraft(context.Background(), domain.ResourceProperty, "p-1", validProperty()); !errors.Is(err, domain.ErrNoDraft) {
		t.Fatalf("no-draft update = %v, want ErrNoDraft", err)
	}

	svc.TrackProperty(domain.Property{ID: "p-2", Status: domain.StatusPendingReview, Payload: validProperty(), DraftID: "d-2"})
	if err := svc.UpdateDraft(context.Background(), domain.ResourceProperty, "p-2", validProperty()); !errors.Is(err, domain.ErrDraftSubmitted) {
		t.Fatalf("submitted update = %v, want ErrDraftSubmitted", err)
	}

	if backend.updateCalls != 0 {
		t.Fatal("no guarded update should reach the backend")
	}
}

func TestSubmitValidatesBeforeNetwork(t *testing.T) {
	backend := &stubDraftBackend{submitInfo: &gateway.SubmitInfo{ChangeID: "c-1"}}
	svc := newDraftService(t, backend)

	invalid := validProperty()
	invalid.Title = ""
	invalid.Price = 0
	svc.TrackProperty(domain.Property{ID: "p-1", Status: domain.StatusApproved, Payload: invalid, DraftID: "d-1"})

	if err := svc.Submit(context.Background(), domain.ResourceProperty, "p-1"); err == nil {
		t.Fatal("invalid payload must fail submission")
	}
	if backend.submitCalls != 0 {
		t.Fatal("invalid payload must not issue a network call")
	}
}

func TestSubmitMovesDraftIntoReview(t *testing.T) {
	backend := &stubDraftBackend{submitInfo: &gateway.SubmitInfo{ChangeID: "c-1"}}
	svc := newDraftService(t, backend)

	svc.TrackProperty(domain.Property{ID: "p-1", Status: domain.StatusApproved, Payload: validProperty(), DraftID: "d-1"})
	if err := svc.Submit(context.Background(), domain.ResourceProperty, "p-1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	state, err := svc.State(domain.ResourceProperty, "p-1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Edit.Phase != domain.EditPendingReview || state.Edit.ChangeID != "c-1" {
		t.Fatalf("edit = %+v, want in-review change c-1", state.Edit)
	}
	if state.Status != domain.StatusPendingReview {
		t.Fatalf("status = %s, want %s", state.Status, domain.StatusPendingReview)
	}

	// Submitted drafts are read-only: a second submit is rejected locally.
	if err := svc.Submit(context.Background(), domain.ResourceProperty, "p-1"); !errors.Is(err, domain.ErrDraftSubmitted) {
		t.Fatalf("second Submit = %v, want ErrDraftSubmitted", err)
	}
	if backend.submitCalls != 1 {
		t.Fatalf("submit calls = %d, want 1", backend.submitCalls)
	}
}

func TestDiscardNewResourceForgetsIt(t *testing.T) {
	backend := &stubDraftBackend{createInfo: &gateway.DraftInfo{DraftID: "d-1", ResourceID: "p-1", Status: domain.StatusDraft}}
	svc := newDraftService(t, backend)

	if _, err := svc.CreateDraft(context.Background(), domain.ResourceProperty, "", validProperty()); err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if err := svc.Discard(context.Background(), domain.ResourceProperty, "p-1"); err != nil {
		t.Fatalf("Discard: %v", err)
	}

	if _, err := svc.State(domain.ResourceProperty, "p-1"); !errors.Is(err, domain.ErrNotTracked) {
		t.Fatalf("State after discard = %v, want ErrNotTracked", err)
	}
}

func TestDiscardEditRevertsToApproved(t *testing.T) {
	backend := &stubDraftBackend{createInfo: &gateway.DraftInfo{DraftID: "d-1", ResourceID: "p-1", Status: domain.StatusApproved}}
	svc := newDraftService(t, backend)

	svc.TrackProperty(domain.Property{ID: "p-1", Status: domain.StatusApproved, Payload: validProperty()})
	if _, err := svc.CreateDraft(context.Background(), domain.ResourceProperty, "p-1", validProperty()); err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if err := svc.Discard(context.Background(), domain.ResourceProperty, "p-1"); err != nil {
		t.Fatalf("Discard: %v", err)
	}

	state, err := svc.State(domain.ResourceProperty, "p-1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Edit.HasOpenWork() {
		t.Fatalf("edit = %+v, want no open work", state.Edit)
	}
	if state.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want %s", state.Status, domain.StatusApproved)
	}
}

func TestTrackCarriesReviewerReason(t *testing.T) {
	backend := &stubDraftBackend{submitInfo: &gateway.SubmitInfo{ChangeID: "c-2"}}
	svc := newDraftService(t, backend)

	// A request-changes disposition reopens the draft; the next list fetch
	// carries the reviewer's reason on the resource row.
	svc.TrackProperty(domain.Property{
		ID:      "p-1",
		Status:  domain.StatusNeedsRevision,
		Payload: validProperty(),
		DraftID: "d-1",
		Reason:  "photos missing",
	})

	state, err := svc.State(domain.ResourceProperty, "p-1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Status != domain.StatusNeedsRevision {
		t.Fatalf("status = %s, want %s", state.Status, domain.StatusNeedsRevision)
	}
	if state.Edit.Phase != domain.EditDraft {
		t.Fatalf("edit phase = %d, want reopened draft", state.Edit.Phase)
	}
	if state.Reason != "photos missing" {
		t.Fatalf("reason = %q, want the reviewer's comment", state.Reason)
	}

	// Resubmitting supersedes the note.
	if err := svc.Submit(context.Background(), domain.ResourceProperty, "p-1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	state, err = svc.State(domain.ResourceProperty, "p-1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Reason != "" {
		t.Fatalf("reason = %q, want cleared after resubmission", state.Reason)
	}
	if state.Status != domain.StatusPendingReview {
		t.Fatalf("status = %s, want %s", state.Status, domain.StatusPendingReview)
	}
}

func TestDraftOperationsRequireAuth(t *testing.T) {
	session := NewSessionService(newStore(t))
	if err := session.Initialize(context.Background(), &stubSessionBackend{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	svc := NewDraftService(&stubDraftBackend{}, session, NewNotificationService())

	if _, err := svc.CreateDraft(context.Background(), domain.ResourceProperty, "", validProperty()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("CreateDraft = %v, want ErrNotAuthenticated", err)
	}
}

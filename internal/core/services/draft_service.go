package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"realhub-app/internal/adapters/gateway"
	"realhub-app/internal/core/domain"
	"realhub-app/internal/pkg/validate"
)

// ============================================================
// Draft Lifecycle Controller
// NONE → DRAFT → PENDING_REVIEW → {APPROVED, NEEDS_REVISION}
// NEEDS_REVISION → DRAFT (resubmission), DRAFT → NONE (discard)
// ============================================================

// DraftBackend is the slice of the gateway the draft controller needs
type DraftBackend interface {
	CreateDraft(ctx context.Context, role domain.Role, rtype domain.ResourceType, resourceID string, payload interface{}) (*gateway.DraftInfo, error)
	UpdateDraft(ctx context.Context, role domain.Role, draftID string, payload interface{}) error
	SubmitDraft(ctx context.Context, role domain.Role, draftID string) (*gateway.SubmitInfo, error)
	DeleteDraft(ctx context.Context, role domain.Role, draftID string) error
}

// resourceKey identifies one tracked editable resource
type resourceKey struct {
	Type domain.ResourceType
	ID   string
}

// resourceEntry is the controller's view of one resource. The fetching list
// view owns the instance; there is no shared cache across views.
type resourceEntry struct {
	status   domain.ResourceStatus
	edit     domain.EditState
	approved interface{} // last approved payload
	draft    interface{} // working payload while a draft is open
	reason   string      // reviewer comment after request-changes
	inFlight bool        // one mutation per resource id at a time
}

// ResourceState is the externally visible state of a tracked resource
type ResourceState struct {
	Status domain.ResourceStatus
	Edit   domain.EditState
	Reason string
}

// DraftService manages the create → edit → submit → disposition cycle for
// editable resources. Local state changes only after the backend confirms:
// first-writer-wins between racing proposers is enforced server-side and the
// client surfaces the rejection instead of overwriting.
type DraftService struct {
	mu      sync.Mutex
	backend DraftBackend
	session *SessionService
	notify  *NotificationService
	states  map[resourceKey]*resourceEntry
}

// NewDraftService creates a draft lifecycle controller
func NewDraftService(backend DraftBackend, session *SessionService, notify *NotificationService) *DraftService {
	return &DraftService{
		backend: backend,
		session: session,
		notify:  notify,
		states:  make(map[resourceKey]*resourceEntry),
	}
}

// TrackProperty registers a fetched property with the controller. The fetch
// is the source of truth at call time; tracking replaces any prior state.
func (s *DraftService) TrackProperty(p domain.Property) {
	s.track(resourceKey{Type: domain.ResourceProperty, ID: p.ID}, p.Status, p.DraftID, p.Payload, p.Reason)
}

// TrackBanner registers a fetched banner with the controller
func (s *DraftService) TrackBanner(b domain.Banner) {
	s.track(resourceKey{Type: domain.ResourceBanner, ID: b.ID}, b.Status, b.DraftID, b.Payload, b.Reason)
}

func (s *DraftService) track(key resourceKey, status domain.ResourceStatus, draftID string, payload interface{}, reason string) {
	edit := domain.NoDraft()
	switch {
	case draftID != "" && status == domain.StatusPendingReview:
		edit = domain.InReview(draftID, "")
	case draftID != "":
		edit = domain.DraftOpen(draftID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = &resourceEntry{
		status:   status,
		edit:     edit,
		approved: payload,
		draft:    payload,
		reason:   reason,
	}
}

// State returns the current state of a tracked resource
func (s *DraftService) State(rtype domain.ResourceType, id string) (ResourceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.states[resourceKey{Type: rtype, ID: id}]
	if !ok {
		return ResourceState{}, domain.ErrNotTracked
	}
	return ResourceState{Status: ent.status, Edit: ent.edit, Reason: ent.reason}, nil
}

// CreateDraft opens a draft for a brand new resource (empty resourceID) or
// an edit of a tracked, approved one. At most one open draft or pending
// change per resource.
func (s *DraftService) CreateDraft(ctx context.Context, rtype domain.ResourceType, resourceID string, payload interface{}) (string, error) {
	snap, err := requireAuth(s.session)
	if err != nil {
		return "", err
	}

	var key resourceKey
	if resourceID != "" {
		key = resourceKey{Type: rtype, ID: resourceID}
		ent, err := s.begin(key)
		if err != nil {
			return "", err
		}
		defer s.end(key)

		if ent.edit.HasOpenWork() {
			return "", domain.ErrDraftAlreadyOpen
		}
	}

	info, err := s.backend.CreateDraft(ctx, snap.User.Role, rtype, resourceID, payload)
	if err != nil {
		return "", handleRemoteError(s.session, s.notify, "create draft", err)
	}

	s.mu.Lock()
	if resourceID == "" {
		// Brand new resource: the backend allocated its id.
		key = resourceKey{Type: rtype, ID: info.ResourceID}
		s.states[key] = &resourceEntry{
			status: domain.StatusDraft,
			edit:   domain.DraftOpen(info.DraftID),
			draft:  payload,
		}
	} else {
		ent := s.states[key]
		ent.edit = domain.DraftOpen(info.DraftID)
		ent.draft = payload
		ent.reason = ""
	}
	s.mu.Unlock()

	s.notify.Success("Draft created")
	log.Printf("✅ Draft %s opened for %s %s", info.DraftID, rtype, info.ResourceID)
	return info.ResourceID, nil
}

// UpdateDraft replaces the working payload of an open draft. No status
// change; a submitted draft is read-only to the proposer.
func (s *DraftService) UpdateDraft(ctx context.Context, rtype domain.ResourceType, resourceID string, payload interface{}) error {
	snap, err := requireAuth(s.session)
	if err != nil {
		return err
	}

	key := resourceKey{Type: rtype, ID: resourceID}
	ent, err := s.begin(key)
	if err != nil {
		return err
	}
	defer s.end(key)

	switch ent.edit.Phase {
	case domain.EditNone:
		return domain.ErrNoDraft
	case domain.EditPendingReview:
		return domain.ErrDraftSubmitted
	}

	if err := s.backend.UpdateDraft(ctx, snap.User.Role, ent.edit.DraftID, payload); err != nil {
		return handleRemoteError(s.session, s.notify, "update draft", err)
	}

	s.mu.Lock()
	ent.draft = payload
	s.mu.Unlock()
	return nil
}

// Submit sends an open draft to review. Client-side schema validation runs
// first; an invalid payload never issues a network call.
func (s *DraftService) Submit(ctx context.Context, rtype domain.ResourceType, resourceID string) error {
	snap, err := requireAuth(s.session)
	if err != nil {
		return err
	}

	key := resourceKey{Type: rtype, ID: resourceID}
	ent, err := s.begin(key)
	if err != nil {
		return err
	}
	defer s.end(key)

	switch ent.edit.Phase {
	case domain.EditNone:
		return domain.ErrNoDraft
	case domain.EditPendingReview:
		return domain.ErrDraftSubmitted
	}

	if err := validatePayload(rtype, ent.draft); err != nil {
		return err
	}

	info, err := s.backend.SubmitDraft(ctx, snap.User.Role, ent.edit.DraftID)
	if err != nil {
		return handleRemoteError(s.session, s.notify, "submit draft", err)
	}

	s.mu.Lock()
	ent.edit = domain.InReview(ent.edit.DraftID, info.ChangeID)
	ent.status = domain.StatusPendingReview
	ent.reason = ""
	s.mu.Unlock()

	s.notify.Success("Draft submitted for review")
	log.Printf("✅ Draft submitted for %s %s (change %s)", rtype, resourceID, info.ChangeID)
	return nil
}

// Discard drops an unsubmitted draft. The resource reverts to its prior
// approved payload, or disappears entirely if it never had one.
func (s *DraftService) Discard(ctx context.Context, rtype domain.ResourceType, resourceID string) error {
	snap, err := requireAuth(s.session)
	if err != nil {
		return err
	}

	key := resourceKey{Type: rtype, ID: resourceID}
	ent, err := s.begin(key)
	if err != nil {
		return err
	}
	defer s.end(key)

	switch ent.edit.Phase {
	case domain.EditNone:
		return domain.ErrNoDraft
	case domain.EditPendingReview:
		return domain.ErrDraftSubmitted
	}

	if err := s.backend.DeleteDraft(ctx, snap.User.Role, ent.edit.DraftID); err != nil {
		return handleRemoteError(s.session, s.notify, "discard draft", err)
	}

	s.mu.Lock()
	if ent.approved == nil {
		delete(s.states, key)
	} else {
		ent.edit = domain.NoDraft()
		ent.draft = ent.approved
		ent.status = domain.StatusApproved
		ent.reason = ""
	}
	s.mu.Unlock()

	s.notify.Info("Draft discarded")
	return nil
}

// begin takes the per-resource in-flight gate. Mutations on the same
// resource id are never pipelined; across different ids there is no gate.
func (s *DraftService) begin(key resourceKey) (*resourceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.states[key]
	if !ok {
		return nil, domain.ErrNotTracked
	}
	if ent.inFlight {
		return nil, domain.ErrOperationInFlight
	}
	ent.inFlight = true
	return ent, nil
}

func (s *DraftService) end(key resourceKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ent, ok := s.states[key]; ok {
		ent.inFlight = false
	}
}

// validatePayload runs the client-side schema check for a resource family
func validatePayload(rtype domain.ResourceType, payload interface{}) error {
	switch p := payload.(type) {
	case domain.PropertyPayload:
		return validate.Property(p)
	case domain.BannerPayload:
		return validate.Banner(p)
	default:
		return fmt.Errorf("unsupported payload type for %s", rtype)
	}
}

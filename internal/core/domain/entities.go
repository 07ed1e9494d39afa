package domain

import (
	"time"
)

// ============================================================
// Roles & Account Status
// ============================================================

// Role represents a platform role
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAgent    Role = "AGENT"
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

// PathSegment returns the role as used in backend route paths
func (r Role) PathSegment() string {
	switch r {
	case RoleAgent:
		return "agent"
	case RoleEmployee:
		return "employee"
	case RoleAdmin:
		return "admin"
	default:
		return "customer"
	}
}

// AccountStatus is the tagged account state computed once at session refresh,
// replacing ad-hoc combinations of the backend's boolean flags.
type AccountStatus string

const (
	AccountActive            AccountStatus = "ACTIVE"
	AccountPendingApproval   AccountStatus = "PENDING_APPROVAL"
	AccountProfileIncomplete AccountStatus = "PROFILE_INCOMPLETE"
	AccountSuspended         AccountStatus = "SUSPENDED"
	AccountDeleted           AccountStatus = "DELETED"
)

// User is the client-side projection of the authenticated account
type User struct {
	ID               uint   `json:"id"`
	Phone            string `json:"phone"`
	FullName         string `json:"full_name"`
	Role             Role   `json:"role"`
	Approved         bool   `json:"approved"`
	ProfileCompleted bool   `json:"profile_completed"`
	IsActive         bool   `json:"is_active"`
	Deleted          bool   `json:"deleted"`
}

// Status computes the account status variant. Deleted always wins.
func (u *User) Status() AccountStatus {
	switch {
	case u.Deleted:
		return AccountDeleted
	case !u.IsActive:
		return AccountSuspended
	case !u.ProfileCompleted:
		return AccountProfileIncomplete
	case u.Role == RoleAgent && !u.Approved:
		return AccountPendingApproval
	default:
		return AccountActive
	}
}

// ============================================================
// Editable resources (properties & banners)
// ============================================================

// ResourceType identifies an editable resource family
type ResourceType string

const (
	ResourceProperty ResourceType = "property"
	ResourceBanner   ResourceType = "banner"
)

// ResourceStatus is the published lifecycle state of an editable resource
type ResourceStatus string

const (
	StatusDraft         ResourceStatus = "draft"
	StatusPendingReview ResourceStatus = "pending_review"
	StatusApproved      ResourceStatus = "approved"
	StatusNeedsRevision ResourceStatus = "needs_revision"
)

// EditPhase tags the EditState variant
type EditPhase int

const (
	EditNone EditPhase = iota
	EditDraft
	EditPendingReview
)

// EditState models the per-resource draft pointer as a proper variant:
// NoDraft | Draft(draftID) | PendingReview(draftID, changeID).
// At most one open draft or pending change exists per resource.
type EditState struct {
	Phase    EditPhase
	DraftID  string
	ChangeID string
}

// NoDraft returns the empty edit state
func NoDraft() EditState {
	return EditState{Phase: EditNone}
}

// DraftOpen returns the state of an open, editable draft
func DraftOpen(draftID string) EditState {
	return EditState{Phase: EditDraft, DraftID: draftID}
}

// InReview returns the state of a submitted draft awaiting disposition
func InReview(draftID, changeID string) EditState {
	return EditState{Phase: EditPendingReview, DraftID: draftID, ChangeID: changeID}
}

// HasOpenWork reports whether a draft or pending change is open
func (e EditState) HasOpenWork() bool {
	return e.Phase != EditNone
}

// PropertyPayload holds the editable fields of a property listing
type PropertyPayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	Bedrooms    int     `json:"bedrooms"`
	AreaSqm     float64 `json:"area_sqm"`
	CategoryID  uint    `json:"category_id"`
}

// BannerPayload holds the editable fields of a marketing banner
type BannerPayload struct {
	Title     string     `json:"title"`
	ImageURL  string     `json:"image_url"`
	TargetURL string     `json:"target_url"`
	Position  int        `json:"position"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
}

// Property represents a property listing as fetched by a list view.
// Reason carries the reviewer's comment while the row needs revision.
type Property struct {
	ID      string          `json:"id"`
	OwnerID uint            `json:"owner_id"`
	Status  ResourceStatus  `json:"status"`
	Payload PropertyPayload `json:"payload"`
	DraftID string          `json:"draft_id,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

// Banner represents a marketing banner as fetched by a list view
type Banner struct {
	ID      string         `json:"id"`
	OwnerID uint           `json:"owner_id"`
	Status  ResourceStatus `json:"status"`
	Payload BannerPayload  `json:"payload"`
	DraftID string         `json:"draft_id,omitempty"`
	Reason  string         `json:"reason,omitempty"`
}

// Category is a property category master record
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ============================================================
// Pending changes (admin review queue)
// ============================================================

// PendingStatus is the disposition state of a submitted draft
type PendingStatus string

const (
	PendingOpen             PendingStatus = "pending"
	PendingApproved         PendingStatus = "approved"
	PendingRejected         PendingStatus = "rejected"
	PendingChangesRequested PendingStatus = "changes_requested"
)

// PendingChange is the admin-side view of a submitted draft.
// ChangeID is stable across its single terminal transition.
type PendingChange struct {
	ChangeID    string        `json:"change_id"`
	Type        ResourceType  `json:"type"`
	ResourceID  string        `json:"resource_id"`
	ProposerID  uint          `json:"proposer_id"`
	Status      PendingStatus `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

// ============================================================
// Loan requests (triage)
// ============================================================

// LoanComment is one entry in a loan request's append-only comment trail
type LoanComment struct {
	ID        string    `json:"id"`
	AuthorID  uint      `json:"author_id"`
	Text      string    `json:"text"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

// LoanRequest is a loan request as fetched by a triage list view.
// Status and SLAState are backend-owned tokens, opaque to the client.
type LoanRequest struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	AssigneeID *uint         `json:"assignee_id"`
	Priority   int           `json:"priority"`
	SLAState   string        `json:"sla_state"`
	Comments   []LoanComment `json:"comments"`
}

// BulkOutcome is the per-id result of a bulk triage operation.
// Bulk operations are not atomic; every requested id gets exactly one entry.
type BulkOutcome struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

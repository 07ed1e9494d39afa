package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Accounts
// ============================================================

// User represents the users table
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Phone            string    `gorm:"uniqueIndex;size:20" json:"phone"`
	Username         string    `gorm:"index;size:50" json:"username"`
	Password         string    `gorm:"size:255" json:"-"`
	FullName         string    `gorm:"size:100" json:"full_name"`
	Email            string    `gorm:"size:100" json:"email"`
	Address          string    `gorm:"size:255" json:"address"`
	Role             string    `gorm:"size:20;default:'CUSTOMER'" json:"role"`
	Approved         bool      `gorm:"default:false" json:"approved"`
	ProfileCompleted bool      `gorm:"default:false" json:"profile_completed"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	Deleted          bool      `gorm:"default:false" json:"deleted"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse is the client-facing user projection
type UserResponse struct {
	ID               uint   `json:"id"`
	Phone            string `json:"phone"`
	FullName         string `json:"full_name"`
	Role             string `json:"role"`
	Approved         bool   `json:"approved"`
	ProfileCompleted bool   `json:"profile_completed"`
	IsActive         bool   `json:"is_active"`
	Deleted          bool   `json:"deleted"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Phone:            u.Phone,
		FullName:         u.FullName,
		Role:             u.Role,
		Approved:         u.Approved,
		ProfileCompleted: u.ProfileCompleted,
		IsActive:         u.IsActive,
		Deleted:          u.Deleted,
	}
}

// Category is a property category master record
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

// ============================================================
// Editable resources & drafts
// ============================================================

// Property represents a property listing
type Property struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     uint      `gorm:"index" json:"owner_id"`
	Status      string    `gorm:"size:20;index" json:"status"`
	Title       string    `gorm:"size:200" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `json:"price"`
	Location    string    `gorm:"size:200" json:"location"`
	Bedrooms    int       `json:"bedrooms"`
	AreaSqm     float64   `json:"area_sqm"`
	CategoryID  uint      `json:"category_id"`
	DraftID     string    `gorm:"size:36;index" json:"draft_id"`
	ReviewNote  string    `gorm:"type:text" json:"review_note"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// Banner represents a marketing banner
type Banner struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID    uint       `gorm:"index" json:"owner_id"`
	Status     string     `gorm:"size:20;index" json:"status"`
	Title      string     `gorm:"size:200" json:"title"`
	ImageURL   string     `gorm:"size:500" json:"image_url"`
	TargetURL  string     `gorm:"size:500" json:"target_url"`
	Position   int        `json:"position"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
	DraftID    string     `gorm:"size:36;index" json:"draft_id"`
	ReviewNote string     `gorm:"type:text" json:"review_note"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Banner) TableName() string {
	return "banners"
}

// Draft statuses
const (
	DraftOpen      = "open"
	DraftSubmitted = "submitted"
)

// Draft is a working copy of a resource. At most one open draft per resource
// (enforced on create).
type Draft struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	ResourceType string    `gorm:"size:20;index" json:"resource_type"`
	ResourceID   string    `gorm:"size:36;index" json:"resource_id"`
	ProposerID   uint      `gorm:"index" json:"proposer_id"`
	Payload      string    `gorm:"type:json" json:"payload"`
	Status       string    `gorm:"size:20" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Draft) TableName() string {
	return "drafts"
}

// Pending change statuses
const (
	PendingOpen             = "pending"
	PendingApproved         = "approved"
	PendingRejected         = "rejected"
	PendingChangesRequested = "changes_requested"
)

// PendingChange is a submitted draft awaiting admin disposition. Exactly one
// terminal transition per change id.
type PendingChange struct {
	ChangeID    string     `gorm:"primaryKey;size:36" json:"change_id"`
	DraftID     string     `gorm:"size:36;uniqueIndex" json:"draft_id"`
	Type        string     `gorm:"size:20" json:"type"`
	ResourceID  string     `gorm:"size:36;index" json:"resource_id"`
	ProposerID  uint       `gorm:"index" json:"proposer_id"`
	Status      string     `gorm:"size:30;index" json:"status"`
	Reason      string     `gorm:"type:text" json:"reason"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

func (PendingChange) TableName() string {
	return "pending_changes"
}

// ============================================================
// Loan requests
// ============================================================

// SLA states computed by the sweep job
const (
	SLAOk       = "OK"
	SLAWarning  = "WARNING"
	SLABreached = "BREACHED"
)

// LoanRequest represents a mortgage pre-approval request
type LoanRequest struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	MemberName  string     `gorm:"size:100" json:"member_name"`
	Amount      float64    `json:"amount"`
	Status      string     `gorm:"size:30;index" json:"status"`
	AssigneeID  *uint      `gorm:"index" json:"assignee_id"`
	Priority    int        `json:"priority"`
	SLAState    string     `gorm:"size:20" json:"sla_state"`
	EscalatedAt *time.Time `json:"escalated_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Comments []LoanComment `gorm:"foreignKey:LoanRequestID" json:"comments"`
}

func (LoanRequest) TableName() string {
	return "loan_requests"
}

// LoanComment is one entry in a loan request's append-only trail
type LoanComment struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	LoanRequestID string    `gorm:"size:36;index" json:"loan_request_id"`
	AuthorID      uint      `json:"author_id"`
	Text          string    `gorm:"type:text" json:"text"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LoanComment) TableName() string {
	return "loan_comments"
}

// AutoMigrate creates all devserver tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&Property{},
		&Banner{},
		&Draft{},
		&PendingChange{},
		&LoanRequest{},
		&LoanComment{},
	)
}

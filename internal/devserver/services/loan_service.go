package services

import (
	"errors"
	"log"
	"time"

	"realhub-app/internal/devserver/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loan triage errors
var (
	ErrLoanNotFound       = errors.New("loan request not found")
	ErrNoAgentAvailable   = errors.New("no eligible agent available")
	ErrAssigneeAmbiguous  = errors.New("provide either assignee_id or auto_assign, not both")
	ErrAssigneeMissing    = errors.New("assignee_id or auto_assign is required")
	ErrAssigneeIneligible = errors.New("assignee is not an approved active agent")
	ErrAlreadyEscalated   = errors.New("loan request already escalated")
	ErrCommentRequired    = errors.New("comment text is required")
)

// BulkItem is one per-id result of a bulk operation
type BulkItem struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// LoanService implements admin loan-request triage
type LoanService struct {
	db *gorm.DB
}

// NewLoanService creates a loan triage service
func NewLoanService(db *gorm.DB) *LoanService {
	return &LoanService{db: db}
}

// List returns loan requests, optionally filtered by status
func (s *LoanService) List(status string) ([]models.LoanRequest, error) {
	var rows []models.LoanRequest
	q := s.db.Preload("Comments").Order("priority DESC, created_at ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return rows, q.Find(&rows).Error
}

// Reassign moves a request to an explicit agent or, with autoAssign, to the
// least loaded eligible one. Exactly one of the two modes must be chosen.
func (s *LoanService) Reassign(id string, assigneeID *uint, autoAssign bool) (*models.LoanRequest, error) {
	// 1. Validate the mode
	if assigneeID != nil && autoAssign {
		return nil, ErrAssigneeAmbiguous
	}
	if assigneeID == nil && !autoAssign {
		return nil, ErrAssigneeMissing
	}

	// 2. Load the request
	var loan models.LoanRequest
	if err := s.db.First(&loan, "id = ?", id).Error; err != nil {
		return nil, ErrLoanNotFound
	}

	// 3. Resolve the target agent
	var target uint
	if autoAssign {
		agent, err := s.leastLoadedAgent()
		if err != nil {
			return nil, err
		}
		target = agent
	} else {
		if err := s.checkAgent(*assigneeID); err != nil {
			return nil, err
		}
		target = *assigneeID
	}

	// 4. Apply
	if err := s.db.Model(&loan).Updates(map[string]interface{}{
		"assignee_id": target,
		"status":      "assigned",
	}).Error; err != nil {
		return nil, err
	}

	log.Printf("✅ Loan %s reassigned to agent %d", id, target)
	loan.AssigneeID = &target
	loan.Status = "assigned"
	return &loan, nil
}

// Escalate flags a request with a mandatory reason recorded as an internal
// comment. Escalation is one-way.
func (s *LoanService) Escalate(id string, adminID uint, reason string) (*models.LoanRequest, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var loan models.LoanRequest
	if err := s.db.First(&loan, "id = ?", id).Error; err != nil {
		return nil, ErrLoanNotFound
	}
	if loan.EscalatedAt != nil {
		return nil, ErrAlreadyEscalated
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&loan).Updates(map[string]interface{}{
			"status":       "escalated",
			"escalated_at": now,
			"priority":     loan.Priority + 1,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.LoanComment{
			ID:            uuid.New().String(),
			LoanRequestID: loan.ID,
			AuthorID:      adminID,
			Text:          "Escalated: " + reason,
			IsPublic:      false,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("⚠️ Loan %s escalated: %s", id, reason)
	loan.Status = "escalated"
	loan.EscalatedAt = &now
	return &loan, nil
}

// AddComment appends to a request's comment trail
func (s *LoanService) AddComment(id string, authorID uint, text string, public bool) (*models.LoanComment, error) {
	if text == "" {
		return nil, ErrCommentRequired
	}

	var loan models.LoanRequest
	if err := s.db.First(&loan, "id = ?", id).Error; err != nil {
		return nil, ErrLoanNotFound
	}

	comment := &models.LoanComment{
		ID:            uuid.New().String(),
		LoanRequestID: loan.ID,
		AuthorID:      authorID,
		Text:          text,
		IsPublic:      public,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// BulkReassign applies Reassign to each id independently. Every requested id
// gets exactly one outcome; one failure never aborts the rest.
func (s *LoanService) BulkReassign(ids []string, assigneeID *uint, autoAssign bool) []BulkItem {
	items := make([]BulkItem, 0, len(ids))
	for _, id := range ids {
		if _, err := s.Reassign(id, assigneeID, autoAssign); err != nil {
			items = append(items, BulkItem{ID: id, OK: false, Error: err.Error()})
			continue
		}
		items = append(items, BulkItem{ID: id, OK: true})
	}
	return items
}

// BulkEscalate applies Escalate to each id independently
func (s *LoanService) BulkEscalate(ids []string, adminID uint, reason string) []BulkItem {
	items := make([]BulkItem, 0, len(ids))
	for _, id := range ids {
		if _, err := s.Escalate(id, adminID, reason); err != nil {
			items = append(items, BulkItem{ID: id, OK: false, Error: err.Error()})
			continue
		}
		items = append(items, BulkItem{ID: id, OK: true})
	}
	return items
}

// ============================================================
// Agent selection
// ============================================================

func (s *LoanService) checkAgent(id uint) error {
	var agent models.User
	if err := s.db.First(&agent, id).Error; err != nil {
		return ErrAssigneeIneligible
	}
	if agent.Role != "AGENT" || !agent.Approved || !agent.IsActive || agent.Deleted {
		return ErrAssigneeIneligible
	}
	return nil
}

// leastLoadedAgent picks the eligible agent with the fewest open assignments
func (s *LoanService) leastLoadedAgent() (uint, error) {
	var agents []models.User
	err := s.db.Where("role = ? AND approved = ? AND is_active = ? AND deleted = ?",
		"AGENT", true, true, false).Find(&agents).Error
	if err != nil || len(agents) == 0 {
		return 0, ErrNoAgentAvailable
	}

	best := agents[0].ID
	bestLoad := int64(-1)
	for _, agent := range agents {
		var load int64
		s.db.Model(&models.LoanRequest{}).
			Where("assignee_id = ? AND status NOT IN ?", agent.ID, []string{"closed", "rejected"}).
			Count(&load)
		if bestLoad < 0 || load < bestLoad {
			best = agent.ID
			bestLoad = load
		}
	}
	return best, nil
}

package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"realhub-app/internal/devserver/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Draft errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrDraftNotFound    = errors.New("draft not found")
	ErrDraftConflict    = errors.New("resource already has an open draft or pending change")
	ErrDraftReadOnly    = errors.New("draft already submitted")
	ErrNotProposer      = errors.New("draft belongs to another user")
	ErrChangeNotFound   = errors.New("pending change not found")
	ErrChangeResolved   = errors.New("pending change already resolved")
	ErrReasonRequired   = errors.New("reason is required")
	ErrBadResourceType  = errors.New("unknown resource type")
)

// DraftService implements the draft → pending-change lifecycle
type DraftService struct {
	db *gorm.DB
}

// NewDraftService creates a draft lifecycle service
func NewDraftService(db *gorm.DB) *DraftService {
	return &DraftService{db: db}
}

// ============================================================
// Proposer side
// ============================================================

// CreateDraft allocates a draft. An empty resourceID starts a brand new
// resource; otherwise it opens an edit of an existing one. At most one open
// draft or pending change per resource.
func (s *DraftService) CreateDraft(rtype, resourceID string, proposerID uint, payload string) (*models.Draft, string, error) {
	if rtype != "property" && rtype != "banner" {
		return nil, "", ErrBadResourceType
	}

	// 1. Resolve or allocate the resource
	isNew := resourceID == ""
	if isNew {
		resourceID = uuid.New().String()
	} else {
		draftID, err := s.resourceDraftID(rtype, resourceID)
		if err != nil {
			return nil, "", err
		}
		if draftID != "" {
			return nil, "", ErrDraftConflict
		}
	}

	// 2. Create the draft record
	draft := &models.Draft{
		ID:           uuid.New().String(),
		ResourceType: rtype,
		ResourceID:   resourceID,
		ProposerID:   proposerID,
		Payload:      payload,
		Status:       models.DraftOpen,
	}
	if err := s.db.Create(draft).Error; err != nil {
		return nil, "", err
	}

	// 3. Attach to the resource (creating the row for a new one)
	if isNew {
		if err := s.createResourceRow(rtype, resourceID, proposerID, draft.ID); err != nil {
			return nil, "", err
		}
	} else if err := s.setResourceDraft(rtype, resourceID, draft.ID); err != nil {
		return nil, "", err
	}

	log.Printf("✅ Draft %s opened for %s %s (proposer %d)", draft.ID, rtype, resourceID, proposerID)
	return draft, resourceID, nil
}

// UpdateDraft replaces an open draft's payload
func (s *DraftService) UpdateDraft(draftID string, proposerID uint, payload string) error {
	draft, err := s.openDraft(draftID, proposerID)
	if err != nil {
		return err
	}

	return s.db.Model(draft).Update("payload", payload).Error
}

// SubmitDraft moves a draft into review and allocates its change id
func (s *DraftService) SubmitDraft(draftID string, proposerID uint) (*models.PendingChange, error) {
	draft, err := s.openDraft(draftID, proposerID)
	if err != nil {
		return nil, err
	}

	change := &models.PendingChange{
		ChangeID:    uuid.New().String(),
		DraftID:     draft.ID,
		Type:        draft.ResourceType,
		ResourceID:  draft.ResourceID,
		ProposerID:  draft.ProposerID,
		Status:      models.PendingOpen,
		SubmittedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(draft).Update("status", models.DraftSubmitted).Error; err != nil {
			return err
		}
		if err := tx.Create(change).Error; err != nil {
			return err
		}
		// A resubmission supersedes any earlier reviewer note.
		return table(tx, draft.ResourceType).Where("id = ?", draft.ResourceID).Updates(map[string]interface{}{
			"status":      "pending_review",
			"review_note": "",
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Draft %s submitted (change %s)", draft.ID, change.ChangeID)
	return change, nil
}

// DeleteDraft discards an unsubmitted draft. A never-approved resource row
// disappears with it.
func (s *DraftService) DeleteDraft(draftID string, proposerID uint) error {
	draft, err := s.openDraft(draftID, proposerID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(draft).Error; err != nil {
			return err
		}
		return s.detachDraft(tx, draft, "")
	})
}

// ResourceStatus reports a resource's current published status
func (s *DraftService) ResourceStatus(rtype, resourceID string) (string, error) {
	var status string
	err := table(s.db, rtype).Where("id = ?", resourceID).Pluck("status", &status).Error
	return status, err
}

// ListProperties returns all properties for admins and the caller's own
// rows otherwise
func (s *DraftService) ListProperties(userID uint, all bool) ([]models.Property, error) {
	var rows []models.Property
	q := s.db.Order("created_at DESC")
	if !all {
		q = q.Where("owner_id = ?", userID)
	}
	return rows, q.Find(&rows).Error
}

// ListBanners mirrors ListProperties for the banner family
func (s *DraftService) ListBanners(userID uint, all bool) ([]models.Banner, error) {
	var rows []models.Banner
	q := s.db.Order("position ASC, created_at DESC")
	if !all {
		q = q.Where("owner_id = ?", userID)
	}
	return rows, q.Find(&rows).Error
}

// ============================================================
// Admin side
// ============================================================

// ListPendingChanges returns the open review queue
func (s *DraftService) ListPendingChanges() ([]models.PendingChange, error) {
	var changes []models.PendingChange
	err := s.db.Where("status = ?", models.PendingOpen).Order("submitted_at ASC").Find(&changes).Error
	return changes, err
}

// Approve merges the draft payload into the resource. The draft and the
// pending change are consumed; the change id keeps its terminal state.
func (s *DraftService) Approve(changeID string) error {
	change, err := s.openChange(changeID)
	if err != nil {
		return err
	}

	var draft models.Draft
	if err := s.db.First(&draft, "id = ?", change.DraftID).Error; err != nil {
		return ErrDraftNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.applyPayload(tx, change.Type, change.ResourceID, draft.Payload); err != nil {
			return err
		}
		if err := tx.Delete(&draft).Error; err != nil {
			return err
		}
		return s.resolveChange(tx, change, models.PendingApproved, "")
	})
	if err != nil {
		return err
	}

	log.Printf("✅ Change %s approved (%s %s)", changeID, change.Type, change.ResourceID)
	return nil
}

// Reject discards the submitted draft with a reason. The approved resource
// payload is unaffected; a never-approved resource row is removed.
func (s *DraftService) Reject(changeID, reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}
	change, err := s.openChange(changeID)
	if err != nil {
		return err
	}

	var draft models.Draft
	if err := s.db.First(&draft, "id = ?", change.DraftID).Error; err != nil {
		return ErrDraftNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&draft).Error; err != nil {
			return err
		}
		if err := s.detachDraft(tx, &draft, ""); err != nil {
			return err
		}
		return s.resolveChange(tx, change, models.PendingRejected, reason)
	})
	if err != nil {
		return err
	}

	log.Printf("🛑 Change %s rejected: %s", changeID, reason)
	return nil
}

// RequestChanges reopens the draft for the proposer with a reason attached
func (s *DraftService) RequestChanges(changeID, reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}
	change, err := s.openChange(changeID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Draft{}).Where("id = ?", change.DraftID).
			Update("status", models.DraftOpen).Error; err != nil {
			return err
		}
		// The reason rides on the resource row so the proposer's next
		// list fetch carries it.
		if err := table(tx, change.Type).Where("id = ?", change.ResourceID).Updates(map[string]interface{}{
			"status":      "needs_revision",
			"review_note": reason,
		}).Error; err != nil {
			return err
		}
		return s.resolveChange(tx, change, models.PendingChangesRequested, reason)
	})
	if err != nil {
		return err
	}

	log.Printf("📝 Changes requested on %s: %s", changeID, reason)
	return nil
}

// ============================================================
// Helpers
// ============================================================

func (s *DraftService) openDraft(draftID string, proposerID uint) (*models.Draft, error) {
	var draft models.Draft
	if err := s.db.First(&draft, "id = ?", draftID).Error; err != nil {
		return nil, ErrDraftNotFound
	}
	if draft.ProposerID != proposerID {
		return nil, ErrNotProposer
	}
	if draft.Status != models.DraftOpen {
		return nil, ErrDraftReadOnly
	}
	return &draft, nil
}

func (s *DraftService) openChange(changeID string) (*models.PendingChange, error) {
	var change models.PendingChange
	if err := s.db.First(&change, "change_id = ?", changeID).Error; err != nil {
		return nil, ErrChangeNotFound
	}
	if change.Status != models.PendingOpen {
		return nil, ErrChangeResolved
	}
	return &change, nil
}

func (s *DraftService) resolveChange(tx *gorm.DB, change *models.PendingChange, status, reason string) error {
	now := time.Now()
	return tx.Model(change).Updates(map[string]interface{}{
		"status":      status,
		"reason":      reason,
		"resolved_at": now,
	}).Error
}

func (s *DraftService) createResourceRow(rtype, resourceID string, ownerID uint, draftID string) error {
	switch rtype {
	case "property":
		return s.db.Create(&models.Property{ID: resourceID, OwnerID: ownerID, Status: "draft", DraftID: draftID}).Error
	case "banner":
		return s.db.Create(&models.Banner{ID: resourceID, OwnerID: ownerID, Status: "draft", DraftID: draftID}).Error
	}
	return ErrBadResourceType
}

func (s *DraftService) resourceDraftID(rtype, resourceID string) (string, error) {
	switch rtype {
	case "property":
		var p models.Property
		if err := s.db.First(&p, "id = ?", resourceID).Error; err != nil {
			return "", ErrResourceNotFound
		}
		return p.DraftID, nil
	case "banner":
		var b models.Banner
		if err := s.db.First(&b, "id = ?", resourceID).Error; err != nil {
			return "", ErrResourceNotFound
		}
		return b.DraftID, nil
	}
	return "", ErrBadResourceType
}

func (s *DraftService) setResourceDraft(rtype, resourceID, draftID string) error {
	return table(s.db, rtype).Where("id = ?", resourceID).Update("draft_id", draftID).Error
}

// detachDraft clears the resource's draft pointer. A row that was never
// approved (still in draft status) is removed outright.
func (s *DraftService) detachDraft(tx *gorm.DB, draft *models.Draft, _ string) error {
	switch draft.ResourceType {
	case "property":
		var p models.Property
		if err := tx.First(&p, "id = ?", draft.ResourceID).Error; err != nil {
			return nil
		}
		if p.Status == "draft" {
			return tx.Delete(&p).Error
		}
		return tx.Model(&p).Updates(map[string]interface{}{"draft_id": "", "status": "approved", "review_note": ""}).Error
	case "banner":
		var b models.Banner
		if err := tx.First(&b, "id = ?", draft.ResourceID).Error; err != nil {
			return nil
		}
		if b.Status == "draft" {
			return tx.Delete(&b).Error
		}
		return tx.Model(&b).Updates(map[string]interface{}{"draft_id": "", "status": "approved", "review_note": ""}).Error
	}
	return ErrBadResourceType
}

// applyPayload writes the draft payload into the resource row and publishes it
func (s *DraftService) applyPayload(tx *gorm.DB, rtype, resourceID, payload string) error {
	switch rtype {
	case "property":
		var fields struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Price       float64 `json:"price"`
			Location    string  `json:"location"`
			Bedrooms    int     `json:"bedrooms"`
			AreaSqm     float64 `json:"area_sqm"`
			CategoryID  uint    `json:"category_id"`
		}
		if err := json.Unmarshal([]byte(payload), &fields); err != nil {
			return err
		}
		return tx.Model(&models.Property{}).Where("id = ?", resourceID).Updates(map[string]interface{}{
			"title":       fields.Title,
			"description": fields.Description,
			"price":       fields.Price,
			"location":    fields.Location,
			"bedrooms":    fields.Bedrooms,
			"area_sqm":    fields.AreaSqm,
			"category_id": fields.CategoryID,
			"status":      "approved",
			"draft_id":    "",
			"review_note": "",
		}).Error
	case "banner":
		var fields struct {
			Title     string     `json:"title"`
			ImageURL  string     `json:"image_url"`
			TargetURL string     `json:"target_url"`
			Position  int        `json:"position"`
			StartsAt  *time.Time `json:"starts_at"`
			EndsAt    *time.Time `json:"ends_at"`
		}
		if err := json.Unmarshal([]byte(payload), &fields); err != nil {
			return err
		}
		return tx.Model(&models.Banner{}).Where("id = ?", resourceID).Updates(map[string]interface{}{
			"title":       fields.Title,
			"image_url":   fields.ImageURL,
			"target_url":  fields.TargetURL,
			"position":    fields.Position,
			"starts_at":   fields.StartsAt,
			"ends_at":     fields.EndsAt,
			"status":      "approved",
			"draft_id":    "",
			"review_note": "",
		}).Error
	}
	return ErrBadResourceType
}

// table returns a query against the resource family's table
func table(db *gorm.DB, rtype string) *gorm.DB {
	if rtype == "banner" {
		return db.Model(&models.Banner{})
	}
	return db.Model(&models.Property{})
}

package handlers

import (
	"encoding/json"
	"errors"

	"realhub-app/internal/devserver/middleware"
	"realhub-app/internal/devserver/services"
	"realhub-app/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DraftHandler handles the draft lifecycle and resource list endpoints
type DraftHandler struct {
	drafts *services.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(drafts *services.DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// propertyView is the wire shape of a property row. Reason surfaces the
// reviewer's note while the row needs revision.
type propertyView struct {
	ID      string                 `json:"id"`
	OwnerID uint                   `json:"owner_id"`
	Status  string                 `json:"status"`
	Payload map[string]interface{} `json:"payload"`
	DraftID string                 `json:"draft_id,omitempty"`
	Reason  string                 `json:"reason,omitempty"`
}

// bannerView is the wire shape of a banner row
type bannerView struct {
	ID      string                 `json:"id"`
	OwnerID uint                   `json:"owner_id"`
	Status  string                 `json:"status"`
	Payload map[string]interface{} `json:"payload"`
	DraftID string                 `json:"draft_id,omitempty"`
	Reason  string                 `json:"reason,omitempty"`
}

// CreatePropertyDraft opens a draft on a property (or a new one)
func (h *DraftHandler) CreatePropertyDraft(c *fiber.Ctx) error {
	return h.create(c, "property")
}

// CreateBannerDraft opens a draft on a banner (or a new one)
func (h *DraftHandler) CreateBannerDraft(c *fiber.Ctx) error {
	return h.create(c, "banner")
}

func (h *DraftHandler) create(c *fiber.Ctx, rtype string) error {
	payload := c.Body()
	if len(payload) == 0 || !json.Valid(payload) {
		return response.BadRequest(c, "Invalid request body")
	}

	user := middleware.CurrentUser(c)
	resourceID := c.Params("id") // empty for a brand new resource

	draft, resourceID, err := h.drafts.CreateDraft(rtype, resourceID, user.ID, string(payload))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResourceNotFound):
			return response.NotFound(c, "Resource not found")
		case errors.Is(err, services.ErrDraftConflict):
			return response.Conflict(c, "Resource already has an open draft or pending change")
		default:
			return response.InternalServerError(c, "Failed to create draft")
		}
	}

	status, _ := h.drafts.ResourceStatus(rtype, resourceID)
	return response.Created(c, "Draft created", fiber.Map{
		"draft_id":    draft.ID,
		"resource_id": resourceID,
		"status":      status,
	})
}

// UpdateDraft replaces an open draft's payload
func (h *DraftHandler) UpdateDraft(c *fiber.Ctx) error {
	payload := c.Body()
	if len(payload) == 0 || !json.Valid(payload) {
		return response.BadRequest(c, "Invalid request body")
	}

	user := middleware.CurrentUser(c)
	err := h.drafts.UpdateDraft(c.Params("draftID"), user.ID, string(payload))
	if err != nil {
		return h.draftError(c, err, "Failed to update draft")
	}

	return response.Success(c, "Draft updated", nil)
}

// SubmitDraft moves a draft into review
func (h *DraftHandler) SubmitDraft(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	change, err := h.drafts.SubmitDraft(c.Params("draftID"), user.ID)
	if err != nil {
		return h.draftError(c, err, "Failed to submit draft")
	}

	return response.Success(c, "Draft submitted", fiber.Map{
		"change_id": change.ChangeID,
	})
}

// DeleteDraft discards an unsubmitted draft
func (h *DraftHandler) DeleteDraft(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.drafts.DeleteDraft(c.Params("draftID"), user.ID); err != nil {
		return h.draftError(c, err, "Failed to delete draft")
	}

	return response.Success(c, "Draft discarded", nil)
}

// ListProperties returns properties visible to the caller's role
func (h *DraftHandler) ListProperties(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	rows, err := h.drafts.ListProperties(user.ID, isStaff(user.Role))
	if err != nil {
		return response.InternalServerError(c, "Failed to load properties")
	}

	out := make([]propertyView, 0, len(rows))
	for _, p := range rows {
		out = append(out, propertyView{
			ID:      p.ID,
			OwnerID: p.OwnerID,
			Status:  p.Status,
			DraftID: p.DraftID,
			Reason:  p.ReviewNote,
			Payload: map[string]interface{}{
				"title":       p.Title,
				"description": p.Description,
				"price":       p.Price,
				"location":    p.Location,
				"bedrooms":    p.Bedrooms,
				"area_sqm":    p.AreaSqm,
				"category_id": p.CategoryID,
			},
		})
	}
	return response.Success(c, "Properties", out)
}

// ListBanners returns banners visible to the caller's role
func (h *DraftHandler) ListBanners(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	rows, err := h.drafts.ListBanners(user.ID, isStaff(user.Role))
	if err != nil {
		return response.InternalServerError(c, "Failed to load banners")
	}

	out := make([]bannerView, 0, len(rows))
	for _, b := range rows {
		out = append(out, bannerView{
			ID:      b.ID,
			OwnerID: b.OwnerID,
			Status:  b.Status,
			DraftID: b.DraftID,
			Reason:  b.ReviewNote,
			Payload: map[string]interface{}{
				"title":      b.Title,
				"image_url":  b.ImageURL,
				"target_url": b.TargetURL,
				"position":   b.Position,
				"starts_at":  b.StartsAt,
				"ends_at":    b.EndsAt,
			},
		})
	}
	return response.Success(c, "Banners", out)
}

func (h *DraftHandler) draftError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		return response.NotFound(c, "Draft not found")
	case errors.Is(err, services.ErrNotProposer):
		return response.Forbidden(c, "Draft belongs to another user")
	case errors.Is(err, services.ErrDraftReadOnly):
		return response.Conflict(c, "Draft already submitted")
	default:
		return response.InternalServerError(c, fallback)
	}
}

func isStaff(role string) bool {
	return role == "EMPLOYEE" || role == "ADMIN"
}

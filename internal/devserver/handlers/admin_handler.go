package handlers

import (
	"errors"

	"realhub-app/internal/devserver/middleware"
	"realhub-app/internal/devserver/services"
	"realhub-app/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the review queue and loan triage endpoints
type AdminHandler struct {
	drafts *services.DraftService
	loans  *services.LoanService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(drafts *services.DraftService, loans *services.LoanService) *AdminHandler {
	return &AdminHandler{drafts: drafts, loans: loans}
}

// ReasonRequest carries the mandatory reason for reject/request-changes/escalate
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// ReassignRequest selects an explicit assignee or auto-assign
type ReassignRequest struct {
	AssigneeID *uint `json:"assignee_id"`
	AutoAssign bool  `json:"auto_assign"`
}

// CommentRequest represents a loan comment body
type CommentRequest struct {
	Text     string `json:"text"`
	IsPublic bool   `json:"is_public"`
}

// BulkRequest is the body shared by the bulk triage endpoints
type BulkRequest struct {
	IDs        []string `json:"ids"`
	AssigneeID *uint    `json:"assignee_id"`
	AutoAssign bool     `json:"auto_assign"`
	Reason     string   `json:"reason"`
}

// ============================================================
// Pending changes
// ============================================================

// ListPendingChanges returns the open review queue
func (h *AdminHandler) ListPendingChanges(c *fiber.Ctx) error {
	changes, err := h.drafts.ListPendingChanges()
	if err != nil {
		return response.InternalServerError(c, "Failed to load pending changes")
	}
	return response.Success(c, "Pending changes", changes)
}

// ApproveChange publishes a submitted draft
func (h *AdminHandler) ApproveChange(c *fiber.Ctx) error {
	if err := h.drafts.Approve(c.Params("changeID")); err != nil {
		return h.changeError(c, err, "Failed to approve change")
	}
	return response.Success(c, "Change approved", nil)
}

// RejectChange discards a submitted draft with a reason
func (h *AdminHandler) RejectChange(c *fiber.Ctx) error {
	var req ReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.drafts.Reject(c.Params("changeID"), req.Reason); err != nil {
		return h.changeError(c, err, "Failed to reject change")
	}
	return response.Success(c, "Change rejected", nil)
}

// RequestChanges reopens a submitted draft for the proposer
func (h *AdminHandler) RequestChanges(c *fiber.Ctx) error {
	var req ReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.drafts.RequestChanges(c.Params("changeID"), req.Reason); err != nil {
		return h.changeError(c, err, "Failed to request changes")
	}
	return response.Success(c, "Changes requested", nil)
}

func (h *AdminHandler) changeError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrChangeNotFound):
		return response.NotFound(c, "Pending change not found")
	case errors.Is(err, services.ErrChangeResolved):
		return response.Conflict(c, "Pending change already resolved")
	case errors.Is(err, services.ErrReasonRequired):
		return response.BadRequest(c, "Reason is required")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// ============================================================
// Loan triage
// ============================================================

// ListLoanRequests returns the triage queue
func (h *AdminHandler) ListLoanRequests(c *fiber.Ctx) error {
	loans, err := h.loans.List(c.Query("status"))
	if err != nil {
		return response.InternalServerError(c, "Failed to load loan requests")
	}
	return response.Success(c, "Loan requests", loans)
}

// ReassignLoan moves a request to an agent
func (h *AdminHandler) ReassignLoan(c *fiber.Ctx) error {
	var req ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loans.Reassign(c.Params("id"), req.AssigneeID, req.AutoAssign)
	if err != nil {
		return h.loanError(c, err, "Failed to reassign loan request")
	}
	return response.Success(c, "Loan request reassigned", loan)
}

// EscalateLoan escalates a request with a mandatory reason
func (h *AdminHandler) EscalateLoan(c *fiber.Ctx) error {
	var req ReasonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user := middleware.CurrentUser(c)
	loan, err := h.loans.Escalate(c.Params("id"), user.ID, req.Reason)
	if err != nil {
		return h.loanError(c, err, "Failed to escalate loan request")
	}
	return response.Success(c, "Loan request escalated", loan)
}

// CommentLoan appends to a request's comment trail
func (h *AdminHandler) CommentLoan(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user := middleware.CurrentUser(c)
	comment, err := h.loans.AddComment(c.Params("id"), user.ID, req.Text, req.IsPublic)
	if err != nil {
		return h.loanError(c, err, "Failed to add comment")
	}
	return response.Created(c, "Comment added", comment)
}

// BulkReassign reassigns a set of requests, one outcome per id
func (h *AdminHandler) BulkReassign(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.IDs) == 0 {
		return response.BadRequest(c, "No target ids")
	}

	items := h.loans.BulkReassign(req.IDs, req.AssigneeID, req.AutoAssign)
	return response.Success(c, "Bulk reassign processed", items)
}

// BulkEscalate escalates a set of requests with one shared reason
func (h *AdminHandler) BulkEscalate(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.IDs) == 0 {
		return response.BadRequest(c, "No target ids")
	}

	user := middleware.CurrentUser(c)
	items := h.loans.BulkEscalate(req.IDs, user.ID, req.Reason)
	return response.Success(c, "Bulk escalate processed", items)
}

func (h *AdminHandler) loanError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrLoanNotFound):
		return response.NotFound(c, "Loan request not found")
	case errors.Is(err, services.ErrAssigneeAmbiguous),
		errors.Is(err, services.ErrAssigneeMissing),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrCommentRequired):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAssigneeIneligible),
		errors.Is(err, services.ErrNoAgentAvailable):
		return response.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAlreadyEscalated):
		return response.Conflict(c, "Loan request already escalated")
	default:
		return response.InternalServerError(c, fallback)
	}
}

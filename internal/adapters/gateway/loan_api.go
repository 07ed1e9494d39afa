package gateway

import (
	"context"
	"fmt"
	"net/http"

	"realhub-app/internal/core/domain"
)

// ReassignRequest selects either an explicit assignee or backend auto-assign.
// The two are mutually exclusive; the controller validates before calling.
type ReassignRequest struct {
	AssigneeID *uint `json:"assignee_id,omitempty"`
	AutoAssign bool  `json:"auto_assign,omitempty"`
}

// bulkRequest is the body shared by the bulk triage endpoints
type bulkRequest struct {
	IDs        []string `json:"ids"`
	AssigneeID *uint    `json:"assignee_id,omitempty"`
	AutoAssign bool     `json:"auto_assign,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

// ListLoanRequests fetches the triage queue
func (c *Client) ListLoanRequests(ctx context.Context) ([]domain.LoanRequest, error) {
	var out []domain.LoanRequest
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/loan-requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReassignLoan moves a loan request to a new assignee
func (c *Client) ReassignLoan(ctx context.Context, id string, req ReassignRequest) error {
	path := fmt.Sprintf("/api/v1/admin/loan-requests/%s/reassign", id)
	return c.do(ctx, http.MethodPost, path, req, nil)
}

// EscalateLoan escalates a loan request with a reason
func (c *Client) EscalateLoan(ctx context.Context, id, reason string) error {
	path := fmt.Sprintf("/api/v1/admin/loan-requests/%s/escalate", id)
	return c.do(ctx, http.MethodPost, path, map[string]string{"reason": reason}, nil)
}

// CommentLoan appends a comment to a loan request
func (c *Client) CommentLoan(ctx context.Context, id, text string, isPublic bool) error {
	path := fmt.Sprintf("/api/v1/admin/loan-requests/%s/comment", id)
	body := map[string]interface{}{"text": text, "is_public": isPublic}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// BulkReassign reassigns a set of loan requests. Each id is processed
// independently server-side; the outcome list is per-id.
func (c *Client) BulkReassign(ctx context.Context, ids []string, req ReassignRequest) ([]domain.BulkOutcome, error) {
	body := bulkRequest{IDs: ids, AssigneeID: req.AssigneeID, AutoAssign: req.AutoAssign}
	var out []domain.BulkOutcome
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/loan-requests/bulk-reassign", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BulkEscalate escalates a set of loan requests with one shared reason
func (c *Client) BulkEscalate(ctx context.Context, ids []string, reason string) ([]domain.BulkOutcome, error) {
	body := bulkRequest{IDs: ids, Reason: reason}
	var out []domain.BulkOutcome
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/loan-requests/bulk-escalate", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

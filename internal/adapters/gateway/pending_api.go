package gateway

import (
	"context"
	"fmt"
	"net/http"

	"realhub-app/internal/core/domain"
)

// ListPendingChanges fetches the admin review queue
func (c *Client) ListPendingChanges(ctx context.Context) ([]domain.PendingChange, error) {
	var out []domain.PendingChange
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/pending-changes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApprovePendingChange merges a submitted draft into the approved payload
func (c *Client) ApprovePendingChange(ctx context.Context, changeID string) error {
	path := fmt.Sprintf("/api/v1/admin/pending-changes/%s/approve", changeID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// RejectPendingChange rejects a submitted draft with a reason
func (c *Client) RejectPendingChange(ctx context.Context, changeID, reason string) error {
	path := fmt.Sprintf("/api/v1/admin/pending-changes/%s/reject", changeID)
	return c.do(ctx, http.MethodPost, path, map[string]string{"reason": reason}, nil)
}

// RequestChanges sends a submitted draft back to its proposer with a reason
func (c *Client) RequestChanges(ctx context.Context, changeID, reason string) error {
	path := fmt.Sprintf("/api/v1/admin/pending-changes/%s/request-changes", changeID)
	return c.do(ctx, http.MethodPost, path, map[string]string{"reason": reason}, nil)
}

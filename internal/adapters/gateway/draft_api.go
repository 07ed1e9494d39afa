package gateway

import (
	"context"
	"fmt"
	"net/http"

	"realhub-app/internal/core/domain"
)

// DraftInfo is the backend's record of an allocated draft
type DraftInfo struct {
	DraftID    string                `json:"draft_id"`
	ResourceID string                `json:"resource_id"`
	Status     domain.ResourceStatus `json:"status"`
}

// SubmitInfo is returned when a draft enters review
type SubmitInfo struct {
	ChangeID string `json:"change_id"`
}

// plural maps a resource type to its route segment
func plural(rtype domain.ResourceType) string {
	if rtype == domain.ResourceBanner {
		return "banners"
	}
	return "properties"
}

// CreateDraft allocates a draft. An empty resourceID starts a brand new
// resource; otherwise the draft is an edit of an approved resource.
func (c *Client) CreateDraft(ctx context.Context, role domain.Role, rtype domain.ResourceType, resourceID string, payload interface{}) (*DraftInfo, error) {
	path := fmt.Sprintf("/api/v1/%s/%s/draft", role.PathSegment(), plural(rtype))
	if resourceID != "" {
		path = fmt.Sprintf("/api/v1/%s/%s/%s/draft", role.PathSegment(), plural(rtype), resourceID)
	}
	var out DraftInfo
	if err := c.do(ctx, http.MethodPost, path, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDraft replaces a draft's payload
func (c *Client) UpdateDraft(ctx context.Context, role domain.Role, draftID string, payload interface{}) error {
	path := fmt.Sprintf("/api/v1/%s/drafts/%s", role.PathSegment(), draftID)
	return c.do(ctx, http.MethodPut, path, payload, nil)
}

// SubmitDraft moves a draft into review and returns its change id
func (c *Client) SubmitDraft(ctx context.Context, role domain.Role, draftID string) (*SubmitInfo, error) {
	path := fmt.Sprintf("/api/v1/%s/drafts/%s/submit", role.PathSegment(), draftID)
	var out SubmitInfo
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDraft discards an unsubmitted draft
func (c *Client) DeleteDraft(ctx context.Context, role domain.Role, draftID string) error {
	path := fmt.Sprintf("/api/v1/%s/drafts/%s", role.PathSegment(), draftID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListProperties fetches the property list visible to the given role
func (c *Client) ListProperties(ctx context.Context, role domain.Role) ([]domain.Property, error) {
	path := fmt.Sprintf("/api/v1/%s/properties", role.PathSegment())
	var out []domain.Property
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBanners fetches the banner list visible to the given role
func (c *Client) ListBanners(ctx context.Context, role domain.Role) ([]domain.Banner, error) {
	path := fmt.Sprintf("/api/v1/%s/banners", role.PathSegment())
	var out []domain.Banner
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

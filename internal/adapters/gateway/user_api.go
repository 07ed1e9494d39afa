package gateway

import (
	"context"
	"net/http"

	"realhub-app/internal/core/domain"
)

// ProfileUpdate carries the editable profile fields
type ProfileUpdate struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Me fetches the current user projection
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/user/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile replaces the profile fields and returns the fresh projection
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPut, "/api/v1/user/profile", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories fetches the property category master list
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, http.MethodGet, "/api/v1/user/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Agents fetches the approved agent directory
func (c *Client) Agents(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/user/agents", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

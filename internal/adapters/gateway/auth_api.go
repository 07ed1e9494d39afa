package gateway

import (
	"context"
	"net/http"

	"realhub-app/internal/core/domain"
)

// VerifyResult is the payload returned by a successful OTP verification.
// The token is an opaque bearer credential; the client never inspects it.
type VerifyResult struct {
	Token            string      `json:"token"`
	User             domain.User `json:"user"`
	ProfileCompleted bool        `json:"profile_completed"`
}

// SendOTP asks the backend to issue an OTP to the given phone number
func (c *Client) SendOTP(ctx context.Context, phone string) error {
	body := map[string]string{"phone": phone}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/send-otp", body, nil)
}

// VerifyOTP exchanges phone + OTP for a bearer token and user projection
func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (*VerifyResult, error) {
	body := map[string]string{"phone": phone, "otp": otp}
	var out VerifyResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/verify-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StaffLogin authenticates an employee or admin with username/password
func (c *Client) StaffLogin(ctx context.Context, username, password string) (*VerifyResult, error) {
	body := map[string]string{"username": username, "password": password}
	var out VerifyResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateToken checks the stored bearer token against the backend.
// Any error means the session must be treated as invalid (fail-closed).
func (c *Client) ValidateToken(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/validate-token", nil, nil)
}

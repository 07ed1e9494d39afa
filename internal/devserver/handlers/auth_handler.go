package handlers

import (
	"errors"
	"strings"

	"realhub-app/internal/devserver/middleware"
	"realhub-app/internal/devserver/services"
	"realhub-app/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SendOTPRequest represents the OTP issue request body
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest represents the OTP verification request body
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// LoginRequest represents the staff login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SendOTP issues a one-time code for the given phone number
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Phone == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	if err := h.authService.SendOTP(strings.TrimSpace(req.Phone)); err != nil {
		if errors.Is(err, services.ErrOTPRateLimited) {
			return response.Error(c, fiber.StatusTooManyRequests, "Please wait before requesting a new OTP")
		}
		return response.InternalServerError(c, "Failed to send OTP")
	}

	return response.Success(c, "OTP sent", nil)
}

// VerifyOTP exchanges phone + OTP for a bearer token
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Phone == "" {
		return response.BadRequest(c, "Phone number is required")
	}
	if req.OTP == "" {
		return response.BadRequest(c, "OTP is required")
	}

	result, err := h.authService.VerifyOTP(strings.TrimSpace(req.Phone), strings.TrimSpace(req.OTP))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOTPNotFound),
			errors.Is(err, services.ErrOTPExpired),
			errors.Is(err, services.ErrOTPTooMany),
			errors.Is(err, services.ErrOTPMismatch):
			return response.Unauthorized(c, err.Error())
		case errors.Is(err, services.ErrUserInactive):
			return response.Forbidden(c, "User account is inactive")
		default:
			return response.InternalServerError(c, "Failed to verify OTP")
		}
	}

	// Deleted accounts never get a usable session
	if result.User.Deleted {
		return response.Gone(c, "Account has been deleted")
	}

	return response.Success(c, "OTP verified", fiber.Map{
		"token":             result.Token,
		"user":              result.User,
		"profile_completed": result.ProfileCompleted,
	})
}

// Login authenticates an employee or admin account
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	result, err := h.authService.StaffLogin(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid username or password")
		case errors.Is(err, services.ErrUserInactive):
			return response.Forbidden(c, "User account is inactive")
		case errors.Is(err, services.ErrUserDeleted):
			return response.Gone(c, "Account has been deleted")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token":             result.Token,
		"user":              result.User,
		"profile_completed": result.ProfileCompleted,
	})
}

// ValidateToken confirms the presented bearer token still maps to a live
// account. AuthMiddleware does all the work.
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return response.Success(c, "Token valid", fiber.Map{
		"user_id": user.ID,
	})
}

package handlers

import (
	"strings"

	"realhub-app/internal/devserver/middleware"
	"realhub-app/internal/devserver/models"
	"realhub-app/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler handles account and master-data endpoints
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// Me returns the authenticated account's current projection
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return response.Success(c, "User profile", user.ToResponse())
}

// UpdateProfile fills in the account's profile fields. Completing the name
// flips profile_completed.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return response.BadRequest(c, "Full name is required")
	}

	user := middleware.CurrentUser(c)
	user.FullName = strings.TrimSpace(req.FullName)
	user.Email = strings.TrimSpace(req.Email)
	user.Address = strings.TrimSpace(req.Address)
	user.ProfileCompleted = true
	if err := h.db.Save(user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated", user.ToResponse())
}

// Categories returns the property category master list
func (h *UserHandler) Categories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.db.Order("name ASC").Find(&categories).Error; err != nil {
		return response.InternalServerError(c, "Failed to load categories")
	}
	return response.Success(c, "Categories", categories)
}

// Agents returns approved active agents, e.g. for assignment pickers
func (h *UserHandler) Agents(c *fiber.Ctx) error {
	var agents []models.User
	err := h.db.Where("role = ? AND approved = ? AND is_active = ? AND deleted = ?",
		"AGENT", true, true, false).Find(&agents).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load agents")
	}

	out := make([]*models.UserResponse, 0, len(agents))
	for i := range agents {
		out = append(out, agents[i].ToResponse())
	}
	return response.Success(c, "Agents", out)
}

package routes

import (
	"realhub-app/internal/config"
	"realhub-app/internal/devserver/handlers"
	"realhub-app/internal/devserver/middleware"
	"realhub-app/internal/devserver/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the dev stub
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize services
	otpService := services.NewOTPService()
	authService := services.NewAuthService(db, otpService, cfg)
	draftService := services.NewDraftService(db)
	loanService := services.NewLoanService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(db)
	draftHandler := handlers.NewDraftHandler(draftService)
	adminHandler := handlers.NewAdminHandler(draftService, loanService)

	auth := middleware.AuthMiddleware(cfg, db)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, except token validation)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/send-otp", authHandler.SendOTP)
	authRoutes.Post("/verify-otp", authHandler.VerifyOTP)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/validate-token", auth, authHandler.ValidateToken)

	// Account & master data (any authenticated role)
	userRoutes := apiV1.Group("/user")
	userRoutes.Use(auth)
	userRoutes.Get("/me", userHandler.Me)
	userRoutes.Put("/profile", userHandler.UpdateProfile)
	userRoutes.Get("/categories", userHandler.Categories)
	userRoutes.Get("/agents", userHandler.Agents)

	// Draft lifecycle routes, one group per role segment
	segments := map[string]string{
		"customer": "CUSTOMER",
		"agent":    "AGENT",
		"employee": "EMPLOYEE",
		"admin":    "ADMIN",
	}
	for segment, role := range segments {
		g := apiV1.Group("/"+segment, auth, middleware.RoleMiddleware(role))
		setupDraftRoutes(g, draftHandler)
	}

	// Admin review queue & loan triage
	adminRoutes := apiV1.Group("/admin", auth, middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, adminHandler)
}

// setupDraftRoutes registers the draft lifecycle under one role segment
func setupDraftRoutes(router fiber.Router, handler *handlers.DraftHandler) {
	router.Get("/properties", handler.ListProperties)
	router.Post("/properties/draft", handler.CreatePropertyDraft)
	router.Post("/properties/:id/draft", handler.CreatePropertyDraft)

	router.Get("/banners", handler.ListBanners)
	router.Post("/banners/draft", handler.CreateBannerDraft)
	router.Post("/banners/:id/draft", handler.CreateBannerDraft)

	router.Put("/drafts/:draftID", handler.UpdateDraft)
	router.Post("/drafts/:draftID/submit", handler.SubmitDraft)
	router.Delete("/drafts/:draftID", handler.DeleteDraft)
}

// setupAdminRoutes registers the review queue and loan triage endpoints
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler) {
	router.Get("/pending-changes", handler.ListPendingChanges)
	router.Post("/pending-changes/:changeID/approve", handler.ApproveChange)
	router.Post("/pending-changes/:changeID/reject", handler.RejectChange)
	router.Post("/pending-changes/:changeID/request-changes", handler.RequestChanges)

	router.Get("/loan-requests", handler.ListLoanRequests)
	router.Post("/loan-requests/bulk-reassign", handler.BulkReassign)
	router.Post("/loan-requests/bulk-escalate", handler.BulkEscalate)
	router.Post("/loan-requests/:id/reassign", handler.ReassignLoan)
	router.Post("/loan-requests/:id/escalate", handler.EscalateLoan)
	router.Post("/loan-requests/:id/comment", handler.CommentLoan)
}

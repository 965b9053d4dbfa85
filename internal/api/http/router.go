package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hightask/helpdesk-api/internal/api/http/handlers"
	"github.com/hightask/helpdesk-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	Attachments    *handlers.AttachmentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	// Download authenticates through the signed token in the URL, not a session.
	api.Get("/attachments/download", cfg.Attachments.Download)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	protected.Get("/tickets", cfg.Tickets.List)
	protected.Post("/tickets", cfg.Tickets.Create)
	protected.Get("/tickets/:id", cfg.Tickets.Get)
	protected.Put("/tickets/:id", cfg.Tickets.Update)
	protected.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	protected.Get("/tickets/:id/attachments", cfg.Attachments.ListForTicket)

	protected.Get("/stats", cfg.Tickets.Stats)
	protected.Post("/suggest", cfg.Tickets.Suggest)
	protected.Post("/attachments/upload", cfg.Attachments.Upload)

	protected.Get("/technicians", auth.RequireTechnicianOrAdmin(), cfg.Users.Technicians)

	admin := protected.Group("/users", auth.RequireAdmin())
	admin.Get("", cfg.Users.List)
	admin.Post("", cfg.Users.Create)
	admin.Delete("/:id", cfg.Users.Delete)
}

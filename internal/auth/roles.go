package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hightask/helpdesk-api/internal/domain"
	apperrors "github.com/hightask/helpdesk-api/pkg/util"
)

// RequireAuthenticated ensures a caller identity was resolved.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin restricts a route to admin callers.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !identity.IsAdmin() {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}

// RequireTechnicianOrAdmin restricts a route to handling staff.
func RequireTechnicianOrAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !identity.IsTechnicianOrAdmin() {
			return apperrors.NewForbidden("technician or admin access required")
		}
		return c.Next()
	}
}

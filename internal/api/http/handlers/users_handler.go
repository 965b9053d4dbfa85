package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hightask/helpdesk-api/internal/api/dto"
	"github.com/hightask/helpdesk-api/internal/auth"
	"github.com/hightask/helpdesk-api/internal/domain"
	"github.com/hightask/helpdesk-api/internal/service"
	apperrors "github.com/hightask/helpdesk-api/pkg/util"
)

// UsersHandler exposes the account directory endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

func toUserResponse(u domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
		LastSignIn: u.LastSignInAt,
	}
}

// List GET /users. Admin only.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	users, err := h.users.ListUsers(c.UserContext(), caller)
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(fiber.Map{"users": out})
}

// Create POST /users. Admin only; the only way to mint technician or admin
// accounts.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, err := h.users.CreateUser(c.UserContext(), caller, service.UserCreateInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"user": toUserResponse(*user)})
}

// Delete DELETE /users/:id. Admin only.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.users.DeleteUser(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}

// Technicians GET /technicians. Technician or admin.
func (h *UsersHandler) Technicians(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	users, err := h.users.ListTechnicians(c.UserContext(), caller)
	if err != nil {
		return err
	}
	out := make([]dto.TechnicianResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.TechnicianResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		})
	}
	return c.JSON(fiber.Map{"technicians": out})
}

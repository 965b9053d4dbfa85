package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hightask/helpdesk-api/internal/api/dto"
	"github.com/hightask/helpdesk-api/internal/auth"
	"github.com/hightask/helpdesk-api/internal/domain"
	"github.com/hightask/helpdesk-api/internal/service"
	apperrors "github.com/hightask/helpdesk-api/pkg/util"
)

// TicketsHandler exposes the ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	suggest *service.SuggestionService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, suggest *service.SuggestionService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, suggest: suggest}
}

// List GET /tickets?status=&priority=&category=.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := service.TicketListFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
	}
	tickets, err := h.tickets.List(c.UserContext(), caller, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tickets": tickets})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.Get(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ticket": ticket})
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Description == "" {
		return apperrors.NewValidationError("title and description required", nil)
	}
	if req.Priority != "" && !domain.ValidPriority(req.Priority) {
		return apperrors.NewValidationError("unknown priority", map[string]any{"priority": req.Priority})
	}

	ticket, err := h.tickets.Create(c.UserContext(), caller, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"ticket": ticket})
}

// Update PUT /tickets/:id. The payload is decoded strictly: an unknown field
// is a validation error, never a silent merge into the stored record.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateTicketRequest
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": *req.Status})
	}
	if req.Priority != nil && !domain.ValidPriority(*req.Priority) {
		return apperrors.NewValidationError("unknown priority", map[string]any{"priority": *req.Priority})
	}

	ticket, err := h.tickets.Update(c.UserContext(), caller, c.Params("id"), service.TicketUpdateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       req.Priority,
		Status:         req.Status,
		AssignedTo:     req.AssignedTo,
		AssignedToName: req.AssignedToName,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ticket": ticket})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.AddComment(c.UserContext(), caller, c.Params("id"), req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"ticket": ticket})
}

// Stats GET /stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.tickets.Stats(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// Suggest POST /suggest.
func (h *TicketsHandler) Suggest(c *fiber.Ctx) error {
	if _, ok := auth.IdentityFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Description == "" {
		return apperrors.NewValidationError("description required", nil)
	}
	return c.JSON(fiber.Map{"suggestions": h.suggest.Suggest(req.Description)})
}

package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hightask/helpdesk-api/internal/api/dto"
	"github.com/hightask/helpdesk-api/internal/auth"
	"github.com/hightask/helpdesk-api/internal/config"
	"github.com/hightask/helpdesk-api/internal/service"
	"github.com/hightask/helpdesk-api/internal/storage"
	apperrors "github.com/hightask/helpdesk-api/pkg/util"
)

// AttachmentsHandler exposes upload, per-ticket listing and signed download.
type AttachmentsHandler struct {
	store       *storage.ObjectStore
	tickets     *service.TicketService
	signedTTL   time.Duration
	downloadTTL time.Duration
}

// NewAttachmentsHandler constructs handler.
func NewAttachmentsHandler(store *storage.ObjectStore, tickets *service.TicketService, cfg config.StorageConfig) *AttachmentsHandler {
	return &AttachmentsHandler{
		store:       store,
		tickets:     tickets,
		signedTTL:   cfg.SignedURLTTL(),
		downloadTTL: cfg.DownloadTTL(),
	}
}

// decodeFileData accepts a bare base64 body or a data URL.
func decodeFileData(raw string) ([]byte, error) {
	if idx := strings.Index(raw, ";base64,"); idx >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(raw)
}

// Upload POST /attachments. Stores the binary under the caller's path prefix
// and returns the metadata the client then embeds in a ticket creation call.
func (h *AttachmentsHandler) Upload(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UploadAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FileName == "" || req.FileType == "" || req.FileData == "" {
		return apperrors.NewValidationError("fileName, fileType, fileData required", nil)
	}

	data, err := decodeFileData(req.FileData)
	if err != nil {
		return apperrors.NewValidationError("fileData is not valid base64", nil)
	}

	att, err := h.store.Save(c.UserContext(), caller.ID, req.FileName, req.FileType, data)
	if err != nil {
		return err
	}
	// Short-lived preview link so the uploader can verify the file landed.
	previewURL, err := h.store.SignedURL(att.FilePath, att.FileName, h.downloadTTL)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"attachment": att, "previewUrl": previewURL})
}

// ListForTicket GET /tickets/:id/attachments. Visibility follows the ticket:
// only participants and staff see the signed URLs.
func (h *AttachmentsHandler) ListForTicket(c *fiber.Ctx) error {
	caller, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	attachments, err := h.tickets.AttachmentsFor(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]dto.AttachmentWithURL, 0, len(attachments))
	for _, att := range attachments {
		url, err := h.store.SignedURL(att.FilePath, att.FileName, h.signedTTL)
		if err != nil {
			return apperrors.MapError(err)
		}
		out = append(out, dto.AttachmentWithURL{Attachment: att, URL: url})
	}
	return c.JSON(fiber.Map{"attachments": out})
}

// Download GET /attachments/download?token=. The token is the credential;
// no session is required, which is what makes signed URLs shareable.
func (h *AttachmentsHandler) Download(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return apperrors.NewValidationError("token required", nil)
	}
	filePath, fileName, err := h.store.Signer().Verify(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired download token")
	}

	blob, err := h.store.Open(c.UserContext(), filePath)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, blob.ContentType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+fileName+`"`)
	return c.Send(blob.Data)
}

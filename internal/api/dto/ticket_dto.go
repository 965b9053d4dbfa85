package dto

import (
	"github.com/hightask/helpdesk-api/internal/domain"
)

// CreateTicketRequest payload. Status and assignment are deliberately absent:
// the service forces every new ticket to open and unassigned.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Attachments []domain.Attachment   `json:"attachments"`
}

// UpdateTicketRequest carries named optional fields; nil means untouched.
// The handler decodes it strictly, so unknown fields are rejected instead of
// silently merged. An empty assignedTo clears the assignee.
type UpdateTicketRequest struct {
	Title          *string                `json:"title"`
	Description    *string                `json:"description"`
	Category       *string                `json:"category"`
	Priority       *domain.TicketPriority `json:"priority"`
	Status         *domain.TicketStatus   `json:"status"`
	AssignedTo     *string                `json:"assignedTo"`
	AssignedToName *string                `json:"assignedToName"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Comment string `json:"comment"`
}

// SuggestRequest payload for the category/priority suggester.
type SuggestRequest struct {
	Description string `json:"description"`
}

// AttachmentWithURL is attachment metadata plus a time-limited signed URL.
type AttachmentWithURL struct {
	domain.Attachment
	URL string `json:"url"`
}

// UploadAttachmentRequest carries a base64-encoded file body. FileData may be
// a data URL ("data:image/png;base64,...") or the bare base64 payload.
type UploadAttachmentRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileData string `json:"fileData"`
}

package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. The whole record, timeline
// included, is stored as one JSON value in the key-value store.
type Ticket struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Priority       TicketPriority  `json:"priority"`
	Status         TicketStatus    `json:"status"`
	CreatedBy      string          `json:"createdBy"`
	CreatedByEmail string          `json:"createdByEmail"`
	CreatedByName  string          `json:"createdByName"`
	AssignedTo     *string         `json:"assignedTo"`
	AssignedToName *string         `json:"assignedToName"`
	Attachments    []Attachment    `json:"attachments"`
	Timeline       []TimelineEntry `json:"timeline"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Attachment stores metadata for a file uploaded out-of-band before ticket
// creation. The list on a ticket is append-only.
type Attachment struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath"`
	FileType   string    `json:"fileType"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// TimelineAction identifies the kind of audit entry.
type TimelineAction string

const (
	TimelineActionCreated TimelineAction = "created"
	TimelineActionUpdated TimelineAction = "updated"
	TimelineActionComment TimelineAction = "comment"
)

// TimelineEntry is one immutable audit record. Entries are only ever appended.
type TimelineEntry struct {
	ID          string         `json:"id"`
	Action      TimelineAction `json:"action"`
	Description string         `json:"description"`
	UserID      string         `json:"userId"`
	UserName    string         `json:"userName"`
	Timestamp   time.Time      `json:"timestamp"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hightask/helpdesk-api/internal/domain"
	"github.com/hightask/helpdesk-api/internal/events"
	"github.com/hightask/helpdesk-api/internal/repository"
	apperrors "github.com/hightask/helpdesk-api/pkg/util"
)

// TicketService holds the authorization and lifecycle logic over the ticket
// store: which tickets a caller may see, whether a mutation is permitted, and
// the audit timeline appended to every accepted mutation.
type TicketService struct {
	store      repository.TicketStore
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      repository.TicketStore
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{store: deps.Store, dispatcher: deps.Dispatcher}
}

// TicketCreateInput describes the creation payload. Status and assignee are
// absent on purpose: creation always yields an open, unassigned ticket.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
	Attachments []domain.Attachment
}

// TicketListFilter holds the optional equality filters applied after the
// role-based visibility filter. All supplied filters must match.
type TicketListFilter struct {
	Status   string
	Priority string
	Category string
}

// TicketUpdateInput is the explicit update structure: nil means the field was
// not supplied and stays untouched. An AssignedTo of "" clears the assignee.
type TicketUpdateInput struct {
	Title          *string
	Description    *string
	Category       *string
	Priority       *domain.TicketPriority
	Status         *domain.TicketStatus
	AssignedTo     *string
	AssignedToName *string
}

// TicketStats aggregates the caller's visible ticket set.
type TicketStats struct {
	Total          int            `json:"total"`
	Open           int            `json:"open"`
	InProgress     int            `json:"inProgress"`
	Resolved       int            `json:"resolved"`
	Closed         int            `json:"closed"`
	HighPriority   int            `json:"highPriority"`
	MediumPriority int            `json:"mediumPriority"`
	LowPriority    int            `json:"lowPriority"`
	ByCategory     map[string]int `json:"byCategory"`
}

// VisibleToCaller restricts tickets to the subset the caller may see.
// Users see their own tickets, technicians additionally see tickets assigned
// to them, admins see everything. An unrecognized role gets the most
// restrictive treatment rather than failing open.
func VisibleToCaller(tickets []domain.Ticket, caller domain.Identity) []domain.Ticket {
	switch caller.Role {
	case domain.RoleAdmin:
		return tickets
	case domain.RoleTechnician:
		visible := make([]domain.Ticket, 0, len(tickets))
		for _, t := range tickets {
			if (t.AssignedTo != nil && *t.AssignedTo == caller.ID) || t.CreatedBy == caller.ID {
				visible = append(visible, t)
			}
		}
		return visible
	default:
		visible := make([]domain.Ticket, 0, len(tickets))
		for _, t := range tickets {
			if t.CreatedBy == caller.ID {
				visible = append(visible, t)
			}
		}
		return visible
	}
}

func applyListFilter(tickets []domain.Ticket, filter TicketListFilter) []domain.Ticket {
	if filter.Status == "" && filter.Priority == "" && filter.Category == "" {
		return tickets
	}
	matched := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.Priority != "" && string(t.Priority) != filter.Priority {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

// List returns the caller's visible tickets, newest first. The sort is stable
// so equal timestamps keep their scan order.
func (s *TicketService) List(ctx context.Context, caller domain.Identity, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.store.ScanAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	tickets = applyListFilter(VisibleToCaller(tickets, caller), filter)
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets, nil
}

// Get loads one ticket and enforces the read access check. Existence is
// checked first, so a missing id is a 404 even for callers who could not
// have seen it.
func (s *TicketService) Get(ctx context.Context, caller domain.Identity, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleTechnician:
		if !isAssignee(ticket, caller.ID) && ticket.CreatedBy != caller.ID {
			return nil, apperrors.NewForbidden("you can only view tickets assigned to you or created by you")
		}
	default:
		if ticket.CreatedBy != caller.ID {
			return nil, apperrors.NewForbidden("you can only view your own tickets")
		}
	}
	return ticket, nil
}

// Create constructs a new ticket from the caller identity and input. The
// payload cannot set status or assignment: every ticket starts open and
// unassigned, with the timeline seeded by a single created entry.
func (s *TicketService) Create(ctx context.Context, caller domain.Identity, input TicketCreateInput) (*domain.Ticket, error) {
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Category:       strings.TrimSpace(input.Category),
		Priority:       input.Priority,
		Status:         domain.TicketStatusOpen,
		CreatedBy:      caller.ID,
		CreatedByEmail: caller.Email,
		CreatedByName:  caller.Name,
		AssignedTo:     nil,
		AssignedToName: nil,
		Attachments:    append([]domain.Attachment{}, input.Attachments...),
		Timeline: []domain.TimelineEntry{
			newTimelineEntry(domain.TimelineActionCreated, "ticket created", caller, now),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.store.Put(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorFor(caller),
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Update validates a proposed field-level update against the caller's role
// and relationship to the ticket, then applies it together with one derived
// timeline entry. The merged record replaces the stored one in full.
func (s *TicketService) Update(ctx context.Context, caller domain.Identity, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	isOwner := ticket.CreatedBy == caller.ID
	isAssignedTechnician := isAssignee(ticket, caller.ID) && caller.Role == domain.RoleTechnician
	isAdmin := caller.Role == domain.RoleAdmin

	if !isAdmin && caller.Role != domain.RoleTechnician && !isOwner {
		return nil, apperrors.NewForbidden("you can only edit your own tickets")
	}
	if !isAdmin && caller.Role != domain.RoleTechnician &&
		input.Status != nil && *input.Status != ticket.Status {
		return nil, apperrors.NewForbidden("only technicians and admins can change ticket status")
	}
	// Coarse technician gate. Largely shadowed by the checks above but kept
	// as a separate step so the first error returned stays stable.
	if caller.Role == domain.RoleTechnician && !isAssignedTechnician && !isOwner && !isAdmin {
		return nil, apperrors.NewForbidden("you can only modify tickets assigned to you")
	}

	changes := []string{}
	if input.Status != nil && *input.Status != ticket.Status {
		changes = append(changes, fmt.Sprintf("status changed from %q to %q", ticket.Status, *input.Status))
	}
	if input.Priority != nil && *input.Priority != ticket.Priority {
		changes = append(changes, fmt.Sprintf("priority changed from %q to %q", ticket.Priority, *input.Priority))
	}
	assigneeChanged := false
	if input.AssignedTo != nil {
		newAssignee := normalizeAssignee(*input.AssignedTo)
		if !equalAssignee(ticket.AssignedTo, newAssignee) {
			assigneeChanged = true
			name := "technician"
			if input.AssignedToName != nil && strings.TrimSpace(*input.AssignedToName) != "" {
				name = *input.AssignedToName
			}
			changes = append(changes, "assigned to "+name)
		}
	}
	if input.Title != nil && *input.Title != "" && *input.Title != ticket.Title {
		changes = append(changes, "title updated")
	}
	if input.Description != nil && *input.Description != "" && *input.Description != ticket.Description {
		changes = append(changes, "description updated")
	}

	if input.Title != nil {
		ticket.Title = *input.Title
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Category != nil {
		ticket.Category = *input.Category
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.AssignedTo != nil {
		ticket.AssignedTo = normalizeAssignee(*input.AssignedTo)
		if ticket.AssignedTo == nil {
			ticket.AssignedToName = nil
		} else if input.AssignedToName != nil {
			ticket.AssignedToName = input.AssignedToName
		}
	}

	description := strings.Join(changes, ", ")
	if description == "" {
		description = "ticket updated"
	}
	now := s.mutationTime(ticket)
	ticket.UpdatedAt = now
	ticket.Timeline = append(ticket.Timeline,
		newTimelineEntry(domain.TimelineActionUpdated, description, caller, now))

	if err := s.store.Put(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Actor:    actorFor(caller),
		Payload:  events.TicketUpdatedPayload{Changes: changes},
	})
	if assigneeChanged {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    actorFor(caller),
			Payload: events.TicketAssignedPayload{
				AssignedTo:     ticket.AssignedTo,
				AssignedToName: ticket.AssignedToName,
			},
		})
	}
	return ticket, nil
}

// AddComment appends a comment timeline entry without touching any other
// field. Blank comments never reach the store.
func (s *TicketService) AddComment(ctx context.Context, caller domain.Identity, ticketID, comment string) (*domain.Ticket, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canParticipate(ticket, caller) {
		return nil, apperrors.NewForbidden("you cannot comment on this ticket")
	}

	now := s.mutationTime(ticket)
	ticket.UpdatedAt = now
	ticket.Timeline = append(ticket.Timeline,
		newTimelineEntry(domain.TimelineActionComment, comment, caller, now))

	if err := s.store.Put(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		Actor:    actorFor(caller),
		Payload:  events.TicketCommentedPayload{CommentPreview: stringPreview(comment, 120)},
	})
	return ticket, nil
}

// Stats aggregates counts over the caller's visible tickets.
func (s *TicketService) Stats(ctx context.Context, caller domain.Identity) (*TicketStats, error) {
	tickets, err := s.store.ScanAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	visible := VisibleToCaller(tickets, caller)

	stats := &TicketStats{
		Total:      len(visible),
		ByCategory: map[string]int{},
	}
	for _, t := range visible {
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
		switch t.Priority {
		case domain.TicketPriorityHigh:
			stats.HighPriority++
		case domain.TicketPriorityMedium:
			stats.MediumPriority++
		case domain.TicketPriorityLow:
			stats.LowPriority++
		}
		stats.ByCategory[t.Category]++
	}
	return stats, nil
}

// AttachmentsFor returns attachment metadata under the same access rule as
// commenting: admins, the owner, and the assignee.
func (s *TicketService) AttachmentsFor(ctx context.Context, caller domain.Identity, ticketID string) ([]domain.Attachment, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canParticipate(ticket, caller) {
		return nil, apperrors.NewForbidden("you cannot access this ticket")
	}
	return ticket.Attachments, nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.store.Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// mutationTime guarantees updatedAt strictly increases per accepted mutation
// even when two mutations land within clock resolution.
func (s *TicketService) mutationTime(ticket *domain.Ticket) time.Time {
	now := time.Now().UTC()
	if !now.After(ticket.UpdatedAt) {
		now = ticket.UpdatedAt.Add(time.Nanosecond)
	}
	return now
}

func canParticipate(ticket *domain.Ticket, caller domain.Identity) bool {
	return caller.Role == domain.RoleAdmin ||
		ticket.CreatedBy == caller.ID ||
		isAssignee(ticket, caller.ID)
}

func isAssignee(ticket *domain.Ticket, userID string) bool {
	return ticket.AssignedTo != nil && *ticket.AssignedTo == userID
}

func normalizeAssignee(id string) *string {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return &id
}

func equalAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func newTimelineEntry(action domain.TimelineAction, description string, caller domain.Identity, ts time.Time) domain.TimelineEntry {
	return domain.TimelineEntry{
		ID:          uuid.NewString(),
		Action:      action,
		Description: description,
		UserID:      caller.ID,
		UserName:    caller.Name,
		Timestamp:   ts,
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(caller domain.Identity) events.Actor {
	return events.Actor{UserID: caller.ID, Name: caller.Name, Role: caller.Role}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}

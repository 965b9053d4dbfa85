package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hightask/helpdesk-api/internal/domain"
)

const ticketKeyPrefix = "ticket:"

// ErrTicketNotFound is returned when no record exists under ticket:<id>.
var ErrTicketNotFound = fmt.Errorf("ticket not found")

// TicketStore is the durable key-value store for ticket records. Records are
// whole JSON documents: a Put replaces the previous value in full, so
// concurrent writers race last-write-wins at the store layer.
type TicketStore interface {
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	Put(ctx context.Context, ticket *domain.Ticket) error
	ScanAll(ctx context.Context) ([]domain.Ticket, error)
}

type redisTicketStore struct {
	client *redis.Client
}

// NewTicketStore returns a Redis-backed implementation keyed ticket:<id>.
func NewTicketStore(client *redis.Client) TicketStore {
	return &redisTicketStore{client: client}
}

func ticketKey(id string) string {
	return ticketKeyPrefix + id
}

func (s *redisTicketStore) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	raw, err := s.client.Get(ctx, ticketKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil, fmt.Errorf("decode ticket %s: %w", id, err)
	}
	return &ticket, nil
}

func (s *redisTicketStore) Put(ctx context.Context, ticket *domain.Ticket) error {
	raw, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode ticket %s: %w", ticket.ID, err)
	}
	return s.client.Set(ctx, ticketKey(ticket.ID), raw, 0).Err()
}

// ScanAll walks every ticket:* key. Scan order carries no business meaning;
// the service layer sorts before returning anything to a caller.
func (s *redisTicketStore) ScanAll(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	iter := s.client.Scan(ctx, 0, ticketKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			// key expired between SCAN and GET
			continue
		}
		if err != nil {
			return nil, err
		}
		var ticket domain.Ticket
		if err := json.Unmarshal(raw, &ticket); err != nil {
			return nil, fmt.Errorf("decode %s: %w", iter.Val(), err)
		}
		tickets = append(tickets, ticket)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

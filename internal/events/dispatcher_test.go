package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesByType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var created, updated []Event

	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		created = append(created, e)
		return nil
	})
	d.Subscribe(EventTicketUpdated, func(_ context.Context, e Event) error {
		updated = append(updated, e)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t1"}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t2"}))

	assert.Len(t, created, 2)
	assert.Empty(t, updated)
	assert.Equal(t, "t1", created[0].TicketID)
}

func TestDispatcherFailingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var reached bool

	d.Subscribe(EventTicketCommented, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCommented, func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCommented}))
	assert.True(t, reached)
}

func TestDispatcherNoSubscribersIsNoop(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketAssigned}))
}

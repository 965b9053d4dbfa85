package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/hightask/helpdesk-api/internal/config"
	"github.com/hightask/helpdesk-api/internal/events"
)

// NotificationService reacts to ticket events: every event is logged, and
// when a webhook URL is configured the event is POSTed there as JSON.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *resty.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	client := resty.New().
		SetTimeout(time.Duration(cfg.WebhookTimeoutSeconds) * time.Second).
		SetRetryCount(2)
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     client,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketCommented, n.handleEvent)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.Actor.UserID),
	)
	n.postWebhook(ctx, event)
	return nil
}

// postWebhook delivers the event to the configured endpoint. Delivery is
// best-effort: failures are logged, never surfaced to the caller.
func (n *NotificationService) postWebhook(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(n.cfg.WebhookURL)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.Error(err), zap.String("event_id", event.ID))
		return
	}
	if resp.IsError() {
		n.logger.Warn("webhook rejected event",
			zap.Int("status", resp.StatusCode()),
			zap.String("event_id", event.ID))
	}
}

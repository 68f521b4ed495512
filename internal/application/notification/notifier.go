// Package notification turns service request events into email notifications.
package notification

import (
	"context"
	"fmt"
	"strings"

	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/domain/shared/events"
	"srdashboard/internal/shared/logger"
)

// Notifier delivers one HTML message. delivered is false when the transport
// is not configured; err is set when delivery was attempted and failed.
type Notifier interface {
	Send(ctx context.Context, to, subject, html string) (delivered bool, err error)
}

// ServiceRequestNotifier subscribes to service request events and mails every
// configured recipient. Delivery failures are logged and never propagated.
type ServiceRequestNotifier struct {
	notifier   Notifier
	builder    *MessageBuilder
	recipients []string
	logger     logger.Interface
}

func NewServiceRequestNotifier(
	notifier Notifier,
	builder *MessageBuilder,
	recipients []string,
	logger logger.Interface,
) *ServiceRequestNotifier {
	cleaned := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	return &ServiceRequestNotifier{
		notifier:   notifier,
		builder:    builder,
		recipients: cleaned,
		logger:     logger,
	}
}

// Register subscribes the notifier to request creation and status changes.
func (n *ServiceRequestNotifier) Register(subscriber events.EventSubscriber) error {
	for _, eventType := range []string{
		servicerequest.EventTypeRequestCreated,
		servicerequest.EventTypeStatusChanged,
	} {
		if err := subscriber.Subscribe(eventType, n); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", eventType, err)
		}
	}
	return nil
}

// Handle implements events.EventHandler.
func (n *ServiceRequestNotifier) Handle(ctx context.Context, event events.DomainEvent) error {
	var (
		msg *Message
		err error
	)
	switch e := event.(type) {
	case servicerequest.RequestCreatedEvent:
		msg, err = n.builder.RequestCreated(e)
	case servicerequest.StatusChangedEvent:
		msg, err = n.builder.StatusChanged(e)
	default:
		n.logger.Debugw("ignoring event", "event_type", event.GetEventType())
		return nil
	}
	if err != nil {
		n.logger.Errorw("failed to build notification", "event_type", event.GetEventType(), "sid", event.GetAggregateID(), "error", err)
		return nil
	}

	if len(n.recipients) == 0 {
		n.logger.Warnw("no notification recipients configured", "subject", msg.Subject)
		return nil
	}

	for _, to := range n.recipients {
		delivered, err := n.notifier.Send(ctx, to, msg.Subject, msg.HTML)
		switch {
		case err != nil:
			n.logger.Errorw("notification failed", "to", to, "subject", msg.Subject, "error", err)
		case !delivered:
			n.logger.Infow("notification skipped", "to", to, "subject", msg.Subject)
		default:
			n.logger.Infow("notification sent", "to", to, "subject", msg.Subject)
		}
	}
	return nil
}

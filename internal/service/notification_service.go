package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/events"
)

// NotificationService emits notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventParcelBooked,
		events.EventParcelAssigned,
		events.EventParcelDelivered,
		events.EventParcelReturned,
		events.EventUserRoleChanged,
		events.EventPaymentRecorded,
	} {
		n.dispatcher.Subscribe(eventType, n.notify)
	}
}

func (n *NotificationService) notify(_ context.Context, event events.Event) error {
	n.logger.Info("notification",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	return nil
}

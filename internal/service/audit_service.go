package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/usecase-portal/internal/events"
)

// AuditService writes an audit log line for notable domain events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserSignedUp, a.handleEvent)
	a.dispatcher.Subscribe(events.EventPasswordReset, a.handleEvent)
	a.dispatcher.Subscribe(events.EventProductPurchased, a.handleEvent)
	a.dispatcher.Subscribe(events.EventExternalFallback, a.handleEvent)
}

func (a *AuditService) handleEvent(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event", string(event.Type)),
		zap.String("subject", event.Subject),
		zap.Any("payload", event.Payload))
	return nil
}

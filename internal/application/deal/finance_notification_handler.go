package deal

import (
	"context"
	"fmt"

	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FinanceNotification is the message queued for finance when an invoice is
// requested
type FinanceNotification struct {
	Recipient      string `json:"recipient"`
	DealCode       string `json:"deal_code"`
	TenantName     string `json:"tenant_name"`
	UnitCode       string `json:"unit_code"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	LatestDocument string `json:"latest_document,omitempty"`
}

// FinanceNotifier delivers finance notifications
type FinanceNotifier interface {
	Notify(ctx context.Context, n FinanceNotification) error
}

// InvoiceRequestedHandler handles InvoiceRequested events and queues a
// notification to the finance mailbox configured in settings
type InvoiceRequestedHandler struct {
	settings settings.Repository
	notifier FinanceNotifier
	logger   *zap.Logger
}

// NewInvoiceRequestedHandler creates a new InvoiceRequestedHandler
func NewInvoiceRequestedHandler(settingsRepo settings.Repository, logger *zap.Logger) *InvoiceRequestedHandler {
	return &InvoiceRequestedHandler{
		settings: settingsRepo,
		notifier: NewLoggingFinanceNotifier(logger),
		logger:   logger,
	}
}

// WithNotifier replaces the default logging notifier
func (h *InvoiceRequestedHandler) WithNotifier(notifier FinanceNotifier) *InvoiceRequestedHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceRequestedHandler) EventTypes() []string {
	return []string{deal.EventTypeInvoiceRequested}
}

// Handle processes an InvoiceRequestedEvent
func (h *InvoiceRequestedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*deal.InvoiceRequestedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", deal.EventTypeInvoiceRequested),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			deal.EventTypeInvoiceRequested, event.EventType())
	}

	cfg, err := h.settings.Get(ctx)
	if err != nil {
		h.logger.Warn("failed to load settings, using default finance email", zap.Error(err))
		cfg = settings.Default()
	}

	n := FinanceNotification{
		Recipient:      cfg.FinanceEmail,
		DealCode:       e.DealCode,
		TenantName:     e.TenantName,
		UnitCode:       e.UnitCode,
		Amount:         e.Amount,
		Currency:       e.Currency,
		LatestDocument: e.LatestDocument,
	}
	if err := h.notifier.Notify(ctx, n); err != nil {
		// delivery failures never undo the invoice request
		h.logger.Error("failed to queue finance notification",
			zap.String("deal_code", e.DealCode),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*InvoiceRequestedHandler)(nil)

// LoggingFinanceNotifier records notifications in the log only
type LoggingFinanceNotifier struct {
	logger *zap.Logger
}

// NewLoggingFinanceNotifier creates a new logging notifier
func NewLoggingFinanceNotifier(logger *zap.Logger) *LoggingFinanceNotifier {
	return &LoggingFinanceNotifier{logger: logger}
}

// Notify logs the notification
func (n *LoggingFinanceNotifier) Notify(ctx context.Context, msg FinanceNotification) error {
	n.logger.Info("finance notification queued",
		zap.String("recipient", msg.Recipient),
		zap.String("deal_code", msg.DealCode),
		zap.String("tenant_name", msg.TenantName),
		zap.String("unit_code", msg.UnitCode),
		zap.String("amount", msg.Amount),
		zap.String("currency", msg.Currency),
		zap.String("latest_document", msg.LatestDocument),
	)
	return nil
}

var _ FinanceNotifier = (*LoggingFinanceNotifier)(nil)

package event

import (
	"context"
	"sync/atomic"

	"github.com/nestapp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// eventKeyPrefix keeps event IDs apart from Idempotency-Key request keys
// sharing the same store.
const eventKeyPrefix = "event:"

// DeliveryStats counts what an IdempotentHandler did with the events it saw
type DeliveryStats struct {
	Handled   int64 `json:"handled"`
	Duplicate int64 `json:"duplicate"`
	Failed    int64 `json:"failed"`
}

// IdempotentHandler delivers each event ID to the wrapped handler at most
// once per TTL. A replayed deal command that republishes InvoiceRequested
// therefore queues a single finance notification.
type IdempotentHandler struct {
	next   shared.EventHandler
	store  shared.IdempotencyStore
	config shared.IdempotencyConfig
	logger *zap.Logger

	handled   atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// IdempotentHandlerOption configures an IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig sets the dedupe TTL and the on/off switch
func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = config
	}
}

// NewIdempotentHandler wraps next with event-ID deduplication
func NewIdempotentHandler(next shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts ...IdempotentHandlerOption) *IdempotentHandler {
	h := &IdempotentHandler{
		next:   next,
		store:  store,
		config: shared.DefaultIdempotencyConfig(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.next.EventTypes()
}

// Handle claims the event ID and then delivers the event. A store failure
// does not drop the event; the handler runs without the dedupe guarantee.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.next.Handle(ctx, event)
	}

	log := h.logger.With(
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)

	claimed, err := h.store.MarkProcessed(ctx, eventKeyPrefix+event.EventID().String(), h.config.TTL)
	switch {
	case err != nil:
		log.Warn("idempotency store unavailable, delivering without dedupe", zap.Error(err))
	case !claimed:
		h.duplicate.Add(1)
		log.Debug("duplicate event skipped")
		return nil
	}

	if err := h.next.Handle(ctx, event); err != nil {
		// the claim is kept until TTL so a failing handler is not re-run on every replay
		h.failed.Add(1)
		log.Error("event handler failed", zap.Error(err))
		return err
	}
	h.handled.Add(1)
	return nil
}

// Stats returns a snapshot of the delivery counters
func (h *IdempotentHandler) Stats() DeliveryStats {
	return DeliveryStats{
		Handled:   h.handled.Load(),
		Duplicate: h.duplicate.Load(),
		Failed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)

// Package event provides the in-process event bus that delivers deal domain
// events to their subscribers after a transaction commits.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nestapp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultHandlerTimeout = 30 * time.Second

// ErrBusStopped is returned by Publish once Stop has been called
var ErrBusStopped = errors.New("event bus is stopped")

// InMemoryEventBus implements EventBus with in-memory pub/sub
type InMemoryEventBus struct {
	registry       *HandlerRegistry
	logger         *zap.Logger
	async          bool
	handlerTimeout time.Duration
	stopped        atomic.Bool
	wg             sync.WaitGroup
}

// BusOption configures the event bus
type BusOption func(*InMemoryEventBus)

// WithAsyncDispatch delivers events on background goroutines. Publish then
// returns before handlers run and Stop waits for them.
func WithAsyncDispatch() BusOption {
	return func(b *InMemoryEventBus) {
		b.async = true
	}
}

// WithHandlerTimeout bounds how long one asynchronous handler may run
func WithHandlerTimeout(d time.Duration) BusOption {
	return func(b *InMemoryEventBus) {
		b.handlerTimeout = d
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	b := &InMemoryEventBus{
		registry:       NewHandlerRegistry(),
		logger:         logger,
		handlerTimeout: defaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to every registered handler. Handler failures are
// logged and never returned: the publishing transaction has already
// committed. A stopped bus delivers nothing and returns ErrBusStopped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		return ErrBusStopped
	}
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if !b.async {
				b.deliver(ctx, handler, event)
				continue
			}

			// the request context ends with the response
			hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.handlerTimeout)
			b.wg.Add(1)
			go func(h shared.EventHandler, e shared.DomainEvent) {
				defer b.wg.Done()
				defer cancel()
				b.deliver(hctx, h, e)
			}(handler, event)
		}
	}
	return nil
}

func (b *InMemoryEventBus) deliver(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	if err := b.dispatchToHandler(ctx, handler, event); err != nil {
		b.logger.Error("handler failed to process event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	// If handler specifies its own event types, use those
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start (re)opens the event bus for publishing
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.stopped.Store(false)
	b.logger.Info("event bus started", zap.Bool("async", b.async))
	return nil
}

// Stop refuses further publishes and waits for in-flight handlers until
// ctx ends.
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.stopped.Store(true)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

// dispatchToHandler turns a handler panic into an error
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)

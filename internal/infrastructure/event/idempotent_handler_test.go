package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/nestapp/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockEventHandler is a mock implementation of shared.EventHandler
type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventHandler) EventTypes() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newInvoiceRequestedEvent(t *testing.T) *deal.InvoiceRequestedEvent {
	t.Helper()
	d, err := deal.NewDeal("NEST-00007", uuid.New(), uuid.New(), deal.TermMonthly,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil, valueobject.NewMoneyIDR(decimal.NewFromInt(9000000)))
	require.NoError(t, err)
	return deal.NewInvoiceRequestedEvent(d)
}

func TestIdempotentHandler_Handle_NewEvent(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	event := newInvoiceRequestedEvent(t)
	mockHandler.On("Handle", mock.Anything, event).Return(nil)

	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), event))

	mockHandler.AssertExpectations(t)
	assert.Equal(t, int64(1), handler.Stats().Handled)

	processed, err := store.IsProcessed(context.Background(), "event:"+event.EventID().String())
	require.NoError(t, err)
	assert.True(t, processed)
	processed, err = store.IsProcessed(context.Background(), event.EventID().String())
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestIdempotentHandler_Handle_DuplicateEvent(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	event := newInvoiceRequestedEvent(t)
	mockHandler.On("Handle", mock.Anything, event).Return(nil).Once()

	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop())
	for i := 0; i < 3; i++ {
		require.NoError(t, handler.Handle(context.Background(), event))
	}

	mockHandler.AssertExpectations(t)
	assert.Equal(t, DeliveryStats{Handled: 1, Duplicate: 2}, handler.Stats())
}

func TestIdempotentHandler_Handle_HandlerError(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	event := newInvoiceRequestedEvent(t)
	expectedErr := errors.New("handler error")
	mockHandler.On("Handle", mock.Anything, event).Return(expectedErr)

	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop())
	err := handler.Handle(context.Background(), event)
	assert.Equal(t, expectedErr, err)
	assert.Equal(t, int64(1), handler.Stats().Failed)
}

func TestIdempotentHandler_Handle_StoreErrorStillProcesses(t *testing.T) {
	mockStore := new(MockIdempotencyStore)
	mockHandler := new(MockEventHandler)
	event := newInvoiceRequestedEvent(t)

	mockStore.On("MarkProcessed", mock.Anything, "event:"+event.EventID().String(), 24*time.Hour).
		Return(false, errors.New("redis down"))
	mockHandler.On("Handle", mock.Anything, event).Return(nil)

	handler := NewIdempotentHandler(mockHandler, mockStore, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), event))

	mockStore.AssertExpectations(t)
	mockHandler.AssertExpectations(t)
}

func TestIdempotentHandler_Handle_Disabled(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	event := newInvoiceRequestedEvent(t)
	mockHandler.On("Handle", mock.Anything, event).Return(nil).Times(3)

	cfg := shared.DefaultIdempotencyConfig()
	cfg.Enabled = false
	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop(), WithIdempotencyConfig(cfg))

	for i := 0; i < 3; i++ {
		require.NoError(t, handler.Handle(context.Background(), event))
	}
	mockHandler.AssertExpectations(t)
	assert.Equal(t, int64(0), handler.Stats().Handled)
}

func TestIdempotentHandler_Delegation(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	mockHandler.On("EventTypes").Return([]string{deal.EventTypeInvoiceRequested})

	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop())

	assert.Equal(t, []string{deal.EventTypeInvoiceRequested}, handler.EventTypes())
	assert.Equal(t, DeliveryStats{}, handler.Stats())
}

func TestIdempotentHandler_ConcurrentDuplicates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	mockHandler := new(MockEventHandler)
	event := newInvoiceRequestedEvent(t)
	mockHandler.On("Handle", mock.Anything, event).Return(nil).Once()

	handler := NewIdempotentHandler(mockHandler, store, zap.NewNop())

	const numGoroutines = 50
	errChan := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			errChan <- handler.Handle(context.Background(), event)
		}()
	}
	for i := 0; i < numGoroutines; i++ {
		assert.NoError(t, <-errChan)
	}

	mockHandler.AssertExpectations(t)
	assert.Equal(t, int64(1), handler.Stats().Handled)
	assert.Equal(t, int64(numGoroutines-1), handler.Stats().Duplicate)
}

package deal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSettingsRepo struct {
	mock.Mock
}

func (m *mockSettingsRepo) Get(ctx context.Context) (settings.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(settings.Settings), args.Error(1)
}

func (m *mockSettingsRepo) Save(ctx context.Context, s *settings.Settings) error {
	return m.Called(ctx, s).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, n FinanceNotification) error {
	return m.Called(ctx, n).Error(0)
}

func baseTime() time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func invoiceRequestedEvent(t *testing.T) *deal.InvoiceRequestedEvent {
	t.Helper()
	d, err := deal.NewDeal("NEST-00042", uuid.New(), uuid.New(), deal.TermDaily, baseTime(), nil,
		valueobject.NewMoneyIDR(decimal.NewFromInt(750000)))
	require.NoError(t, err)
	e := deal.NewInvoiceRequestedEvent(d)
	e.TenantName = "Budi"
	e.UnitCode = "A-101"
	return e
}

func TestInvoiceRequestedHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies the configured finance mailbox", func(t *testing.T) {
		repo := new(mockSettingsRepo)
		repo.On("Get", ctx).Return(settings.Settings{CompanyLegalName: "PT Nest", FinanceEmail: "ar@nest.id"}, nil)
		notifier := new(mockNotifier)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n FinanceNotification) bool {
			return n.Recipient == "ar@nest.id" && n.DealCode == "NEST-00042" && n.Amount == "750000.00" && n.UnitCode == "A-101"
		})).Return(nil)

		h := NewInvoiceRequestedHandler(repo, zap.NewNop()).WithNotifier(notifier)
		require.NoError(t, h.Handle(ctx, invoiceRequestedEvent(t)))
		notifier.AssertExpectations(t)
	})

	t.Run("falls back to default mailbox", func(t *testing.T) {
		repo := new(mockSettingsRepo)
		repo.On("Get", ctx).Return(settings.Settings{}, errors.New("db down"))
		notifier := new(mockNotifier)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n FinanceNotification) bool {
			return n.Recipient == settings.DefaultFinanceEmail
		})).Return(errors.New("smtp down"))

		h := NewInvoiceRequestedHandler(repo, zap.NewNop()).WithNotifier(notifier)
		assert.NoError(t, h.Handle(ctx, invoiceRequestedEvent(t)), "delivery failure is not propagated")
		notifier.AssertExpectations(t)
	})

	t.Run("rejects other events", func(t *testing.T) {
		h := NewInvoiceRequestedHandler(new(mockSettingsRepo), zap.NewNop())
		d, err := deal.NewDeal("NEST-1", uuid.New(), uuid.New(), deal.TermDaily, baseTime(), nil,
			valueobject.NewMoneyIDR(decimal.NewFromInt(1)))
		require.NoError(t, err)
		var evt shared.DomainEvent = deal.NewDealClosedEvent(d)
		assert.Error(t, h.Handle(ctx, evt))
	})

	assert.Equal(t, []string{deal.EventTypeInvoiceRequested}, NewInvoiceRequestedHandler(nil, zap.NewNop()).EventTypes())
}

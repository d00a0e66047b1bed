package deal_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/unit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealService_Create(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Create(h.ctx, appdeal.CreateDealRequest{
		TenantID:  h.tenant.ID,
		UnitID:    h.unit.ID,
		TermType:  "monthly",
		StartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}, web)
	require.NoError(t, err)

	assert.Equal(t, "NEST-00001", res.Deal.DealCode)
	assert.Equal(t, string(deal.StatusInProgress), res.Deal.Status)
	assert.Equal(t, string(deal.StepGenerateLOODraft), res.Deal.CurrentStep)
	assert.True(t, res.Deal.ListPrice.Equal(decimal.NewFromInt(12000000)))
	assert.Nil(t, res.Deal.DealPrice)
	assert.Equal(t, "completed", res.Journey.Steps[0].Status)
	assert.Equal(t, "current", res.Journey.Steps[1].Status)
	assert.Equal(t, unit.StatusReserved, h.unitStatus(h.unit.ID))
	assert.Len(t, h.publisher.ofType(deal.EventTypeDealCreated), 1)

	logs, err := h.svc.AuditTrail(h.ctx, res.Deal.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(audit.ActionCreateDeal), logs[0].Action)
	assert.Equal(t, "WEB", logs[0].Executor)

	t.Run("reserved unit cannot be booked again", func(t *testing.T) {
		_, err := h.svc.Create(h.ctx, appdeal.CreateDealRequest{
			TenantID: h.tenant.ID, UnitID: h.unit.ID, TermType: "DAILY", StartDate: time.Now(),
		}, web)
		assert.ErrorIs(t, err, shared.ErrStateConflict)
	})

	t.Run("unknown references", func(t *testing.T) {
		other := h.seedUnit("B-202")
		_, err := h.svc.Create(h.ctx, appdeal.CreateDealRequest{
			TenantID: uuid.New(), UnitID: other.ID, TermType: "DAILY", StartDate: time.Now(),
		}, web)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, unit.StatusAvailable, h.unitStatus(other.ID), "failed creation leaves the unit untouched")

		_, err = h.svc.Create(h.ctx, appdeal.CreateDealRequest{
			TenantID: h.tenant.ID, UnitID: uuid.New(), TermType: "DAILY", StartDate: time.Now(),
		}, web)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown term type", func(t *testing.T) {
		_, err := h.svc.Create(h.ctx, appdeal.CreateDealRequest{
			TenantID: h.tenant.ID, UnitID: h.unit.ID, TermType: "WEEKLY", StartDate: time.Now(),
		}, web)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestDealService_MonthlyJourney(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermMonthly)
	calls := 1

	h.generate(id, deal.StepGenerateLOODraft)
	calls++

	res, err := h.svc.SetDealPrice(h.ctx, id, appdeal.SetDealPriceRequest{
		DealPrice:    decimal.NewFromInt(11500000),
		ExpectedStep: string(deal.StepFinalizeLOO),
	}, web, appdeal.CommandOptions{})
	require.NoError(t, err)
	calls++
	require.NotNil(t, res.Deal.DealPrice)
	assert.True(t, res.Deal.DealPrice.Equal(decimal.NewFromInt(11500000)))

	h.generate(id, deal.StepFinalizeLOO)
	h.generate(id, deal.StepGenerateLeaseAgreement)
	res = h.generate(id, deal.StepGenerateOfficialConfirmation)
	calls += 3
	assert.Equal(t, string(deal.StepRequestInvoice), res.Deal.CurrentStep)

	_, err = h.svc.UploadInvoice(h.ctx, id, invoiceFile("early.pdf"), whatsapp, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStateConflict, "invoice cannot be uploaded before it is requested")
	assert.Equal(t, calls, h.auditCount(id))

	res, err = h.svc.RequestInvoice(h.ctx, id, whatsapp, appdeal.CommandOptions{})
	require.NoError(t, err)
	calls++
	assert.Equal(t, string(deal.StatusInvoiceRequested), res.Deal.Status)
	assert.Equal(t, string(deal.StepUploadInvoice), res.Deal.CurrentStep)

	requested := h.publisher.ofType(deal.EventTypeInvoiceRequested)
	require.Len(t, requested, 1)
	evt := requested[0].(*deal.InvoiceRequestedEvent)
	assert.Equal(t, "Budi Santoso", evt.TenantName)
	assert.Equal(t, "A-101", evt.UnitCode)
	assert.Equal(t, "11500000.00", evt.Amount)
	assert.Contains(t, evt.LatestDocument, string(deal.DocOfficialConfirmation))

	res, err = h.svc.UploadInvoice(h.ctx, id, invoiceFile("INV-001.pdf"), whatsapp, appdeal.CommandOptions{})
	require.NoError(t, err)
	calls++
	require.Len(t, res.Deal.Attachments, 1)
	assert.True(t, h.store.has(res.Deal.Attachments[0].FilePath))
	assert.Equal(t, string(deal.StepGenerateMoveIn), res.Deal.CurrentStep)
	require.NotNil(t, res.Deal.BlockedReason)

	t.Run("move-in is blocked until a date is set", func(t *testing.T) {
		before := h.producer.calls
		_, err := h.svc.GenerateDocument(h.ctx, id, web, appdeal.CommandOptions{})
		assert.ErrorIs(t, err, shared.ErrStateConflict)
		assert.Equal(t, before, h.producer.calls, "nothing is rendered for a blocked step")
	})

	res, err = h.svc.SetMoveInDetails(h.ctx, id, appdeal.SetMoveInRequest{
		MoveInDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		MoveInNotes: "keys at lobby",
	}, web, appdeal.CommandOptions{})
	require.NoError(t, err)
	calls++
	assert.Nil(t, res.Deal.BlockedReason)

	h.generate(id, deal.StepGenerateMoveIn)
	res = h.generate(id, deal.StepGenerateHandover)
	calls += 2
	assert.Equal(t, string(deal.StepDealClosed), res.Deal.CurrentStep)

	res, err = h.svc.Close(h.ctx, id, web, appdeal.CommandOptions{})
	require.NoError(t, err)
	calls++
	assert.Equal(t, string(deal.StatusCompleted), res.Deal.Status)
	assert.Equal(t, "completed", res.Journey.Steps[len(res.Journey.Steps)-1].Status)
	assert.Equal(t, unit.StatusOccupied, h.unitStatus(h.unit.ID))

	assert.Equal(t, calls, h.auditCount(id), "one audit entry per successful call")
	assert.Len(t, res.Deal.Documents, 6)

	t.Run("completed deal rejects every action", func(t *testing.T) {
		_, err := h.svc.GenerateDocument(h.ctx, id, web, appdeal.CommandOptions{})
		assert.ErrorIs(t, err, shared.ErrStateConflict)
		_, err = h.svc.Cancel(h.ctx, id, appdeal.CancelDealRequest{Reason: "late"}, web, appdeal.CommandOptions{})
		assert.ErrorIs(t, err, shared.ErrStateConflict)
		_, err = h.svc.Override(h.ctx, id, appdeal.OverrideRequest{Reason: "x", TargetStep: string(deal.StepRequestInvoice)}, web, appdeal.CommandOptions{})
		assert.ErrorIs(t, err, shared.ErrStateConflict)
		assert.Equal(t, calls, h.auditCount(id))
	})
}

func TestDealService_PricingDefault(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermDaily)

	res := h.generate(id, deal.StepGenerateBookingConfirmation)
	require.NotNil(t, res.Deal.DealPrice, "pricing document fixes the deal price")
	assert.True(t, res.Deal.DealPrice.Equal(res.Deal.ListPrice))

	_, err := h.svc.SetDealPrice(h.ctx, id, appdeal.SetDealPriceRequest{DealPrice: decimal.NewFromInt(1)}, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStateConflict, "price is fixed once negotiation steps are past")
}

func TestDealService_SetDealPrice_Guards(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermMonthly)

	_, err := h.svc.SetDealPrice(h.ctx, id, appdeal.SetDealPriceRequest{DealPrice: decimal.NewFromInt(100)}, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStateConflict, "LOO draft is not a pricing step")

	h.generate(id, deal.StepGenerateLOODraft)
	_, err = h.svc.SetDealPrice(h.ctx, id, appdeal.SetDealPriceRequest{DealPrice: decimal.NewFromInt(-5)}, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = h.svc.SetMoveInDetails(h.ctx, id, appdeal.SetMoveInRequest{MoveInDate: time.Now()}, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStateConflict)
	assert.Equal(t, 2, h.auditCount(id))
}

func TestDealService_WrongActionForStep(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermMonthly)

	_, err := h.svc.RequestInvoice(h.ctx, id, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStateConflict)

	_, err = h.svc.UploadInvoice(h.ctx, id, invoiceFile("inv.pdf"), web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStateConflict)

	_, err = h.svc.Close(h.ctx, id, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStateConflict)

	got, err := h.svc.Get(h.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version, "rejected calls do not write")
	assert.Equal(t, 1, h.auditCount(id))
}

func TestDealService_MismatchedActionsRejected(t *testing.T) {
	type action struct {
		kind deal.ActionKind
		run  func(h *harness, id uuid.UUID) error
	}
	actions := []action{
		{deal.ActionGenerate, func(h *harness, id uuid.UUID) error {
			_, err := h.svc.GenerateDocument(h.ctx, id, web, appdeal.CommandOptions{})
			return err
		}},
		{deal.ActionInvoiceRequest, func(h *harness, id uuid.UUID) error {
			_, err := h.svc.RequestInvoice(h.ctx, id, whatsapp, appdeal.CommandOptions{})
			return err
		}},
		{deal.ActionInvoiceUpload, func(h *harness, id uuid.UUID) error {
			_, err := h.svc.UploadInvoice(h.ctx, id, invoiceFile("inv.pdf"), whatsapp, appdeal.CommandOptions{})
			return err
		}},
		{deal.ActionClose, func(h *harness, id uuid.UUID) error {
			_, err := h.svc.Close(h.ctx, id, web, appdeal.CommandOptions{})
			return err
		}},
	}

	tests := []struct {
		term  deal.TermType
		steps int
	}{
		{deal.TermMonthly, 9},
		{deal.TermDaily, 6},
	}

	for _, tt := range tests {
		t.Run(string(tt.term), func(t *testing.T) {
			h := newHarness(t)
			id := h.createDeal(tt.term)
			registry := deal.NewJourneyRegistry()

			visited := 0
			for {
				got, err := h.svc.Get(h.ctx, id)
				require.NoError(t, err)
				if got.Status == string(deal.StatusCompleted) {
					break
				}
				current := deal.StepID(got.CurrentStep)
				if current == deal.StepGenerateMoveIn {
					_, err := h.svc.SetMoveInDetails(h.ctx, id, appdeal.SetMoveInRequest{MoveInDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}, web, appdeal.CommandOptions{})
					require.NoError(t, err)
				}
				step, ok := registry.Step(tt.term, current)
				require.True(t, ok, "step %s belongs to the journey", current)

				before := h.auditCount(id)
				var matching action
				for _, a := range actions {
					if a.kind == step.Action {
						matching = a
						continue
					}
					err := a.run(h, id)
					assert.ErrorIs(t, err, shared.ErrStateConflict, "%s at %s", a.kind, current)
				}
				assert.Equal(t, before, h.auditCount(id), "rejected actions at %s leave no audit entry", current)

				require.NotNil(t, matching.run, "step %s has an engine action", current)
				require.NoError(t, matching.run(h, id), "%s at %s", matching.kind, current)
				visited++
			}
			assert.Equal(t, tt.steps, visited)
		})
	}
}

func TestDealService_ExpectedStep(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermDaily)

	_, err := h.svc.GenerateDocument(h.ctx, id, web, appdeal.CommandOptions{ExpectedStep: string(deal.StepRequestInvoice)})
	assert.ErrorIs(t, err, shared.ErrStateConflict)
	assert.Zero(t, h.producer.calls)

	_, err = h.svc.GenerateDocument(h.ctx, id, web, appdeal.CommandOptions{ExpectedStep: "NOT_A_STEP"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	h.generate(id, deal.StepGenerateBookingConfirmation)
}

func TestDealService_Idempotency(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermDaily)
	opts := appdeal.CommandOptions{IdempotencyKey: "retry-1"}

	first, err := h.svc.GenerateDocument(h.ctx, id, whatsapp, opts)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := h.svc.GenerateDocument(h.ctx, id, whatsapp, opts)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Deal.Version, second.Deal.Version)
	assert.Equal(t, 1, h.producer.calls)
	assert.Equal(t, 2, h.auditCount(id))

	third, err := h.svc.GenerateDocument(h.ctx, id, whatsapp, appdeal.CommandOptions{IdempotencyKey: "retry-2"})
	require.NoError(t, err)
	assert.False(t, third.Replayed)
	assert.Equal(t, string(deal.StepRequestInvoice), third.Deal.CurrentStep)
}

func TestDealService_Cancel(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermMonthly)

	_, err := h.svc.Cancel(h.ctx, id, appdeal.CancelDealRequest{Reason: "   "}, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	res, err := h.svc.Cancel(h.ctx, id, appdeal.CancelDealRequest{Reason: "tenant withdrew"}, web, appdeal.CommandOptions{})
	require.NoError(t, err)
	assert.Equal(t, string(deal.StatusCancelled), res.Deal.Status)
	require.NotNil(t, res.Deal.BlockedReason)
	assert.Equal(t, unit.StatusAvailable, h.unitStatus(h.unit.ID))

	_, err = h.svc.GenerateDocument(h.ctx, id, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStateConflict)
	_, err = h.svc.Cancel(h.ctx, id, appdeal.CancelDealRequest{Reason: "again"}, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStateConflict)

	logs, err := h.svc.AuditTrail(h.ctx, id)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Deal NEST-00001 cancelled. Reason: tenant withdrew", logs[1].Summary)

	h.createDeal(deal.TermDaily)
}

func TestDealService_Override(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermDaily)
	h.generate(id, deal.StepGenerateBookingConfirmation)

	t.Run("bot channel is forbidden", func(t *testing.T) {
		_, err := h.svc.Override(h.ctx, id, appdeal.OverrideRequest{Reason: "fix", TargetStep: string(deal.StepGenerateBookingConfirmation)}, whatsapp, appdeal.CommandOptions{})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("target must belong to the journey", func(t *testing.T) {
		_, err := h.svc.Override(h.ctx, id, appdeal.OverrideRequest{Reason: "fix", TargetStep: string(deal.StepFinalizeLOO)}, web, appdeal.CommandOptions{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("backward override regenerates a new version", func(t *testing.T) {
		res, err := h.svc.Override(h.ctx, id, appdeal.OverrideRequest{Reason: "wrong tenant name", TargetStep: string(deal.StepGenerateBookingConfirmation)}, web, appdeal.CommandOptions{})
		require.NoError(t, err)
		assert.Equal(t, string(deal.StepGenerateBookingConfirmation), res.Deal.CurrentStep)

		res = h.generate(id, deal.StepGenerateBookingConfirmation)
		require.Len(t, res.Deal.Documents, 1)
		doc := res.Deal.Documents[0]
		assert.Equal(t, 2, doc.LatestVersion)
		require.Len(t, doc.Versions, 2)
		assert.False(t, doc.Versions[0].IsLatest)
		assert.True(t, doc.Versions[1].IsLatest)
		assert.Equal(t, string(deal.StepGenerateOfficialConfirmation), res.Deal.CurrentStep)

		dl, err := h.svc.DownloadDocument(h.ctx, id, deal.DocBookingConfirmation, 1)
		require.NoError(t, err)
		defer dl.Body.Close()
		body, err := io.ReadAll(dl.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "v1")
		assert.Equal(t, "BOOKING_CONFIRMATION_v1.pdf", dl.FileName)
	})

	t.Run("forward override skips steps", func(t *testing.T) {
		res, err := h.svc.Override(h.ctx, id, appdeal.OverrideRequest{Reason: "invoice sent by email", TargetStep: string(deal.StepGenerateHandover)}, web, appdeal.CommandOptions{})
		require.NoError(t, err)
		assert.Equal(t, string(deal.StepGenerateHandover), res.Deal.CurrentStep)

		logs, err := h.svc.AuditTrail(h.ctx, id)
		require.NoError(t, err)
		last := logs[len(logs)-1]
		assert.Equal(t, string(audit.ActionEmergencyOverride), last.Action)
		assert.Equal(t, string(deal.StepGenerateOfficialConfirmation), last.Metadata["from_step"])
	})

	assert.Len(t, h.publisher.ofType(deal.EventTypeDealOverridden), 2)
}

func TestDealService_OverridePastInvoice(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermDaily)
	h.generate(id, deal.StepGenerateBookingConfirmation)

	_, err := h.svc.Override(h.ctx, id, appdeal.OverrideRequest{Reason: "finance sent the invoice directly", TargetStep: string(deal.StepUploadInvoice)}, web, appdeal.CommandOptions{})
	require.NoError(t, err)
	res, err := h.svc.UploadInvoice(h.ctx, id, invoiceFile("inv.pdf"), web, appdeal.CommandOptions{})
	require.NoError(t, err)
	assert.Equal(t, string(deal.StepGenerateHandover), res.Deal.CurrentStep)
	before := h.auditCount(id)

	for _, target := range []deal.StepID{deal.StepGenerateBookingConfirmation, deal.StepRequestInvoice} {
		_, err := h.svc.Override(h.ctx, id, appdeal.OverrideRequest{Reason: "redo", TargetStep: string(target)}, web, appdeal.CommandOptions{})
		assert.ErrorIs(t, err, shared.ErrStateConflict, "reopening %s would orphan the uploaded invoice", target)
	}
	assert.Equal(t, before, h.auditCount(id))

	res, err = h.svc.Override(h.ctx, id, appdeal.OverrideRequest{Reason: "handover done offline", TargetStep: string(deal.StepDealClosed)}, web, appdeal.CommandOptions{})
	require.NoError(t, err)
	assert.Equal(t, string(deal.StepDealClosed), res.Deal.CurrentStep)

	journey, err := h.svc.Journey(h.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(deal.StepDealClosed), journey.CurrentStep, "deal still resolves after the override")
}

func TestDealService_UploadValidation(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermDaily)
	h.generate(id, deal.StepGenerateBookingConfirmation)
	h.generate(id, deal.StepGenerateOfficialConfirmation)
	_, err := h.svc.RequestInvoice(h.ctx, id, web, appdeal.CommandOptions{})
	require.NoError(t, err)

	empty := invoiceFile("inv.pdf")
	empty.Size = 0
	_, err = h.svc.UploadInvoice(h.ctx, id, empty, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	huge := invoiceFile("inv.pdf")
	huge.Size = appdeal.MaxInvoiceSize + 1
	_, err = h.svc.UploadInvoice(h.ctx, id, huge, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	res, err := h.svc.UploadInvoice(h.ctx, id, invoiceFile("inv.pdf"), web, appdeal.CommandOptions{})
	require.NoError(t, err)
	assert.Equal(t, string(deal.StepGenerateHandover), res.Deal.CurrentStep, "daily journey has no move-in step")
}

func TestDealService_ProducerFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermDaily)
	h.producer.fail = errors.New("chrome unavailable")

	_, err := h.svc.GenerateDocument(h.ctx, id, web, appdeal.CommandOptions{})
	assert.ErrorIs(t, err, shared.ErrStorage)

	got, err := h.svc.Get(h.ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Documents)
	assert.Nil(t, got.DealPrice)
	assert.Equal(t, 1, got.Version)
}

func TestDealService_ConcurrentClose(t *testing.T) {
	h := newHarness(t)
	id := h.createDeal(deal.TermDaily)
	h.generate(id, deal.StepGenerateBookingConfirmation)
	h.generate(id, deal.StepGenerateOfficialConfirmation)
	_, err := h.svc.RequestInvoice(h.ctx, id, web, appdeal.CommandOptions{})
	require.NoError(t, err)
	_, err = h.svc.UploadInvoice(h.ctx, id, invoiceFile("inv.pdf"), web, appdeal.CommandOptions{})
	require.NoError(t, err)
	h.generate(id, deal.StepGenerateHandover)
	before := h.auditCount(id)

	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.svc.Close(context.Background(), id, web, appdeal.CommandOptions{})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, shared.ErrStateConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, before+1, h.auditCount(id))
	assert.Len(t, h.publisher.ofType(deal.EventTypeDealClosed), 1)
}

func TestDealService_Reads(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Get(h.ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = h.svc.AuditTrail(h.ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	id := h.createDeal(deal.TermTwelveMonths)
	journey, err := h.svc.Journey(h.ctx, id)
	require.NoError(t, err)
	require.Len(t, journey.Steps, 10)
	assert.Equal(t, string(deal.StepGenerateLOODraft), journey.CurrentStep)

	_, err = h.svc.DownloadDocument(h.ctx, id, deal.DocLOODraft, 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	h.generate(id, deal.StepGenerateLOODraft)
	_, err = h.svc.DownloadDocument(h.ctx, id, deal.DocLOODraft, 2)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

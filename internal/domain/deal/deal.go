package deal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
)

// AggregateType is the aggregate type name used in domain events
const AggregateType = "Deal"

// Deal binds a tenant, a unit and a term type and is driven through the
// journey for that term type until it is closed or cancelled.
//
// CurrentStep and BlockedReason are snapshots of the last resolution and are
// only ever written through ApplyResolution.
type Deal struct {
	shared.BaseAggregateRoot
	DealCode           string
	TenantID           uuid.UUID
	UnitID             uuid.UUID
	TermType           TermType
	StartDate          time.Time
	EndDate            *time.Time
	ListPrice          valueobject.Money
	DealPrice          *valueobject.Money
	Status             Status
	CurrentStep        StepID
	BlockedReason      string
	InvoiceRequestedAt *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	MoveInDate         *time.Time
	MoveInNotes        string
	OverrideStep       StepID
	OverrideAt         *time.Time
}

// NewDeal creates a deal in DRAFT at SELECT_UNIT
func NewDeal(code string, tenantID, unitID uuid.UUID, term TermType, start time.Time, end *time.Time, listPrice valueobject.Money) (*Deal, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewValidationError("deal code cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("tenant_id is required")
	}
	if unitID == uuid.Nil {
		return nil, shared.NewValidationError("unit_id is required")
	}
	if !term.IsValid() {
		return nil, shared.NewValidationError("invalid term_type %q", term)
	}
	if start.IsZero() {
		return nil, shared.NewValidationError("start_date is required")
	}
	if end != nil && end.Before(start) {
		return nil, shared.NewValidationError("end_date must not be before start_date")
	}
	if !listPrice.IsPositive() {
		return nil, shared.NewValidationError("list price must be positive")
	}

	d := &Deal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DealCode:          code,
		TenantID:          tenantID,
		UnitID:            unitID,
		TermType:          term,
		StartDate:         start,
		EndDate:           end,
		ListPrice:         listPrice,
		Status:            StatusDraft,
		CurrentStep:       StepSelectUnit,
	}
	d.AddDomainEvent(NewDealCreatedEvent(d))
	return d, nil
}

// Currency returns the currency of the deal's prices
func (d *Deal) Currency() valueobject.Currency {
	return d.ListPrice.Currency()
}

// EffectivePrice returns the negotiated price, or the list price when none
// has been agreed yet.
func (d *Deal) EffectivePrice() valueobject.Money {
	if d.DealPrice != nil {
		return *d.DealPrice
	}
	return d.ListPrice
}

// IsCancelled returns true if the deal was cancelled
func (d *Deal) IsCancelled() bool {
	return d.Status == StatusCancelled
}

// IsCompleted returns true if the deal was closed
func (d *Deal) IsCompleted() bool {
	return d.Status == StatusCompleted
}

// EnsureMutable rejects any mutation of a terminal deal
func (d *Deal) EnsureMutable() error {
	switch d.Status {
	case StatusCancelled:
		return shared.NewStateConflictError("deal %s has been cancelled and cannot be modified", d.DealCode)
	case StatusCompleted:
		return shared.NewStateConflictError("deal %s is completed and cannot be modified", d.DealCode)
	}
	return nil
}

// Start moves a freshly created deal out of DRAFT once SELECT_UNIT is done
func (d *Deal) Start(now time.Time) {
	if d.Status == StatusDraft {
		d.Status = StatusInProgress
		d.touch(now)
	}
}

// RecordDocumentGenerated applies the effects of a completed generate step.
// Generating the pricing document fixes the deal price to the list price when
// no price was negotiated.
func (d *Deal) RecordDocumentGenerated(step JourneyStep, versionNo int, now time.Time) {
	if step.IsPricingStep() && d.DealPrice == nil {
		price := d.ListPrice
		d.DealPrice = &price
	}
	if d.Status == StatusDraft {
		d.Status = StatusInProgress
	}
	d.touch(now)
	d.AddDomainEvent(NewDocumentGeneratedEvent(d, step.DocType, versionNo))
}

// RequestInvoice records the invoice request
func (d *Deal) RequestInvoice(now time.Time) {
	t := now
	d.InvoiceRequestedAt = &t
	d.Status = StatusInvoiceRequested
	d.touch(now)
	d.AddDomainEvent(NewInvoiceRequestedEvent(d))
}

// RecordInvoiceUploaded records that an INVOICE attachment was stored
func (d *Deal) RecordInvoiceUploaded(now time.Time) {
	d.Status = StatusInvoiceUploaded
	d.touch(now)
}

// Close completes the deal
func (d *Deal) Close(now time.Time) {
	d.Status = StatusCompleted
	d.touch(now)
	d.AddDomainEvent(NewDealClosedEvent(d))
}

// Cancel terminates the deal with a mandatory reason
func (d *Deal) Cancel(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("cancellation reason is required")
	}
	if err := d.EnsureMutable(); err != nil {
		return err
	}
	t := now
	d.Status = StatusCancelled
	d.CancelledAt = &t
	d.CancellationReason = reason
	d.touch(now)
	d.AddDomainEvent(NewDealCancelledEvent(d))
	return nil
}

// Override moves the override pointer to target. Steps before the pointer
// count as satisfied; the pointer step itself needs a completion recorded at
// or after now.
func (d *Deal) Override(target StepID, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewValidationError("override reason is required")
	}
	if err := d.EnsureMutable(); err != nil {
		return err
	}
	t := now
	from := d.CurrentStep
	d.OverrideStep = target
	d.OverrideAt = &t
	d.touch(now)
	d.AddDomainEvent(NewDealOverriddenEvent(d, from, target))
	return nil
}

// SetDealPrice records a negotiated price
func (d *Deal) SetDealPrice(price valueobject.Money, now time.Time) error {
	if err := d.EnsureMutable(); err != nil {
		return err
	}
	if !price.IsPositive() {
		return shared.NewValidationError("deal_price must be positive")
	}
	if price.Currency() != d.Currency() {
		return shared.NewValidationError("deal_price currency %s does not match deal currency %s", price.Currency(), d.Currency())
	}
	d.DealPrice = &price
	d.touch(now)
	return nil
}

// SetMoveInDetails records the agreed move-in date
func (d *Deal) SetMoveInDetails(date time.Time, notes string, now time.Time) error {
	if err := d.EnsureMutable(); err != nil {
		return err
	}
	if date.IsZero() {
		return shared.NewValidationError("move_in_date is required")
	}
	t := date
	d.MoveInDate = &t
	d.MoveInNotes = strings.TrimSpace(notes)
	d.touch(now)
	return nil
}

// ApplyResolution stores the derived step snapshot
func (d *Deal) ApplyResolution(r Resolution) {
	d.CurrentStep = r.Current().ID
	d.BlockedReason = r.BlockedReason
}

func (d *Deal) touch(now time.Time) {
	d.UpdatedAt = now
}

// FormatDealCode renders the human readable code for the n-th deal
func FormatDealCode(n int64) string {
	return fmt.Sprintf("NEST-%05d", n)
}

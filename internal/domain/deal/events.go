package deal

import (
	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/shared"
)

// Event types
const (
	EventTypeDealCreated       = "DealCreated"
	EventTypeDocumentGenerated = "DocumentGenerated"
	EventTypeInvoiceRequested  = "InvoiceRequested"
	EventTypeDealClosed        = "DealClosed"
	EventTypeDealCancelled     = "DealCancelled"
	EventTypeDealOverridden    = "DealOverridden"
)

// DealCreatedEvent is raised when a deal is created
type DealCreatedEvent struct {
	shared.BaseDomainEvent
	DealCode string    `json:"deal_code"`
	TermType TermType  `json:"term_type"`
	UnitID   uuid.UUID `json:"unit_id"`
}

// NewDealCreatedEvent creates a new DealCreatedEvent
func NewDealCreatedEvent(d *Deal) *DealCreatedEvent {
	return &DealCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCreated, AggregateType, d.ID),
		DealCode:        d.DealCode,
		TermType:        d.TermType,
		UnitID:          d.UnitID,
	}
}

// DocumentGeneratedEvent is raised when a document version is stored
type DocumentGeneratedEvent struct {
	shared.BaseDomainEvent
	DealCode  string       `json:"deal_code"`
	DocType   DocumentType `json:"doc_type"`
	VersionNo int          `json:"version_no"`
}

// NewDocumentGeneratedEvent creates a new DocumentGeneratedEvent
func NewDocumentGeneratedEvent(d *Deal, docType DocumentType, versionNo int) *DocumentGeneratedEvent {
	return &DocumentGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentGenerated, AggregateType, d.ID),
		DealCode:        d.DealCode,
		DocType:         docType,
		VersionNo:       versionNo,
	}
}

// InvoiceRequestedEvent is raised when finance is asked to issue an invoice.
// The application layer fills in the display fields before publishing.
type InvoiceRequestedEvent struct {
	shared.BaseDomainEvent
	DealCode       string    `json:"deal_code"`
	TenantID       uuid.UUID `json:"tenant_id"`
	UnitID         uuid.UUID `json:"unit_id"`
	TenantName     string    `json:"tenant_name"`
	UnitCode       string    `json:"unit_code"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	LatestDocument string    `json:"latest_document,omitempty"`
}

// NewInvoiceRequestedEvent creates a new InvoiceRequestedEvent
func NewInvoiceRequestedEvent(d *Deal) *InvoiceRequestedEvent {
	price := d.EffectivePrice()
	return &InvoiceRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceRequested, AggregateType, d.ID),
		DealCode:        d.DealCode,
		TenantID:        d.TenantID,
		UnitID:          d.UnitID,
		Amount:          price.Amount().StringFixed(2),
		Currency:        string(price.Currency()),
	}
}

// DealClosedEvent is raised when a deal completes
type DealClosedEvent struct {
	shared.BaseDomainEvent
	DealCode string    `json:"deal_code"`
	UnitID   uuid.UUID `json:"unit_id"`
}

// NewDealClosedEvent creates a new DealClosedEvent
func NewDealClosedEvent(d *Deal) *DealClosedEvent {
	return &DealClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealClosed, AggregateType, d.ID),
		DealCode:        d.DealCode,
		UnitID:          d.UnitID,
	}
}

// DealCancelledEvent is raised when a deal is cancelled
type DealCancelledEvent struct {
	shared.BaseDomainEvent
	DealCode string `json:"deal_code"`
	Reason   string `json:"reason"`
}

// NewDealCancelledEvent creates a new DealCancelledEvent
func NewDealCancelledEvent(d *Deal) *DealCancelledEvent {
	return &DealCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCancelled, AggregateType, d.ID),
		DealCode:        d.DealCode,
		Reason:          d.CancellationReason,
	}
}

// DealOverriddenEvent is raised when an emergency override moves the pointer
type DealOverriddenEvent struct {
	shared.BaseDomainEvent
	DealCode string `json:"deal_code"`
	FromStep StepID `json:"from_step"`
	ToStep   StepID `json:"to_step"`
}

// NewDealOverriddenEvent creates a new DealOverriddenEvent
func NewDealOverriddenEvent(d *Deal, from, to StepID) *DealOverriddenEvent {
	return &DealOverriddenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealOverridden, AggregateType, d.ID),
		DealCode:        d.DealCode,
		FromStep:        from,
		ToStep:          to,
	}
}

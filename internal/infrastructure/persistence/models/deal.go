package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DealModel is the persistence model for the Deal aggregate root.
type DealModel struct {
	AggregateModel
	DealCode           string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	TenantID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	UnitID             uuid.UUID        `gorm:"type:uuid;not null;index"`
	TermType           string           `gorm:"type:varchar(20);not null"`
	StartDate          time.Time        `gorm:"not null"`
	EndDate            *time.Time       `gorm:""`
	ListPrice          decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	DealPrice          *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Currency           string           `gorm:"type:varchar(3);not null;default:'IDR'"`
	Status             string           `gorm:"type:varchar(30);not null;index"`
	CurrentStep        string           `gorm:"type:varchar(50);not null"`
	BlockedReason      string           `gorm:"type:text"`
	InvoiceRequestedAt *time.Time       `gorm:""`
	CancelledAt        *time.Time       `gorm:""`
	CancellationReason string           `gorm:"type:text"`
	MoveInDate         *time.Time       `gorm:""`
	MoveInNotes        string           `gorm:"type:text"`
	OverrideStep       string           `gorm:"type:varchar(50)"`
	OverrideAt         *time.Time       `gorm:""`
}

// TableName returns the table name for GORM
func (DealModel) TableName() string {
	return "deals"
}

// ToDomain converts the persistence model to a domain Deal.
func (m *DealModel) ToDomain() *deal.Deal {
	currency := valueobject.Currency(m.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	d := &deal.Deal{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		DealCode:           m.DealCode,
		TenantID:           m.TenantID,
		UnitID:             m.UnitID,
		TermType:           deal.TermType(m.TermType),
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		ListPrice:          valueobject.MustNewMoney(m.ListPrice, currency),
		Status:             deal.Status(m.Status),
		CurrentStep:        deal.StepID(m.CurrentStep),
		BlockedReason:      m.BlockedReason,
		InvoiceRequestedAt: m.InvoiceRequestedAt,
		CancelledAt:        m.CancelledAt,
		CancellationReason: m.CancellationReason,
		MoveInDate:         m.MoveInDate,
		MoveInNotes:        m.MoveInNotes,
		OverrideStep:       deal.StepID(m.OverrideStep),
		OverrideAt:         m.OverrideAt,
	}
	if m.DealPrice != nil {
		price := valueobject.MustNewMoney(*m.DealPrice, currency)
		d.DealPrice = &price
	}
	return d
}

// FromDomain populates the persistence model from a domain Deal.
func (m *DealModel) FromDomain(d *deal.Deal) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.DealCode = d.DealCode
	m.TenantID = d.TenantID
	m.UnitID = d.UnitID
	m.TermType = string(d.TermType)
	m.StartDate = d.StartDate
	m.EndDate = d.EndDate
	m.ListPrice = d.ListPrice.Amount()
	m.Currency = string(d.Currency())
	m.DealPrice = nil
	if d.DealPrice != nil {
		amount := d.DealPrice.Amount()
		m.DealPrice = &amount
	}
	m.Status = string(d.Status)
	m.CurrentStep = string(d.CurrentStep)
	m.BlockedReason = d.BlockedReason
	m.InvoiceRequestedAt = d.InvoiceRequestedAt
	m.CancelledAt = d.CancelledAt
	m.CancellationReason = d.CancellationReason
	m.MoveInDate = d.MoveInDate
	m.MoveInNotes = d.MoveInNotes
	m.OverrideStep = string(d.OverrideStep)
	m.OverrideAt = d.OverrideAt
}

// DealModelFromDomain creates a new persistence model from a domain Deal.
func DealModelFromDomain(d *deal.Deal) *DealModel {
	m := &DealModel{}
	m.FromDomain(d)
	return m
}

package models

import (
	"time"

	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/nestapp/backend/internal/domain/tenant"
	"github.com/nestapp/backend/internal/domain/unit"
	"github.com/shopspring/decimal"
)

// TenantModel is the persistence model for the Tenant aggregate root.
type TenantModel struct {
	AggregateModel
	FullName    string `gorm:"type:varchar(200);not null"`
	Phone       string `gorm:"type:varchar(50);not null"`
	Email       string `gorm:"type:varchar(200);not null;index"`
	CompanyName string `gorm:"type:varchar(200)"`
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant.
func (m *TenantModel) ToDomain() *tenant.Tenant {
	return &tenant.Tenant{
		BaseAggregateRoot: m.ToAggregateRoot(),
		FullName:          m.FullName,
		Phone:             m.Phone,
		Email:             m.Email,
		CompanyName:       m.CompanyName,
		Notes:             m.Notes,
	}
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant.
func TenantModelFromDomain(t *tenant.Tenant) *TenantModel {
	m := &TenantModel{
		FullName:    t.FullName,
		Phone:       t.Phone,
		Email:       t.Email,
		CompanyName: t.CompanyName,
		Notes:       t.Notes,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}

// UnitModel is the persistence model for the Unit aggregate root.
type UnitModel struct {
	AggregateModel
	UnitCode         string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	UnitType         string           `gorm:"type:varchar(50);not null"`
	Status           string           `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	Notes            string           `gorm:"type:text"`
	DailyPrice       *decimal.Decimal `gorm:"type:decimal(18,2)"`
	MonthlyPrice     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	SixMonthPrice    *decimal.Decimal `gorm:"type:decimal(18,2)"`
	TwelveMonthPrice *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Currency         string           `gorm:"type:varchar(3);not null;default:'IDR'"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit.
func (m *UnitModel) ToDomain() *unit.Unit {
	currency := valueobject.Currency(m.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &unit.Unit{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UnitCode:          m.UnitCode,
		UnitType:          m.UnitType,
		Status:            unit.Status(m.Status),
		Notes:             m.Notes,
		Prices: unit.Prices{
			Daily:       m.DailyPrice,
			Monthly:     m.MonthlyPrice,
			SixMonth:    m.SixMonthPrice,
			TwelveMonth: m.TwelveMonthPrice,
		},
		Currency: currency,
	}
}

// UnitModelFromDomain creates a new persistence model from a domain Unit.
func UnitModelFromDomain(u *unit.Unit) *UnitModel {
	m := &UnitModel{
		UnitCode:         u.UnitCode,
		UnitType:         u.UnitType,
		Status:           string(u.Status),
		Notes:            u.Notes,
		DailyPrice:       u.Prices.Daily,
		MonthlyPrice:     u.Prices.Monthly,
		SixMonthPrice:    u.Prices.SixMonth,
		TwelveMonthPrice: u.Prices.TwelveMonth,
		Currency:         string(u.Currency),
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}

// SettingsID is the primary key of the single settings row
const SettingsID = 1

// SettingsModel is the persistence model for the company settings record.
type SettingsModel struct {
	ID               int       `gorm:"primaryKey;autoIncrement:false"`
	CompanyLegalName string    `gorm:"type:varchar(200);not null"`
	CompanyAddress   string    `gorm:"type:text"`
	SignatoryName    string    `gorm:"type:varchar(200)"`
	SignatoryTitle   string    `gorm:"type:varchar(200)"`
	FinanceEmail     string    `gorm:"type:varchar(200);not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingsModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to domain Settings.
func (m *SettingsModel) ToDomain() settings.Settings {
	return settings.Settings{
		CompanyLegalName: m.CompanyLegalName,
		CompanyAddress:   m.CompanyAddress,
		SignatoryName:    m.SignatoryName,
		SignatoryTitle:   m.SignatoryTitle,
		FinanceEmail:     m.FinanceEmail,
		UpdatedAt:        m.UpdatedAt,
	}
}

// SettingsModelFromDomain creates the persistence model for the settings row.
func SettingsModelFromDomain(s *settings.Settings) *SettingsModel {
	return &SettingsModel{
		ID:               SettingsID,
		CompanyLegalName: s.CompanyLegalName,
		CompanyAddress:   s.CompanyAddress,
		SignatoryName:    s.SignatoryName,
		SignatoryTitle:   s.SignatoryTitle,
		FinanceEmail:     s.FinanceEmail,
		UpdatedAt:        s.UpdatedAt,
	}
}

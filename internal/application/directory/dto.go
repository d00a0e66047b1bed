package directory

import (
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/tenant"
	"github.com/nestapp/backend/internal/domain/unit"
	"github.com/shopspring/decimal"
)

// TenantRequest is the input for creating or updating a tenant
type TenantRequest struct {
	FullName    string `json:"full_name" binding:"required,max=200"`
	Phone       string `json:"phone" binding:"required,max=50"`
	Email       string `json:"email" binding:"required,email"`
	CompanyName string `json:"company_name" binding:"max=200"`
	Notes       string `json:"notes" binding:"max=2000"`
}

func (r TenantRequest) details() tenant.Details {
	return tenant.Details{
		FullName:    r.FullName,
		Phone:       r.Phone,
		Email:       r.Email,
		CompanyName: r.CompanyName,
		Notes:       r.Notes,
	}
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToTenantResponse converts a domain tenant
func ToTenantResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:          t.ID,
		FullName:    t.FullName,
		Phone:       t.Phone,
		Email:       t.Email,
		CompanyName: t.CompanyName,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
}

// UnitRequest is the input for creating or updating a unit
type UnitRequest struct {
	UnitCode         string           `json:"unit_code" binding:"required,max=20"`
	UnitType         string           `json:"unit_type" binding:"max=50"`
	Notes            string           `json:"notes" binding:"max=2000"`
	DailyPrice       *decimal.Decimal `json:"daily_price"`
	MonthlyPrice     *decimal.Decimal `json:"monthly_price"`
	SixMonthPrice    *decimal.Decimal `json:"six_month_price"`
	TwelveMonthPrice *decimal.Decimal `json:"twelve_month_price"`
	Currency         string           `json:"currency" binding:"omitempty,len=3"`
}

func (r UnitRequest) prices() unit.Prices {
	return unit.Prices{
		Daily:       r.DailyPrice,
		Monthly:     r.MonthlyPrice,
		SixMonth:    r.SixMonthPrice,
		TwelveMonth: r.TwelveMonthPrice,
	}
}

// UnitResponse represents a unit in API responses
type UnitResponse struct {
	ID               uuid.UUID        `json:"id"`
	UnitCode         string           `json:"unit_code"`
	UnitType         string           `json:"unit_type"`
	Status           string           `json:"status"`
	Notes            string           `json:"notes,omitempty"`
	DailyPrice       *decimal.Decimal `json:"daily_price"`
	MonthlyPrice     *decimal.Decimal `json:"monthly_price"`
	SixMonthPrice    *decimal.Decimal `json:"six_month_price"`
	TwelveMonthPrice *decimal.Decimal `json:"twelve_month_price"`
	Currency         string           `json:"currency"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Version          int              `json:"version"`
}

// ToUnitResponse converts a domain unit
func ToUnitResponse(u *unit.Unit) UnitResponse {
	return UnitResponse{
		ID:               u.ID,
		UnitCode:         u.UnitCode,
		UnitType:         u.UnitType,
		Status:           string(u.Status),
		Notes:            u.Notes,
		DailyPrice:       u.Prices.Daily,
		MonthlyPrice:     u.Prices.Monthly,
		SixMonthPrice:    u.Prices.SixMonth,
		TwelveMonthPrice: u.Prices.TwelveMonth,
		Currency:         string(u.Currency),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
		Version:          u.Version,
	}
}

// SettingsRequest is the input for updating the company settings
type SettingsRequest struct {
	CompanyLegalName string `json:"company_legal_name" binding:"required,max=200"`
	CompanyAddress   string `json:"company_address" binding:"max=500"`
	SignatoryName    string `json:"signatory_name" binding:"max=200"`
	SignatoryTitle   string `json:"signatory_title" binding:"max=200"`
	FinanceEmail     string `json:"finance_email" binding:"required,email"`
}

// SettingsResponse represents the company settings
type SettingsResponse struct {
	CompanyLegalName string    `json:"company_legal_name"`
	CompanyAddress   string    `json:"company_address"`
	SignatoryName    string    `json:"signatory_name"`
	SignatoryTitle   string    `json:"signatory_title"`
	FinanceEmail     string    `json:"finance_email"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// ToSettingsResponse converts the settings record
func ToSettingsResponse(s settings.Settings) SettingsResponse {
	return SettingsResponse{
		CompanyLegalName: s.CompanyLegalName,
		CompanyAddress:   s.CompanyAddress,
		SignatoryName:    s.SignatoryName,
		SignatoryTitle:   s.SignatoryTitle,
		FinanceEmail:     s.FinanceEmail,
		UpdatedAt:        s.UpdatedAt,
	}
}

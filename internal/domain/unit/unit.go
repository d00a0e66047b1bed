package unit

import (
	"strings"
	"time"

	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status is the availability of a unit
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusReserved  Status = "RESERVED"
	StatusOccupied  Status = "OCCUPIED"
)

// DefaultUnitType is used when a unit is created without a type
const DefaultUnitType = "Standard"

// Prices holds the optional list price per lease term
type Prices struct {
	Daily       *decimal.Decimal
	Monthly     *decimal.Decimal
	SixMonth    *decimal.Decimal
	TwelveMonth *decimal.Decimal
}

func (p Prices) validate() error {
	for name, v := range map[string]*decimal.Decimal{
		"daily_price":        p.Daily,
		"monthly_price":      p.Monthly,
		"six_month_price":    p.SixMonth,
		"twelve_month_price": p.TwelveMonth,
	} {
		if v != nil && !v.IsPositive() {
			return shared.NewValidationError("%s must be positive", name)
		}
	}
	return nil
}

// Unit is a leasable apartment. Its status is changed only as a side effect
// of the deal lifecycle.
type Unit struct {
	shared.BaseAggregateRoot
	UnitCode string
	UnitType string
	Status   Status
	Notes    string
	Prices   Prices
	Currency valueobject.Currency
}

// NewUnit creates an AVAILABLE unit
func NewUnit(code, unitType, notes string, prices Prices, currency valueobject.Currency) (*Unit, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewValidationError("unit_code is required")
	}
	if len(code) > 20 {
		return nil, shared.NewValidationError("unit_code must be at most 20 characters")
	}
	if err := prices.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(unitType) == "" {
		unitType = DefaultUnitType
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &Unit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UnitCode:          code,
		UnitType:          strings.TrimSpace(unitType),
		Status:            StatusAvailable,
		Notes:             strings.TrimSpace(notes),
		Prices:            prices,
		Currency:          currency,
	}, nil
}

// Update replaces the descriptive fields and prices
func (u *Unit) Update(unitType, notes string, prices Prices) error {
	if err := prices.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(unitType) != "" {
		u.UnitType = strings.TrimSpace(unitType)
	}
	u.Notes = strings.TrimSpace(notes)
	u.Prices = prices
	u.UpdatedAt = time.Now()
	return nil
}

// Reserve marks the unit as held by a new deal
func (u *Unit) Reserve() error {
	if u.Status != StatusAvailable {
		return shared.NewStateConflictError("unit %s is not available for booking", u.UnitCode)
	}
	u.Status = StatusReserved
	u.UpdatedAt = time.Now()
	return nil
}

// Occupy marks the unit as occupied by a closed deal
func (u *Unit) Occupy() {
	u.Status = StatusOccupied
	u.UpdatedAt = time.Now()
}

// Release makes the unit available again
func (u *Unit) Release() {
	u.Status = StatusAvailable
	u.UpdatedAt = time.Now()
}

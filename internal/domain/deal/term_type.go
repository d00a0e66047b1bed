package deal

import (
	"strings"

	"github.com/nestapp/backend/internal/domain/shared"
)

// TermType is the lease term a deal is created with. It never changes.
type TermType string

const (
	TermDaily        TermType = "DAILY"
	TermMonthly      TermType = "MONTHLY"
	TermSixMonths    TermType = "SIX_MONTHS"
	TermTwelveMonths TermType = "TWELVE_MONTHS"
)

// AllTermTypes returns all term types in display order
func AllTermTypes() []TermType {
	return []TermType{TermDaily, TermMonthly, TermSixMonths, TermTwelveMonths}
}

// IsValid reports whether t is a known term type
func (t TermType) IsValid() bool {
	switch t {
	case TermDaily, TermMonthly, TermSixMonths, TermTwelveMonths:
		return true
	}
	return false
}

// String returns the string representation
func (t TermType) String() string {
	return string(t)
}

// ParseTermType parses a term type name
func ParseTermType(s string) (TermType, error) {
	t := TermType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.NewValidationError("invalid term_type %q", s)
	}
	return t, nil
}

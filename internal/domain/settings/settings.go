package settings

import (
	"context"
	"strings"
	"time"

	"github.com/nestapp/backend/internal/domain/shared"
)

// Defaults applied when no settings row exists yet
const (
	DefaultCompanyLegalName = "NEST Serviced Apartment"
	DefaultFinanceEmail     = "finance@example.com"
)

// Settings is the single company settings record
type Settings struct {
	CompanyLegalName string
	CompanyAddress   string
	SignatoryName    string
	SignatoryTitle   string
	FinanceEmail     string
	UpdatedAt        time.Time
}

// Default returns the settings used before anyone saved them
func Default() Settings {
	return Settings{
		CompanyLegalName: DefaultCompanyLegalName,
		FinanceEmail:     DefaultFinanceEmail,
	}
}

// Validate normalises and checks the settings
func (s *Settings) Validate() error {
	s.CompanyLegalName = strings.TrimSpace(s.CompanyLegalName)
	s.CompanyAddress = strings.TrimSpace(s.CompanyAddress)
	s.SignatoryName = strings.TrimSpace(s.SignatoryName)
	s.SignatoryTitle = strings.TrimSpace(s.SignatoryTitle)
	s.FinanceEmail = strings.ToLower(strings.TrimSpace(s.FinanceEmail))
	if s.CompanyLegalName == "" {
		return shared.NewValidationError("company_legal_name is required")
	}
	if !strings.Contains(s.FinanceEmail, "@") {
		return shared.NewValidationError("finance_email must be an email address")
	}
	return nil
}

// Repository loads and stores the settings record
type Repository interface {
	// Get returns the stored settings, or Default() if none were saved
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s *Settings) error
}

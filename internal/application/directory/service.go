package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/nestapp/backend/internal/domain/tenant"
	"github.com/nestapp/backend/internal/domain/unit"
	"go.uber.org/zap"
)

// Service manages the records a deal depends on: tenants, units and the
// company settings. Every write is audited in the same transaction.
type Service struct {
	txScope appdeal.TransactionScope
	logger  *zap.Logger
}

// NewService creates a new directory Service
func NewService(txScope appdeal.TransactionScope, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{txScope: txScope, logger: logger}
}

func appendAudit(ctx context.Context, repos appdeal.TransactionalRepositories, identity shared.Identity, action audit.Action, summary string, metadata map[string]any) error {
	entry, err := audit.NewLog(identity, action, summary, nil, metadata)
	if err != nil {
		return err
	}
	return repos.AuditRepo().Append(ctx, entry)
}

// CreateTenant creates a tenant
func (s *Service) CreateTenant(ctx context.Context, req TenantRequest, identity shared.Identity) (*TenantResponse, error) {
	t, err := tenant.NewTenant(req.details())
	if err != nil {
		return nil, err
	}
	err = s.txScope.Execute(ctx, func(repos appdeal.TransactionalRepositories) error {
		if err := repos.TenantRepo().Create(ctx, t); err != nil {
			return err
		}
		return appendAudit(ctx, repos, identity, audit.ActionCreateTenant,
			fmt.Sprintf("Created tenant %s", t.FullName),
			map[string]any{"tenant_id": t.ID.String()})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tenant created", zap.String("tenant_id", t.ID.String()))
	resp := ToTenantResponse(t)
	return &resp, nil
}

// GetTenant returns a tenant by ID
func (s *Service) GetTenant(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	var t *tenant.Tenant
	err := s.txScope.Execute(ctx, func(repos appdeal.TransactionalRepositories) error {
		var err error
		t, err = repos.TenantRepo().FindByID(ctx, id)
		return notFound(err, "tenant", id)
	})
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// UpdateTenant replaces a tenant's details
func (s *Service) UpdateTenant(ctx context.Context, id uuid.UUID, req TenantRequest, identity shared.Identity) (*TenantResponse, error) {
	var t *tenant.Tenant
	err := s.txScope.Execute(ctx, func(repos appdeal.TransactionalRepositories) error {
		var err error
		t, err = repos.TenantRepo().FindByID(ctx, id)
		if err := notFound(err, "tenant", id); err != nil {
			return err
		}
		if err := t.Update(req.details()); err != nil {
			return err
		}
		if err := repos.TenantRepo().Save(ctx, t); err != nil {
			return err
		}
		return appendAudit(ctx, repos, identity, audit.ActionUpdateTenant,
			fmt.Sprintf("Updated tenant %s", t.FullName),
			map[string]any{"tenant_id": t.ID.String()})
	})
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// CreateUnit creates an AVAILABLE unit
func (s *Service) CreateUnit(ctx context.Context, req UnitRequest, identity shared.Identity) (*UnitResponse, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewValidationError("%s", err.Error())
	}
	u, err := unit.NewUnit(req.UnitCode, req.UnitType, req.Notes, req.prices(), currency)
	if err != nil {
		return nil, err
	}
	err = s.txScope.Execute(ctx, func(repos appdeal.TransactionalRepositories) error {
		exists, err := repos.UnitRepo().ExistsByCode(ctx, u.UnitCode)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewStateConflictError("unit code %s already exists", u.UnitCode)
		}
		if err := repos.UnitRepo().Create(ctx, u); err != nil {
			return err
		}
		return appendAudit(ctx, repos, identity, audit.ActionCreateUnit,
			fmt.Sprintf("Created unit %s", u.UnitCode),
			map[string]any{"unit_id": u.ID.String(), "unit_type": u.UnitType})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("unit created", zap.String("unit_code", u.UnitCode))
	resp := ToUnitResponse(u)
	return &resp, nil
}

// GetUnit returns a unit by ID
func (s *Service) GetUnit(ctx context.Context, id uuid.UUID) (*UnitResponse, error) {
	var u *unit.Unit
	err := s.txScope.Execute(ctx, func(repos appdeal.TransactionalRepositories) error {
		var err error
		u, err = repos.UnitRepo().FindByID(ctx, id)
		return notFound(err, "unit", id)
	})
	if err != nil {
		return nil, err
	}
	resp := ToUnitResponse(u)
	return &resp, nil
}

// UpdateUnit changes a unit's type, notes and prices. The unit code and
// status cannot be edited.
func (s *Service) UpdateUnit(ctx context.Context, id uuid.UUID, req UnitRequest, identity shared.Identity) (*UnitResponse, error) {
	var u *unit.Unit
	err := s.txScope.Execute(ctx, func(repos appdeal.TransactionalRepositories) error {
		var err error
		u, err = repos.UnitRepo().FindByID(ctx, id)
		if err := notFound(err, "unit", id); err != nil {
			return err
		}
		if err := u.Update(req.UnitType, req.Notes, req.prices()); err != nil {
			return err
		}
		u.IncrementVersion()
		if err := repos.UnitRepo().SaveWithLock(ctx, u); err != nil {
			return err
		}
		return appendAudit(ctx, repos, identity, audit.ActionUpdateUnit,
			fmt.Sprintf("Updated unit %s", u.UnitCode),
			map[string]any{"unit_id": u.ID.String()})
	})
	if err != nil {
		return nil, err
	}
	resp := ToUnitResponse(u)
	return &resp, nil
}

// GetSettings returns the company settings
func (s *Service) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	var cfg settings.Settings
	err := s.txScope.Execute(ctx, func(repos appdeal.TransactionalRepositories) error {
		var err error
		cfg, err = repos.SettingsRepo().Get(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(cfg)
	return &resp, nil
}

// UpdateSettings replaces the company settings
func (s *Service) UpdateSettings(ctx context.Context, req SettingsRequest, identity shared.Identity) (*SettingsResponse, error) {
	cfg := settings.Settings{
		CompanyLegalName: req.CompanyLegalName,
		CompanyAddress:   req.CompanyAddress,
		SignatoryName:    req.SignatoryName,
		SignatoryTitle:   req.SignatoryTitle,
		FinanceEmail:     req.FinanceEmail,
		UpdatedAt:        time.Now().UTC(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	err := s.txScope.Execute(ctx, func(repos appdeal.TransactionalRepositories) error {
		if err := repos.SettingsRepo().Save(ctx, &cfg); err != nil {
			return err
		}
		return appendAudit(ctx, repos, identity, audit.ActionUpdateSettings,
			"Updated company settings",
			map[string]any{"finance_email": cfg.FinanceEmail})
	})
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(cfg)
	return &resp, nil
}

func notFound(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(resource, id)
	}
	return err
}

package tenant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/shared"
)

// Tenant is the person or company leasing a unit
type Tenant struct {
	shared.BaseAggregateRoot
	FullName    string
	Phone       string
	Email       string
	CompanyName string
	Notes       string
}

// Details holds the editable fields of a tenant
type Details struct {
	FullName    string
	Phone       string
	Email       string
	CompanyName string
	Notes       string
}

func (d Details) normalize() (Details, error) {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	d.Notes = strings.TrimSpace(d.Notes)
	if d.FullName == "" {
		return d, shared.NewValidationError("full_name is required")
	}
	if d.Phone == "" {
		return d, shared.NewValidationError("phone is required")
	}
	if at := strings.Index(d.Email, "@"); at < 1 || at == len(d.Email)-1 {
		return d, shared.NewValidationError("invalid email %q", d.Email)
	}
	return d, nil
}

// NewTenant creates a tenant
func NewTenant(details Details) (*Tenant, error) {
	d, err := details.normalize()
	if err != nil {
		return nil, err
	}
	t := &Tenant{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	t.apply(d)
	return t, nil
}

// Update replaces the tenant's details
func (t *Tenant) Update(details Details) error {
	d, err := details.normalize()
	if err != nil {
		return err
	}
	t.apply(d)
	t.UpdatedAt = time.Now()
	return nil
}

func (t *Tenant) apply(d Details) {
	t.FullName = d.FullName
	t.Phone = d.Phone
	t.Email = d.Email
	t.CompanyName = d.CompanyName
	t.Notes = d.Notes
}

// TenantRepository persists tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	Create(ctx context.Context, t *Tenant) error
	Save(ctx context.Context, t *Tenant) error
}

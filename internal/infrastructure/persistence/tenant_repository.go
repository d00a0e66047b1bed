package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/tenant"
	"github.com/nestapp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "tenant")
	}
	return model.ToDomain(), nil
}

// Create inserts a new tenant
func (r *GormTenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	return translateError(r.db.WithContext(ctx).Create(models.TenantModelFromDomain(t)).Error, "tenant")
}

// Save writes all fields of a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *tenant.Tenant) error {
	return r.db.WithContext(ctx).Save(models.TenantModelFromDomain(t)).Error
}

var _ tenant.TenantRepository = (*GormTenantRepository)(nil)

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDealRepository implements DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByID finds a deal by its ID
func (r *GormDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*deal.Deal, error) {
	var model models.DealModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "deal")
	}
	return model.ToDomain(), nil
}

// Create inserts a new deal
func (r *GormDealRepository) Create(ctx context.Context, d *deal.Deal) error {
	return translateError(r.db.WithContext(ctx).Create(models.DealModelFromDomain(d)).Error, "deal")
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormDealRepository) SaveWithLock(ctx context.Context, d *deal.Deal) error {
	m := models.DealModelFromDomain(d)
	result := r.db.WithContext(ctx).
		Model(&models.DealModel{}).
		Where("id = ? AND version = ?", d.ID, d.Version-1).
		Updates(map[string]interface{}{
			"deal_price":           m.DealPrice,
			"status":               m.Status,
			"current_step":         m.CurrentStep,
			"blocked_reason":       m.BlockedReason,
			"invoice_requested_at": m.InvoiceRequestedAt,
			"cancelled_at":         m.CancelledAt,
			"cancellation_reason":  m.CancellationReason,
			"move_in_date":         m.MoveInDate,
			"move_in_notes":        m.MoveInNotes,
			"override_step":        m.OverrideStep,
			"override_at":          m.OverrideAt,
			"version":              m.Version,
			"updated_at":           m.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return concurrencyConflict("deal " + d.DealCode)
	}
	return nil
}

// Count returns the number of deals
func (r *GormDealRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DealModel{}).Count(&count).Error
	return count, err
}

// ExistsByCode checks if a deal code is taken
func (r *GormDealRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DealModel{}).Where("deal_code = ?", code).Count(&count).Error
	return count > 0, err
}

var _ deal.DealRepository = (*GormDealRepository)(nil)

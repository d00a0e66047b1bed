package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/unit"
	"github.com/nestapp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "unit")
	}
	return model.ToDomain(), nil
}

// ExistsByCode checks if a unit code exists
func (r *GormUnitRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UnitModel{}).
		Where("unit_code = ?", strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new unit
func (r *GormUnitRepository) Create(ctx context.Context, u *unit.Unit) error {
	return translateError(r.db.WithContext(ctx).Create(models.UnitModelFromDomain(u)).Error, "unit")
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormUnitRepository) SaveWithLock(ctx context.Context, u *unit.Unit) error {
	m := models.UnitModelFromDomain(u)
	result := r.db.WithContext(ctx).
		Model(&models.UnitModel{}).
		Where("id = ? AND version = ?", u.ID, u.Version-1).
		Updates(map[string]interface{}{
			"unit_type":          m.UnitType,
			"status":             m.Status,
			"notes":              m.Notes,
			"daily_price":        m.DailyPrice,
			"monthly_price":      m.MonthlyPrice,
			"six_month_price":    m.SixMonthPrice,
			"twelve_month_price": m.TwelveMonthPrice,
			"version":            m.Version,
			"updated_at":         m.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return concurrencyConflict("unit " + u.UnitCode)
	}
	return nil
}

var _ unit.UnitRepository = (*GormUnitRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository stores the single settings row
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stored settings, or the defaults when none were saved
func (r *GormSettingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	var model models.SettingsModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Settings{}, err
	}
	return model.ToDomain(), nil
}

// Save upserts the settings row
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(models.SettingsModelFromDomain(s)).Error
}

var _ settings.Repository = (*GormSettingsRepository)(nil)

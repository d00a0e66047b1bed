package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements the audit Repository using GORM.
// Rows are only ever inserted.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append inserts an audit entry
func (r *GormAuditLogRepository) Append(ctx context.Context, l *audit.Log) error {
	model, err := models.AuditLogModelFromDomain(l)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByDeal returns a deal's entries in chronological order
func (r *GormAuditLogRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]audit.Log, error) {
	var rows []models.AuditLogModel
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]audit.Log, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ audit.Repository = (*GormAuditLogRepository)(nil)

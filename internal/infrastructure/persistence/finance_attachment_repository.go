package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFinanceAttachmentRepository implements FinanceAttachmentRepository using GORM
type GormFinanceAttachmentRepository struct {
	db *gorm.DB
}

// NewGormFinanceAttachmentRepository creates a new GormFinanceAttachmentRepository
func NewGormFinanceAttachmentRepository(db *gorm.DB) *GormFinanceAttachmentRepository {
	return &GormFinanceAttachmentRepository{db: db}
}

// FindByDeal returns a deal's attachments in upload order
func (r *GormFinanceAttachmentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]deal.FinanceAttachment, error) {
	var rows []models.FinanceAttachmentModel
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("uploaded_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]deal.FinanceAttachment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts an attachment
func (r *GormFinanceAttachmentRepository) Create(ctx context.Context, a *deal.FinanceAttachment) error {
	return translateError(r.db.WithContext(ctx).Create(models.FinanceAttachmentModelFromDomain(a)).Error, "finance attachment")
}

var _ deal.FinanceAttachmentRepository = (*GormFinanceAttachmentRepository)(nil)

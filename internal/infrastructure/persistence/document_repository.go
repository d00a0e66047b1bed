package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

func orderedVersions(db *gorm.DB) *gorm.DB {
	return db.Order("version_no ASC")
}

// FindByDeal returns every document of a deal with its versions
func (r *GormDocumentRepository) FindByDeal(ctx context.Context, dealID uuid.UUID) ([]deal.Document, error) {
	var rows []models.DocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Versions", orderedVersions).
		Where("deal_id = ?", dealID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]deal.Document, len(rows))
	for i := range rows {
		docs[i] = *rows[i].ToDomain()
	}
	return docs, nil
}

// FindByDealAndType returns one document of a deal
func (r *GormDocumentRepository) FindByDealAndType(ctx context.Context, dealID uuid.UUID, docType deal.DocumentType) (*deal.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Versions", orderedVersions).
		Where("deal_id = ? AND doc_type = ?", dealID, string(docType)).
		First(&model).Error; err != nil {
		return nil, translateError(err, "document")
	}
	return model.ToDomain(), nil
}

// Create inserts the document record with no versions
func (r *GormDocumentRepository) Create(ctx context.Context, doc *deal.Document) error {
	var model models.DocumentModel
	model.FromDomain(doc)
	model.LatestVersion = 0
	return translateError(r.db.WithContext(ctx).Omit("Versions").Create(&model).Error, "document")
}

// AppendVersion inserts v and advances latest_version from v.VersionNo-1.
// The unique (document_id, version_no) index rejects a concurrent duplicate.
func (r *GormDocumentRepository) AppendVersion(ctx context.Context, doc *deal.Document, v *deal.DocumentVersion) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(models.DocumentVersionModelFromDomain(v)).Error; err != nil {
		return translateError(err, "document "+string(doc.DocType))
	}
	result := db.Model(&models.DocumentModel{}).
		Where("id = ? AND latest_version = ?", doc.ID, v.VersionNo-1).
		Updates(map[string]interface{}{
			"latest_version": v.VersionNo,
			"updated_at":     v.GeneratedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return concurrencyConflict("document " + string(doc.DocType))
	}
	return nil
}

var _ deal.DocumentRepository = (*GormDocumentRepository)(nil)

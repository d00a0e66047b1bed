package deal

import (
	"context"

	"github.com/google/uuid"
)

// DealRepository persists deals
type DealRepository interface {
	// FindByID returns the deal or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Deal, error)
	// Create inserts a new deal
	Create(ctx context.Context, d *Deal) error
	// SaveWithLock writes d only if the stored version equals d.Version-1.
	// A lost race returns a CONCURRENCY_CONFLICT error.
	SaveWithLock(ctx context.Context, d *Deal) error
	// Count returns the number of deals ever created
	Count(ctx context.Context) (int64, error)
	// ExistsByCode reports whether a deal code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// DocumentRepository persists documents and their versions
type DocumentRepository interface {
	// FindByDeal returns all documents of a deal with their versions
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]Document, error)
	// FindByDealAndType returns one document or shared.ErrNotFound
	FindByDealAndType(ctx context.Context, dealID uuid.UUID, docType DocumentType) (*Document, error)
	// Create inserts an empty document record
	Create(ctx context.Context, doc *Document) error
	// AppendVersion inserts v and advances the document's latest_version
	AppendVersion(ctx context.Context, doc *Document, v *DocumentVersion) error
}

// FinanceAttachmentRepository persists finance attachments
type FinanceAttachmentRepository interface {
	FindByDeal(ctx context.Context, dealID uuid.UUID) ([]FinanceAttachment, error)
	Create(ctx context.Context, a *FinanceAttachment) error
}

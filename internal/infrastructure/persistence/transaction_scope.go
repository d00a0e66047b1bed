package persistence

import (
	"context"
	"errors"

	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/tenant"
	"github.com/nestapp/backend/internal/domain/unit"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
// Driver and commit failures are reported as STORAGE_ERROR; domain errors
// raised by fn pass through unchanged.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appdeal.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	var de *shared.DomainError
	if err == nil || errors.As(err, &de) {
		return err
	}
	return shared.NewStorageError("database operation failed", err)
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) DealRepo() deal.DealRepository {
	return NewGormDealRepository(r.tx)
}

func (r *gormTransactionalRepositories) DocumentRepo() deal.DocumentRepository {
	return NewGormDocumentRepository(r.tx)
}

func (r *gormTransactionalRepositories) AttachmentRepo() deal.FinanceAttachmentRepository {
	return NewGormFinanceAttachmentRepository(r.tx)
}

func (r *gormTransactionalRepositories) UnitRepo() unit.UnitRepository {
	return NewGormUnitRepository(r.tx)
}

func (r *gormTransactionalRepositories) TenantRepo() tenant.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

func (r *gormTransactionalRepositories) AuditRepo() audit.Repository {
	return NewGormAuditLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) SettingsRepo() settings.Repository {
	return NewGormSettingsRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appdeal.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appdeal.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

package deal

import (
	"context"

	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/tenant"
	"github.com/nestapp/backend/internal/domain/unit"
)

// TransactionScope provides transactional access to the repositories a deal
// mutation touches. Every repository handed to fn shares one database
// transaction; an error from fn rolls all of them back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
//
// Aggregate boundary notes:
//   - DealRepo: the Deal aggregate root; its version column serializes every
//     mutation of one deal.
//   - DocumentRepo and AttachmentRepo: append-only children of a deal, only
//     written after the deal's version has been claimed.
//   - UnitRepo: unit availability changes as a side effect of the deal lifecycle.
//   - AuditRepo: append-only; exactly one row per call.
type TransactionalRepositories interface {
	DealRepo() deal.DealRepository
	DocumentRepo() deal.DocumentRepository
	AttachmentRepo() deal.FinanceAttachmentRepository
	UnitRepo() unit.UnitRepository
	TenantRepo() tenant.TenantRepository
	AuditRepo() audit.Repository
	SettingsRepo() settings.Repository
}

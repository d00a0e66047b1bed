package deal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/shared"
)

// Cancel terminates a deal and releases its unit. Every later engine call on
// the deal is rejected.
func (s *DealService) Cancel(ctx context.Context, dealID uuid.UUID, req CancelDealRequest, identity shared.Identity, opts CommandOptions) (*ActionResult, error) {
	return s.mutate(ctx, dealID, ActionNameCancel, identity, opts,
		func(ctx context.Context, repos TransactionalRepositories, st *dealState) (string, error) {
			d := st.deal
			if err := d.EnsureMutable(); err != nil {
				return "", err
			}
			reason := strings.TrimSpace(req.Reason)
			if err := d.Cancel(reason, s.now()); err != nil {
				return "", err
			}
			if err := s.commitDeal(ctx, repos, st); err != nil {
				return "", err
			}

			u, err := repos.UnitRepo().FindByID(ctx, d.UnitID)
			if err != nil {
				return "", s.collaboratorError("unit", d.UnitID, err)
			}
			u.Release()
			u.IncrementVersion()
			if err := repos.UnitRepo().SaveWithLock(ctx, u); err != nil {
				return "", err
			}

			if err := s.appendAudit(ctx, repos, identity, audit.ActionCancelDeal, &d.ID,
				fmt.Sprintf("Deal %s cancelled. Reason: %s", d.DealCode, reason),
				map[string]any{"reason": reason},
			); err != nil {
				return "", err
			}
			return "Deal cancelled.", nil
		})
}

package deal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
)

// SetDealPrice records the negotiated price while a pricing step is current
func (s *DealService) SetDealPrice(ctx context.Context, dealID uuid.UUID, req SetDealPriceRequest, identity shared.Identity, opts CommandOptions) (*ActionResult, error) {
	if opts.ExpectedStep == "" {
		opts.ExpectedStep = req.ExpectedStep
	}
	return s.mutate(ctx, dealID, ActionNameSetDealPrice, identity, opts,
		func(ctx context.Context, repos TransactionalRepositories, st *dealState) (string, error) {
			d := st.deal
			if err := d.EnsureMutable(); err != nil {
				return "", err
			}
			current := st.resolution.Current()
			if !current.IsPricingStep() {
				return "", shared.NewStateConflictError("deal price can only be changed while negotiating, deal %s is at %s", d.DealCode, current.ID)
			}
			price, err := valueobject.NewMoney(req.DealPrice, d.Currency())
			if err != nil {
				return "", shared.NewValidationError("%s", err.Error())
			}
			if err := d.SetDealPrice(price, s.now()); err != nil {
				return "", err
			}
			if err := s.commitDeal(ctx, repos, st); err != nil {
				return "", err
			}
			if err := s.appendAudit(ctx, repos, identity, audit.ActionUpdateDeal, &d.ID,
				fmt.Sprintf("Negotiated price set to %s for deal %s", price, d.DealCode),
				map[string]any{
					"field":      "deal_price",
					"list_price": d.ListPrice.Amount().StringFixed(2),
					"deal_price": price.Amount().StringFixed(2),
				},
			); err != nil {
				return "", err
			}
			return "Deal price updated.", nil
		})
}

// SetMoveInDetails records the move-in date that unblocks the move-in
// confirmation.
func (s *DealService) SetMoveInDetails(ctx context.Context, dealID uuid.UUID, req SetMoveInRequest, identity shared.Identity, opts CommandOptions) (*ActionResult, error) {
	if opts.ExpectedStep == "" {
		opts.ExpectedStep = req.ExpectedStep
	}
	return s.mutate(ctx, dealID, ActionNameSetMoveIn, identity, opts,
		func(ctx context.Context, repos TransactionalRepositories, st *dealState) (string, error) {
			d := st.deal
			if err := d.EnsureMutable(); err != nil {
				return "", err
			}
			if current := st.resolution.Current(); current.ID != deal.StepGenerateMoveIn {
				return "", shared.NewStateConflictError("move-in details can only be set at %s, deal %s is at %s",
					deal.StepGenerateMoveIn, d.DealCode, current.ID)
			}
			if err := d.SetMoveInDetails(req.MoveInDate, req.MoveInNotes, s.now()); err != nil {
				return "", err
			}
			if err := s.commitDeal(ctx, repos, st); err != nil {
				return "", err
			}
			if err := s.appendAudit(ctx, repos, identity, audit.ActionUpdateDeal, &d.ID,
				fmt.Sprintf("Move-in date set to %s for deal %s", d.MoveInDate.Format("2006-01-02"), d.DealCode),
				map[string]any{
					"field":         "move_in",
					"move_in_date":  d.MoveInDate.Format("2006-01-02"),
					"move_in_notes": d.MoveInNotes,
				},
			); err != nil {
				return "", err
			}
			return "Move-in details saved.", nil
		})
}

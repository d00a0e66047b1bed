package deal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
)

// Override moves the deal's override pointer to the requested step. Steps
// before it are treated as manually satisfied and the target step waits for
// a fresh completion. No document or attachment is created.
func (s *DealService) Override(ctx context.Context, dealID uuid.UUID, req OverrideRequest, identity shared.Identity, opts CommandOptions) (*ActionResult, error) {
	if identity.Channel == shared.ChannelWhatsApp {
		s.recorder.RecordAction(ctx, ActionNameOverride, shared.CodeForbidden)
		s.logger.Sugar().Warnw("emergency override rejected on bot channel",
			"deal_id", dealID.String(), "actor", identity.Actor)
		return nil, shared.NewForbiddenError("emergency override is not available on the WHATSAPP channel")
	}

	return s.mutate(ctx, dealID, ActionNameOverride, identity, opts,
		func(ctx context.Context, repos TransactionalRepositories, st *dealState) (string, error) {
			d := st.deal
			if err := d.EnsureMutable(); err != nil {
				return "", err
			}
			reason := strings.TrimSpace(req.Reason)
			if reason == "" {
				return "", shared.NewValidationError("override reason is required")
			}
			target, err := deal.ParseStepID(req.TargetStep)
			if err != nil {
				return "", err
			}
			if !s.resolver.Registry().Contains(d.TermType, target) {
				return "", shared.NewValidationError("step %s is not part of the %s journey", target, d.TermType)
			}

			registry := s.resolver.Registry()
			if d.InvoiceRequestedAt == nil && deal.InvoiceOnRecord(d, st.attachments) &&
				registry.IndexOf(d.TermType, target) <= registry.IndexOf(d.TermType, deal.StepRequestInvoice) {
				return "", shared.NewStateConflictError(
					"deal %s has an invoice accepted under a previous override, %s cannot be reopened", d.DealCode, deal.StepRequestInvoice)
			}

			from := st.resolution.Current().ID
			if err := d.Override(target, reason, s.now()); err != nil {
				return "", err
			}
			if err := s.commitDeal(ctx, repos, st); err != nil {
				return "", err
			}
			if err := s.appendAudit(ctx, repos, identity, audit.ActionEmergencyOverride, &d.ID,
				fmt.Sprintf("Emergency override on deal %s: %s → %s. Reason: %s", d.DealCode, from, target, reason),
				map[string]any{
					"reason":      reason,
					"from_step":   string(from),
					"target_step": string(target),
				},
			); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deal moved to %s.", st.resolution.Current().Label), nil
		})
}

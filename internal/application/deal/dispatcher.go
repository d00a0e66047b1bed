package deal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Engine action names used for idempotency keys, metrics and logs
const (
	ActionNameGenerate       = "generate-document"
	ActionNameRequestInvoice = "request-invoice"
	ActionNameUploadInvoice  = "upload-invoice"
	ActionNameClose          = "close"
	ActionNameCancel         = "cancel"
	ActionNameOverride       = "emergency-override"
	ActionNameSetDealPrice   = "set-deal-price"
	ActionNameSetMoveIn      = "set-move-in-details"
)

// MaxInvoiceSize is the largest accepted invoice upload
const MaxInvoiceSize = 20 << 20

// requireAction checks the dispatch preconditions shared by every action:
// the deal is mutable, the current step expects kind, and nothing blocks it.
func requireAction(st *dealState, kind deal.ActionKind) (deal.JourneyStep, error) {
	if err := st.deal.EnsureMutable(); err != nil {
		return deal.JourneyStep{}, err
	}
	current := st.resolution.Current()
	if current.Action != kind {
		return deal.JourneyStep{}, shared.NewStateConflictError(
			"deal %s is at step %s which expects action %q, not %q",
			st.deal.DealCode, current.ID, current.Action, kind)
	}
	if st.resolution.IsBlocked() {
		return deal.JourneyStep{}, shared.NewStateConflictError("%s", st.resolution.BlockedReason)
	}
	return current, nil
}

// GenerateDocument produces the next version of the current step's document
func (s *DealService) GenerateDocument(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts CommandOptions) (*ActionResult, error) {
	return s.mutate(ctx, dealID, ActionNameGenerate, identity, opts,
		func(ctx context.Context, repos TransactionalRepositories, st *dealState) (string, error) {
			step, err := requireAction(st, deal.ActionGenerate)
			if err != nil {
				return "", err
			}
			d := st.deal
			now := s.now()

			t, err := repos.TenantRepo().FindByID(ctx, d.TenantID)
			if err != nil {
				return "", s.collaboratorError("tenant", d.TenantID, err)
			}
			u, err := repos.UnitRepo().FindByID(ctx, d.UnitID)
			if err != nil {
				return "", s.collaboratorError("unit", d.UnitID, err)
			}
			cfg, err := repos.SettingsRepo().Get(ctx)
			if err != nil {
				return "", err
			}

			doc := st.document(step.DocType)
			isNew := doc == nil
			if isNew {
				doc = deal.NewDocument(d.ID, step.DocType)
				doc.CreatedAt, doc.UpdatedAt = now, now
			}
			versionNo := doc.NextVersionNo()

			// deal price defaults must be set before rendering
			d.RecordDocumentGenerated(step, versionNo, now)

			htmlPath, pdfPath := deal.DocumentPaths(d.ID, step.DocType, versionNo)
			produced, err := s.producer.Produce(ctx, ProduceRequest{
				Deal:      d,
				Tenant:    t,
				Unit:      u,
				Settings:  cfg,
				DocType:   step.DocType,
				VersionNo: versionNo,
				HTMLPath:  htmlPath,
				PDFPath:   pdfPath,
			})
			if err != nil {
				return "", asStorageError("failed to produce document", err)
			}

			v := doc.NewVersion(produced.HTMLPath, produced.PDFPath, cfg.SignatoryName, cfg.SignatoryTitle, identity.Channel, now)
			v.CreatedAt, v.UpdatedAt = now, now
			if err := doc.AppendVersion(v); err != nil {
				return "", err
			}
			if isNew {
				st.documents = append(st.documents, *doc)
			}

			if err := s.commitDeal(ctx, repos, st); err != nil {
				return "", err
			}
			if isNew {
				if err := repos.DocumentRepo().Create(ctx, doc); err != nil {
					return "", err
				}
			}
			if err := repos.DocumentRepo().AppendVersion(ctx, doc, &v); err != nil {
				return "", err
			}
			summary := fmt.Sprintf("Generated %s v%d for deal %s", step.DocType, versionNo, d.DealCode)
			if err := s.appendAudit(ctx, repos, identity, audit.ActionGenerateDocument, &d.ID, summary, map[string]any{
				"doc_type":   string(step.DocType),
				"version_no": versionNo,
				"pdf_path":   produced.PDFPath,
			}); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s v%d generated.", step.DocType.Label(), versionNo), nil
		})
}

// RequestInvoice asks finance to issue the invoice for the deal
func (s *DealService) RequestInvoice(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts CommandOptions) (*ActionResult, error) {
	return s.mutate(ctx, dealID, ActionNameRequestInvoice, identity, opts,
		func(ctx context.Context, repos TransactionalRepositories, st *dealState) (string, error) {
			if _, err := requireAction(st, deal.ActionInvoiceRequest); err != nil {
				return "", err
			}
			d := st.deal
			d.RequestInvoice(s.now())
			if err := s.enrichInvoiceRequested(ctx, repos, st); err != nil {
				return "", err
			}
			if err := s.commitDeal(ctx, repos, st); err != nil {
				return "", err
			}
			price := d.EffectivePrice()
			if err := s.appendAudit(ctx, repos, identity, audit.ActionRequestInvoice, &d.ID,
				fmt.Sprintf("Invoice requested for deal %s", d.DealCode),
				map[string]any{"amount": price.Amount().StringFixed(2), "currency": string(price.Currency())},
			); err != nil {
				return "", err
			}
			return "Invoice requested.", nil
		})
}

// enrichInvoiceRequested fills the display fields of the pending
// InvoiceRequested event.
func (s *DealService) enrichInvoiceRequested(ctx context.Context, repos TransactionalRepositories, st *dealState) error {
	d := st.deal
	var (
		latest   string
		latestAt time.Time
	)
	for i := range st.documents {
		if v := st.documents[i].Latest(); v != nil && !v.GeneratedAt.Before(latestAt) {
			latest, latestAt = v.PDFPath, v.GeneratedAt
		}
	}
	for _, evt := range d.GetDomainEvents() {
		e, ok := evt.(*deal.InvoiceRequestedEvent)
		if !ok {
			continue
		}
		t, err := repos.TenantRepo().FindByID(ctx, d.TenantID)
		if err != nil {
			return s.collaboratorError("tenant", d.TenantID, err)
		}
		u, err := repos.UnitRepo().FindByID(ctx, d.UnitID)
		if err != nil {
			return s.collaboratorError("unit", d.UnitID, err)
		}
		e.TenantName = t.FullName
		e.UnitCode = u.UnitCode
		e.LatestDocument = latest
	}
	return nil
}

// UploadInvoice stores the finance invoice for the deal
func (s *DealService) UploadInvoice(ctx context.Context, dealID uuid.UUID, file InvoiceUpload, identity shared.Identity, opts CommandOptions) (*ActionResult, error) {
	return s.mutate(ctx, dealID, ActionNameUploadInvoice, identity, opts,
		func(ctx context.Context, repos TransactionalRepositories, st *dealState) (string, error) {
			if _, err := requireAction(st, deal.ActionInvoiceUpload); err != nil {
				return "", err
			}
			if err := validateInvoiceUpload(file); err != nil {
				return "", err
			}
			d := st.deal
			now := s.now()
			path := deal.InvoicePath(d.ID, file.FileName)
			attachment, err := deal.NewFinanceAttachment(d.ID, deal.AttachmentInvoice, file.FileName, path, identity.Channel, now)
			if err != nil {
				return "", err
			}
			contentType := file.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			if err := s.fileStore.Put(ctx, path, file.Body, file.Size, contentType); err != nil {
				return "", asStorageError("failed to store invoice", err)
			}
			st.attachments = append(st.attachments, *attachment)

			d.RecordInvoiceUploaded(now)
			if err := s.commitDeal(ctx, repos, st); err != nil {
				return "", err
			}
			if err := repos.AttachmentRepo().Create(ctx, attachment); err != nil {
				return "", err
			}
			if err := s.appendAudit(ctx, repos, identity, audit.ActionUploadInvoice, &d.ID,
				fmt.Sprintf("Invoice uploaded for deal %s", d.DealCode),
				map[string]any{"file_name": file.FileName, "file_path": path},
			); err != nil {
				return "", err
			}
			return "Invoice uploaded.", nil
		})
}

func validateInvoiceUpload(file InvoiceUpload) error {
	if file.Body == nil || strings.TrimSpace(file.FileName) == "" {
		return shared.NewValidationError("invoice file is required")
	}
	if file.Size <= 0 {
		return shared.NewValidationError("invoice file is empty")
	}
	if file.Size > MaxInvoiceSize {
		return shared.NewValidationError("invoice file exceeds %d bytes", MaxInvoiceSize)
	}
	return nil
}

// Close completes the deal and occupies its unit
func (s *DealService) Close(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts CommandOptions) (*ActionResult, error) {
	return s.mutate(ctx, dealID, ActionNameClose, identity, opts,
		func(ctx context.Context, repos TransactionalRepositories, st *dealState) (string, error) {
			if _, err := requireAction(st, deal.ActionClose); err != nil {
				return "", err
			}
			if !st.resolution.PreviousComplete() {
				return "", shared.NewStateConflictError("deal %s cannot be closed before the previous step is complete", st.deal.DealCode)
			}
			d := st.deal
			now := s.now()
			d.Close(now)
			if err := s.commitDeal(ctx, repos, st); err != nil {
				return "", err
			}

			u, err := repos.UnitRepo().FindByID(ctx, d.UnitID)
			if err != nil {
				return "", s.collaboratorError("unit", d.UnitID, err)
			}
			u.Occupy()
			u.IncrementVersion()
			if err := repos.UnitRepo().SaveWithLock(ctx, u); err != nil {
				return "", err
			}

			if err := s.appendAudit(ctx, repos, identity, audit.ActionProgressDeal, &d.ID,
				fmt.Sprintf("Deal %s closed", d.DealCode),
				map[string]any{"status": string(d.Status), "unit_code": u.UnitCode},
			); err != nil {
				return "", err
			}
			return "Deal closed.", nil
		})
}

// collaboratorError reports a missing tenant or unit of an existing deal as
// a broken reference rather than a client error.
func (s *DealService) collaboratorError(resource string, id uuid.UUID, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("deal references a missing record", zap.String("resource", resource), zap.String("id", id.String()))
		return shared.NewDataIntegrityError("%s %s referenced by the deal does not exist", resource, id)
	}
	return err
}

func asStorageError(message string, err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.NewStorageError(message, err)
}

package deal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/audit"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/nestapp/backend/internal/domain/unit"
	"go.uber.org/zap"
)

// DealService is the deal journey engine. It creates deals, reads their
// derived journey, and executes every state transition inside one
// transaction guarded by the deal's version column.
type DealService struct {
	txScope     TransactionScope
	resolver    *deal.StepResolver
	producer    DocumentProducer
	fileStore   FileStore
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	publisher   shared.EventPublisher
	recorder    ActionRecorder
	logger      *zap.Logger
	now         func() time.Time
}

// ServiceOption configures a DealService
type ServiceOption func(*DealService)

// WithIdempotencyStore enables Idempotency-Key handling
func WithIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) ServiceOption {
	return func(s *DealService) {
		s.idempotency = store
		s.idemConfig = cfg
	}
}

// WithEventPublisher publishes deal events after each commit
func WithEventPublisher(publisher shared.EventPublisher) ServiceOption {
	return func(s *DealService) {
		s.publisher = publisher
	}
}

// WithActionRecorder reports engine outcomes to metrics
func WithActionRecorder(recorder ActionRecorder) ServiceOption {
	return func(s *DealService) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *DealService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *DealService) {
		s.now = now
	}
}

// NewDealService creates a new DealService
func NewDealService(
	txScope TransactionScope,
	resolver *deal.StepResolver,
	producer DocumentProducer,
	fileStore FileStore,
	opts ...ServiceOption,
) *DealService {
	s := &DealService{
		txScope:   txScope,
		resolver:  resolver,
		producer:  producer,
		fileStore: fileStore,
		recorder:  noopRecorder{},
		logger:    zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// dealState is everything the resolver reads for one deal
type dealState struct {
	deal        *deal.Deal
	documents   []deal.Document
	attachments []deal.FinanceAttachment
	resolution  deal.Resolution
}

func (st *dealState) input() deal.ResolverInput {
	return deal.ResolverInput{Deal: st.deal, Documents: st.documents, Attachments: st.attachments}
}

func (st *dealState) document(docType deal.DocumentType) *deal.Document {
	for i := range st.documents {
		if st.documents[i].DocType == docType {
			return &st.documents[i]
		}
	}
	return nil
}

func (s *DealService) loadState(ctx context.Context, repos TransactionalRepositories, dealID uuid.UUID) (*dealState, error) {
	d, err := repos.DealRepo().FindByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("deal", dealID)
		}
		return nil, err
	}
	docs, err := repos.DocumentRepo().FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	attachments, err := repos.AttachmentRepo().FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	st := &dealState{deal: d, documents: docs, attachments: attachments}
	if err := s.resolve(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *DealService) resolve(st *dealState) error {
	res, err := s.resolver.Resolve(st.input())
	if err != nil {
		if errors.Is(err, shared.ErrDataIntegrity) {
			s.logger.Error("deal history violates journey invariants",
				zap.String("deal_id", st.deal.ID.String()),
				zap.String("deal_code", st.deal.DealCode),
				zap.Error(err))
		}
		return err
	}
	st.resolution = res
	return nil
}

// commitDeal recomputes the derived step, bumps the version and writes the
// deal with a compare-and-swap on the previous version.
func (s *DealService) commitDeal(ctx context.Context, repos TransactionalRepositories, st *dealState) error {
	if err := s.resolve(st); err != nil {
		return err
	}
	st.deal.ApplyResolution(st.resolution)
	st.deal.IncrementVersion()
	return repos.DealRepo().SaveWithLock(ctx, st.deal)
}

func (s *DealService) appendAudit(ctx context.Context, repos TransactionalRepositories, identity shared.Identity, action audit.Action, dealID *uuid.UUID, summary string, metadata map[string]any) error {
	entry, err := audit.NewLog(identity, action, summary, dealID, metadata)
	if err != nil {
		return err
	}
	entry.CreatedAt = s.now()
	return repos.AuditRepo().Append(ctx, entry)
}

// mutateFunc applies one transition to a loaded deal inside the transaction
type mutateFunc func(ctx context.Context, repos TransactionalRepositories, st *dealState) (message string, err error)

// mutate runs fn under the deal's version lock. Replayed idempotency keys
// return the current view without executing fn.
func (s *DealService) mutate(ctx context.Context, dealID uuid.UUID, action string, identity shared.Identity, opts CommandOptions, fn mutateFunc) (*ActionResult, error) {
	idemKey := s.idempotencyKey(dealID, action, opts.IdempotencyKey)
	if idemKey != "" {
		seen, err := s.idempotency.IsProcessed(ctx, idemKey)
		if err != nil {
			s.logger.Warn("idempotency lookup failed", zap.String("key", idemKey), zap.Error(err))
		} else if seen {
			result, err := s.view(ctx, dealID, "Request already processed.")
			if err != nil {
				return nil, err
			}
			result.Replayed = true
			s.recorder.RecordAction(ctx, action, "replayed")
			return result, nil
		}
	}

	var (
		st      *dealState
		message string
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		st, err = s.loadState(ctx, repos, dealID)
		if err != nil {
			return err
		}
		if err := checkExpectedStep(st, opts.ExpectedStep); err != nil {
			return err
		}
		message, err = fn(ctx, repos, st)
		return err
	})
	if err != nil {
		s.logFailure(dealID, action, identity, err)
		s.recorder.RecordAction(ctx, action, outcomeOf(err))
		return nil, err
	}

	if idemKey != "" {
		if _, err := s.idempotency.MarkProcessed(ctx, idemKey, s.idemConfig.TTL); err != nil {
			s.logger.Warn("failed to record idempotency key", zap.String("key", idemKey), zap.Error(err))
		}
	}
	s.publishEvents(ctx, st.deal)
	s.recorder.RecordAction(ctx, action, "success")
	s.logger.Info("deal transition committed",
		zap.String("deal_code", st.deal.DealCode),
		zap.String("action", action),
		zap.String("status", string(st.deal.Status)),
		zap.String("current_step", string(st.deal.CurrentStep)),
		zap.String("actor", identity.Actor),
		zap.String("channel", string(identity.Channel)))

	return &ActionResult{
		Message: message,
		Deal:    ToDealResponse(st.deal, st.documents, st.attachments),
		Journey: ToJourneyResponse(st.deal, st.resolution),
	}, nil
}

func (s *DealService) idempotencyKey(dealID uuid.UUID, action, key string) string {
	if key == "" || s.idempotency == nil || !s.idemConfig.Enabled {
		return ""
	}
	return fmt.Sprintf("deal:%s:%s:%s", dealID, action, key)
}

func checkExpectedStep(st *dealState, expected string) error {
	if expected == "" {
		return nil
	}
	step, err := deal.ParseStepID(expected)
	if err != nil {
		return err
	}
	if current := st.resolution.Current().ID; current != step {
		return shared.NewStateConflictError("deal %s is at step %s, expected %s", st.deal.DealCode, current, step)
	}
	return nil
}

func (s *DealService) logFailure(dealID uuid.UUID, action string, identity shared.Identity, err error) {
	fields := []zap.Field{
		zap.String("deal_id", dealID.String()),
		zap.String("action", action),
		zap.String("actor", identity.Actor),
		zap.String("channel", string(identity.Channel)),
		zap.Error(err),
	}
	switch shared.ErrorCode(err) {
	case shared.CodeStateConfl, shared.CodeConcurrency, shared.CodeForbidden:
		s.logger.Warn("deal transition rejected", fields...)
	case shared.CodeValidation, shared.CodeNotFound:
		s.logger.Debug("deal transition rejected", fields...)
	case shared.CodeIntegrity:
		// already logged by resolve
	default:
		s.logger.Error("deal transition failed", fields...)
	}
}

func outcomeOf(err error) string {
	switch code := shared.ErrorCode(err); code {
	case "":
		return "error"
	default:
		return code
	}
}

func (s *DealService) publishEvents(ctx context.Context, d *deal.Deal) {
	events := d.GetDomainEvents()
	d.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish deal events", zap.String("deal_code", d.DealCode), zap.Error(err))
	}
}

// view loads a deal and renders it without mutating
func (s *DealService) view(ctx context.Context, dealID uuid.UUID, message string) (*ActionResult, error) {
	var st *dealState
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		st, err = s.loadState(ctx, repos, dealID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{
		Message: message,
		Deal:    ToDealResponse(st.deal, st.documents, st.attachments),
		Journey: ToJourneyResponse(st.deal, st.resolution),
	}, nil
}

// Create opens a new deal on an available unit. SELECT_UNIT is completed by
// creation, so the deal starts IN_PROGRESS at the journey's second step.
func (s *DealService) Create(ctx context.Context, req CreateDealRequest, identity shared.Identity) (*ActionResult, error) {
	term, err := deal.ParseTermType(req.TermType)
	if err != nil {
		return nil, err
	}

	st := &dealState{}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		u, err := repos.UnitRepo().FindByID(ctx, req.UnitID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("unit", req.UnitID)
			}
			return err
		}
		if _, err := repos.TenantRepo().FindByID(ctx, req.TenantID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("tenant", req.TenantID)
			}
			return err
		}
		currency := u.Currency
		if req.Currency != "" {
			if currency, err = valueobject.ParseCurrency(req.Currency); err != nil {
				return shared.NewValidationError("%s", err.Error())
			}
		}
		if err := u.Reserve(); err != nil {
			return err
		}
		listPrice, err := unitPriceFor(u, term, currency)
		if err != nil {
			return err
		}
		code, err := nextDealCode(ctx, repos.DealRepo())
		if err != nil {
			return err
		}

		d, err := deal.NewDeal(code, req.TenantID, req.UnitID, term, req.StartDate, req.EndDate, listPrice)
		if err != nil {
			return err
		}
		now := s.now()
		d.CreatedAt, d.UpdatedAt = now, now
		d.Start(now)
		st.deal = d
		if err := s.resolve(st); err != nil {
			return err
		}
		d.ApplyResolution(st.resolution)
		if err := repos.DealRepo().Create(ctx, d); err != nil {
			return err
		}

		u.IncrementVersion()
		if err := repos.UnitRepo().SaveWithLock(ctx, u); err != nil {
			return err
		}
		return s.appendAudit(ctx, repos, identity, audit.ActionCreateDeal, &d.ID,
			fmt.Sprintf("Created deal %s", d.DealCode),
			map[string]any{"unit_code": u.UnitCode, "term_type": string(term), "list_price": listPrice.Amount().String()})
	})
	if err != nil {
		s.logger.Warn("deal creation rejected",
			zap.String("unit_id", req.UnitID.String()),
			zap.String("actor", identity.Actor),
			zap.Error(err))
		s.recorder.RecordAction(ctx, "create", outcomeOf(err))
		return nil, err
	}

	s.publishEvents(ctx, st.deal)
	s.recorder.RecordAction(ctx, "create", "success")
	s.logger.Info("deal created", zap.String("deal_code", st.deal.DealCode), zap.String("term_type", string(term)))
	return &ActionResult{
		Message: "Deal created.",
		Deal:    ToDealResponse(st.deal, nil, nil),
		Journey: ToJourneyResponse(st.deal, st.resolution),
	}, nil
}

func unitPriceFor(u *unit.Unit, term deal.TermType, currency valueobject.Currency) (valueobject.Money, error) {
	var price = u.Prices.Daily
	switch term {
	case deal.TermMonthly:
		price = u.Prices.Monthly
	case deal.TermSixMonths:
		price = u.Prices.SixMonth
	case deal.TermTwelveMonths:
		price = u.Prices.TwelveMonth
	}
	if price == nil {
		return valueobject.Money{}, shared.NewValidationError("unit %s does not have a %s price configured", u.UnitCode, term)
	}
	return valueobject.NewMoney(*price, currency)
}

// nextDealCode allocates NEST-%05d from the deal count, stepping once past
// a taken code.
func nextDealCode(ctx context.Context, repo deal.DealRepository) (string, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return "", err
	}
	for attempt := int64(1); attempt <= 2; attempt++ {
		code := deal.FormatDealCode(count + attempt)
		taken, err := repo.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", shared.NewDomainError(shared.CodeConcurrency, "could not allocate a deal code, retry the request")
}

// Get returns a deal with its documents and derived step
func (s *DealService) Get(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	result, err := s.view(ctx, dealID, "")
	if err != nil {
		return nil, err
	}
	return &result.Deal, nil
}

// Journey returns the derived journey view of a deal
func (s *DealService) Journey(ctx context.Context, dealID uuid.UUID) (*JourneyResponse, error) {
	result, err := s.view(ctx, dealID, "")
	if err != nil {
		return nil, err
	}
	return &result.Journey, nil
}

// AuditTrail returns a deal's audit entries in chronological order
func (s *DealService) AuditTrail(ctx context.Context, dealID uuid.UUID) ([]AuditLogResponse, error) {
	var logs []audit.Log
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.DealRepo().FindByID(ctx, dealID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("deal", dealID)
			}
			return err
		}
		var err error
		logs, err = repos.AuditRepo().FindByDeal(ctx, dealID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		out[i] = ToAuditLogResponse(l)
	}
	return out, nil
}

// DownloadDocument opens the PDF of one document version
func (s *DealService) DownloadDocument(ctx context.Context, dealID uuid.UUID, docType deal.DocumentType, versionNo int) (*DocumentDownload, error) {
	var doc *deal.Document
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		doc, err = repos.DocumentRepo().FindByDealAndType(ctx, dealID, docType)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("document", docType)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	v := doc.Version(versionNo)
	if v == nil {
		return nil, shared.NewNotFoundError(fmt.Sprintf("%s version", docType), versionNo)
	}
	body, err := s.fileStore.Get(ctx, v.PDFPath)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return nil, shared.NewStorageError("failed to read document", err)
	}
	return &DocumentDownload{
		FileName: fmt.Sprintf("%s_v%d.pdf", docType, versionNo),
		Body:     body,
	}, nil
}

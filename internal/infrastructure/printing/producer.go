package printing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DocumentData is the view a document template is executed with
type DocumentData struct {
	DocType     string
	DocTitle    string
	DealCode    string
	VersionNo   int
	GeneratedAt time.Time
	Company     CompanyData
	Tenant      TenantData
	Unit        UnitData
	TermLabel   string
	StartDate   time.Time
	EndDate     *time.Time
	ListPrice   decimal.Decimal
	Price       decimal.Decimal
	Currency    string
	MoveInDate  *time.Time
	MoveInNotes string
}

// CompanyData is the issuing company block
type CompanyData struct {
	LegalName      string
	Address        string
	SignatoryName  string
	SignatoryTitle string
}

// TenantData is the tenant block
type TenantData struct {
	FullName    string
	CompanyName string
	Phone       string
	Email       string
}

// UnitData is the unit block
type UnitData struct {
	Code string
	Type string
}

// BreakerConfig controls when the producer stops calling a failing renderer
// or file store.
type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
	HalfOpenRequests    uint32
}

// DefaultBreakerConfig returns the breaker settings used in production
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenRequests:    1,
	}
}

// Producer renders a document version to HTML and PDF and stores both files.
// Calls go through a circuit breaker so a dead browser or bucket fails fast.
type Producer struct {
	engine   *TemplateEngine
	renderer PDFRenderer
	store    appdeal.FileStore
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
	now      func() time.Time
}

// ProducerOption configures a Producer
type ProducerOption func(*Producer, *BreakerConfig)

// WithProducerLogger sets the logger
func WithProducerLogger(logger *zap.Logger) ProducerOption {
	return func(p *Producer, _ *BreakerConfig) {
		p.logger = logger
	}
}

// WithBreakerConfig overrides the circuit breaker settings
func WithBreakerConfig(cfg BreakerConfig) ProducerOption {
	return func(_ *Producer, c *BreakerConfig) {
		*c = cfg
	}
}

// WithProducerClock sets the clock used for the generated date
func WithProducerClock(now func() time.Time) ProducerOption {
	return func(p *Producer, _ *BreakerConfig) {
		p.now = now
	}
}

// NewProducer creates a Producer
func NewProducer(engine *TemplateEngine, renderer PDFRenderer, store appdeal.FileStore, opts ...ProducerOption) *Producer {
	p := &Producer{
		engine:   engine,
		renderer: renderer,
		store:    store,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	cfg := DefaultBreakerConfig()
	for _, opt := range opts {
		opt(p, &cfg)
	}

	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "document-producer",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// caller cancellations and bad templates say nothing about the backends
			var re *RenderError
			return err == nil || errors.Is(err, context.Canceled) ||
				(errors.As(err, &re) && (re.Code == ErrCodeUnknownTemplate || re.Code == ErrCodeInvalidHTML))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return p
}

// Produce implements the deal DocumentProducer port
func (p *Producer) Produce(ctx context.Context, req appdeal.ProduceRequest) (*appdeal.ProducedDocument, error) {
	layout, ok := LayoutFor(req.DocType)
	if !ok {
		return nil, NewRenderError(ErrCodeUnknownTemplate, "no layout for "+string(req.DocType), nil)
	}
	data := p.documentData(req)

	result, err := p.breaker.Execute(func() (any, error) {
		return p.produce(ctx, req, layout, data)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, NewRenderError(ErrCodeCircuitOpen, "document production is temporarily unavailable", err)
		}
		return nil, err
	}
	return result.(*appdeal.ProducedDocument), nil
}

func (p *Producer) produce(ctx context.Context, req appdeal.ProduceRequest, layout DocumentLayout, data DocumentData) (*appdeal.ProducedDocument, error) {
	html, err := p.engine.Render(layout.Template, data)
	if err != nil {
		return nil, err
	}
	if err := p.store.Put(ctx, req.HTMLPath, strings.NewReader(html), int64(len(html)), "text/html; charset=utf-8"); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to store HTML", err)
	}

	footer, err := p.engine.RenderString("footer", footerTemplate, data)
	if err != nil {
		return nil, err
	}
	rendered, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Page:       layout.Page,
		Margins:    layout.Margins,
		Title:      data.DocTitle + " " + data.DealCode,
		FooterHTML: footer,
	})
	if err != nil {
		return nil, err
	}
	if err := p.store.Put(ctx, req.PDFPath, bytes.NewReader(rendered.PDFData), int64(len(rendered.PDFData)), "application/pdf"); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to store PDF", err)
	}

	p.logger.Info("document produced",
		zap.String("deal_code", data.DealCode),
		zap.String("doc_type", data.DocType),
		zap.Int("version_no", req.VersionNo),
		zap.Int("pages", rendered.PageCount),
		zap.String("pdf_path", req.PDFPath))

	return &appdeal.ProducedDocument{HTMLPath: req.HTMLPath, PDFPath: req.PDFPath}, nil
}

// State reports the circuit breaker state
func (p *Producer) State() string {
	return p.breaker.State().String()
}

func (p *Producer) documentData(req appdeal.ProduceRequest) DocumentData {
	d := req.Deal
	data := DocumentData{
		DocType:     string(req.DocType),
		DocTitle:    req.DocType.Label(),
		DealCode:    d.DealCode,
		VersionNo:   req.VersionNo,
		GeneratedAt: p.now(),
		Company: CompanyData{
			LegalName:      req.Settings.CompanyLegalName,
			Address:        req.Settings.CompanyAddress,
			SignatoryName:  req.Settings.SignatoryName,
			SignatoryTitle: req.Settings.SignatoryTitle,
		},
		TermLabel:   strings.ReplaceAll(strings.ToLower(string(d.TermType)), "_", " "),
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		ListPrice:   d.ListPrice.Amount(),
		Price:       d.EffectivePrice().Amount(),
		Currency:    string(d.Currency()),
		MoveInDate:  d.MoveInDate,
		MoveInNotes: d.MoveInNotes,
	}
	if t := req.Tenant; t != nil {
		data.Tenant = TenantData{FullName: t.FullName, CompanyName: t.CompanyName, Phone: t.Phone, Email: t.Email}
	}
	if u := req.Unit; u != nil {
		data.Unit = UnitData{Code: u.UnitCode, Type: u.UnitType}
	}
	return data
}

var _ appdeal.DocumentProducer = (*Producer)(nil)

package printing

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/nestapp/backend/internal/domain/tenant"
	"github.com/nestapp/backend/internal/domain/unit"
	"github.com/nestapp/backend/internal/infrastructure/config"
	"github.com/nestapp/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type failingRenderer struct {
	calls atomic.Int32
	err   error
}

func (r *failingRenderer) Render(context.Context, *RenderRequest) (*RenderResult, error) {
	r.calls.Add(1)
	return nil, r.err
}

func (r *failingRenderer) Close() error { return nil }

type failingStore struct{}

func (failingStore) Put(context.Context, string, io.Reader, int64, string) error {
	return errors.New("disk full")
}

func (failingStore) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("disk full")
}

func newProduceRequest(t *testing.T, docType deal.DocumentType) appdeal.ProduceRequest {
	t.Helper()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tn, err := tenant.NewTenant(tenant.Details{FullName: "Budi Santoso", Phone: "+6281234", Email: "budi@example.com"})
	require.NoError(t, err)
	monthly := decimal.NewFromInt(12000000)
	u, err := unit.NewUnit("A-101", "Studio", "", unit.Prices{Monthly: &monthly}, valueobject.IDR)
	require.NoError(t, err)
	d, err := deal.NewDeal("NEST-00001", tn.ID, u.ID, deal.TermMonthly, start, nil, valueobject.NewMoneyIDR(monthly))
	require.NoError(t, err)

	htmlPath, pdfPath := deal.DocumentPaths(d.ID, docType, 1)
	return appdeal.ProduceRequest{
		Deal:      d,
		Tenant:    tn,
		Unit:      u,
		Settings:  settings.Default(),
		DocType:   docType,
		VersionNo: 1,
		HTMLPath:  htmlPath,
		PDFPath:   pdfPath,
	}
}

func readAll(t *testing.T, store appdeal.FileStore, path string) string {
	t.Helper()
	rc, err := store.Get(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestProducer_Produce(t *testing.T) {
	store, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)
	producer := NewProducer(NewTemplateEngine(), NewTextRenderer(), store,
		WithProducerLogger(zaptest.NewLogger(t)),
		WithProducerClock(func() time.Time { return time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC) }))

	req := newProduceRequest(t, deal.DocBookingConfirmation)
	produced, err := producer.Produce(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.HTMLPath, produced.HTMLPath)
	assert.Equal(t, req.PDFPath, produced.PDFPath)

	html := readAll(t, store, produced.HTMLPath)
	assert.Contains(t, html, "Booking Confirmation")
	assert.Contains(t, html, "NEST-00001")
	assert.Contains(t, html, "Budi Santoso")
	assert.Contains(t, html, "A-101")
	assert.Contains(t, html, "20 February 2026")
	assert.Contains(t, html, settings.DefaultCompanyLegalName)

	pdf := readAll(t, store, produced.PDFPath)
	assert.True(t, strings.HasPrefix(pdf, "%PDF-"))
	assert.Contains(t, pdf, "NEST-00001")
	assert.Equal(t, "closed", producer.State())
}

func TestProducer_UnknownDocumentType(t *testing.T) {
	store, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)
	producer := NewProducer(NewTemplateEngine(), NewTextRenderer(), store)

	_, err = producer.Produce(context.Background(), newProduceRequest(t, deal.DocumentType("INVOICE")))
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeUnknownTemplate, re.Code)
}

func TestProducer_StoreFailure(t *testing.T) {
	producer := NewProducer(NewTemplateEngine(), NewTextRenderer(), failingStore{})

	_, err := producer.Produce(context.Background(), newProduceRequest(t, deal.DocLOODraft))
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeStorageFailed, re.Code)
}

func TestProducer_CircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	store, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)
	renderer := &failingRenderer{err: NewRenderError(ErrCodeRenderFailed, "chrome crashed", nil)}
	producer := NewProducer(NewTemplateEngine(), renderer, store, WithBreakerConfig(BreakerConfig{
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Hour,
		HalfOpenRequests:    1,
	}))

	req := newProduceRequest(t, deal.DocLOODraft)
	for i := 0; i < 2; i++ {
		_, err := producer.Produce(context.Background(), req)
		var re *RenderError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, ErrCodeRenderFailed, re.Code)
	}
	assert.Equal(t, "open", producer.State())

	_, err = producer.Produce(context.Background(), req)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeCircuitOpen, re.Code)
	assert.Equal(t, int32(2), renderer.calls.Load())
}

func TestProducer_CancellationDoesNotTripBreaker(t *testing.T) {
	store, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)
	renderer := &failingRenderer{err: context.Canceled}
	producer := NewProducer(NewTemplateEngine(), renderer, store, WithBreakerConfig(BreakerConfig{
		ConsecutiveFailures: 1,
		OpenTimeout:         time.Hour,
		HalfOpenRequests:    1,
	}))

	req := newProduceRequest(t, deal.DocLOODraft)
	for i := 0; i < 3; i++ {
		_, err := producer.Produce(context.Background(), req)
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", producer.State())
	assert.Equal(t, int32(3), renderer.calls.Load())
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer(configPrinting("html"), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.IsType(t, &TextRenderer{}, r)

	r, err = NewRenderer(configPrinting("chromedp"), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.IsType(t, &ChromedpRenderer{}, r)
	require.NoError(t, r.Close())

	_, err = NewRenderer(configPrinting("wkhtmltopdf"), zaptest.NewLogger(t))
	require.Error(t, err)
}

func configPrinting(renderer string) config.PrintingConfig {
	return config.PrintingConfig{Renderer: renderer, Timeout: time.Second}
}

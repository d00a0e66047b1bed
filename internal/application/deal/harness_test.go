package deal_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/nestapp/backend/internal/domain/tenant"
	"github.com/nestapp/backend/internal/domain/unit"
	"github.com/nestapp/backend/internal/infrastructure/cache"
	"github.com/nestapp/backend/internal/infrastructure/config"
	"github.com/nestapp/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	web      = shared.NewIdentity("agent@nest.id", shared.ChannelWeb)
	whatsapp = shared.NewIdentity("+62811000000", shared.ChannelWhatsApp)
)

// memStore is an in-memory FileStore
type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, path string, body io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = b
	return nil
}

func (m *memStore) Get(_ context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStore) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

// stubProducer writes placeholder files instead of rendering
type stubProducer struct {
	store *memStore
	fail  error
	calls int
}

func (p *stubProducer) Produce(ctx context.Context, req appdeal.ProduceRequest) (*appdeal.ProducedDocument, error) {
	p.calls++
	if p.fail != nil {
		return nil, p.fail
	}
	html := fmt.Sprintf("<h1>%s v%d %s</h1>", req.DocType, req.VersionNo, req.Deal.DealCode)
	if err := p.store.Put(ctx, req.HTMLPath, strings.NewReader(html), int64(len(html)), "text/html"); err != nil {
		return nil, err
	}
	pdf := "%PDF-" + html
	if err := p.store.Put(ctx, req.PDFPath, strings.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return nil, err
	}
	return &appdeal.ProducedDocument{HTMLPath: req.HTMLPath, PDFPath: req.PDFPath}, nil
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// steppingClock advances one minute per reading
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type harness struct {
	t         *testing.T
	ctx       context.Context
	db        *gorm.DB
	svc       *appdeal.DealService
	store     *memStore
	producer  *stubProducer
	publisher *recordingPublisher
	tenant    *tenant.Tenant
	unit      *unit.Unit
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:" + name + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate())
	t.Cleanup(func() { _ = database.Close() })

	idem := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idem.Close() })

	store := newMemStore()
	producer := &stubProducer{store: store}
	publisher := &recordingPublisher{}
	clock := &steppingClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}

	svc := appdeal.NewDealService(
		persistence.NewGormTransactionScope(database.DB),
		deal.NewStepResolver(deal.NewJourneyRegistry()),
		producer,
		store,
		appdeal.WithIdempotencyStore(idem, shared.DefaultIdempotencyConfig()),
		appdeal.WithEventPublisher(publisher),
		appdeal.WithClock(clock.Now),
	)

	h := &harness{
		t:         t,
		ctx:       context.Background(),
		db:        database.DB,
		svc:       svc,
		store:     store,
		producer:  producer,
		publisher: publisher,
	}
	h.tenant = h.seedTenant("Budi Santoso")
	h.unit = h.seedUnit("A-101")
	return h
}

func (h *harness) seedTenant(name string) *tenant.Tenant {
	t, err := tenant.NewTenant(tenant.Details{FullName: name, Phone: "+62811", Email: "budi@example.com"})
	require.NoError(h.t, err)
	require.NoError(h.t, persistence.NewGormTenantRepository(h.db).Create(h.ctx, t))
	return t
}

func (h *harness) seedUnit(code string) *unit.Unit {
	daily := decimal.NewFromInt(750000)
	monthly := decimal.NewFromInt(12000000)
	six := decimal.NewFromInt(66000000)
	twelve := decimal.NewFromInt(120000000)
	u, err := unit.NewUnit(code, "Studio", "", unit.Prices{Daily: &daily, Monthly: &monthly, SixMonth: &six, TwelveMonth: &twelve}, valueobject.IDR)
	require.NoError(h.t, err)
	require.NoError(h.t, persistence.NewGormUnitRepository(h.db).Create(h.ctx, u))
	return u
}

func (h *harness) createDeal(term deal.TermType) uuid.UUID {
	return h.createDealOn(h.unit.ID, term)
}

func (h *harness) createDealOn(unitID uuid.UUID, term deal.TermType) uuid.UUID {
	h.t.Helper()
	res, err := h.svc.Create(h.ctx, appdeal.CreateDealRequest{
		TenantID:  h.tenant.ID,
		UnitID:    unitID,
		TermType:  string(term),
		StartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}, web)
	require.NoError(h.t, err)
	return res.Deal.ID
}

func (h *harness) generate(dealID uuid.UUID, expect deal.StepID) *appdeal.ActionResult {
	h.t.Helper()
	res, err := h.svc.GenerateDocument(h.ctx, dealID, web, appdeal.CommandOptions{ExpectedStep: string(expect)})
	require.NoError(h.t, err)
	return res
}

func (h *harness) unitStatus(id uuid.UUID) unit.Status {
	h.t.Helper()
	u, err := persistence.NewGormUnitRepository(h.db).FindByID(h.ctx, id)
	require.NoError(h.t, err)
	return u.Status
}

func (h *harness) auditCount(dealID uuid.UUID) int {
	h.t.Helper()
	logs, err := h.svc.AuditTrail(h.ctx, dealID)
	require.NoError(h.t, err)
	return len(logs)
}

func invoiceFile(name string) appdeal.InvoiceUpload {
	body := "%PDF-invoice"
	return appdeal.InvoiceUpload{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

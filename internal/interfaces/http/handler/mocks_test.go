package handler

import (
	"context"

	"github.com/google/uuid"
	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/application/directory"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
)

func init() {
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

type mockDealService struct {
	mock.Mock
}

func (m *mockDealService) result(args mock.Arguments) (*appdeal.ActionResult, error) {
	if r := args.Get(0); r != nil {
		return r.(*appdeal.ActionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealService) Create(ctx context.Context, req appdeal.CreateDealRequest, identity shared.Identity) (*appdeal.ActionResult, error) {
	return m.result(m.Called(ctx, req, identity))
}

func (m *mockDealService) Get(ctx context.Context, dealID uuid.UUID) (*appdeal.DealResponse, error) {
	args := m.Called(ctx, dealID)
	if r := args.Get(0); r != nil {
		return r.(*appdeal.DealResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealService) Journey(ctx context.Context, dealID uuid.UUID) (*appdeal.JourneyResponse, error) {
	args := m.Called(ctx, dealID)
	if r := args.Get(0); r != nil {
		return r.(*appdeal.JourneyResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealService) AuditTrail(ctx context.Context, dealID uuid.UUID) ([]appdeal.AuditLogResponse, error) {
	args := m.Called(ctx, dealID)
	if r := args.Get(0); r != nil {
		return r.([]appdeal.AuditLogResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealService) DownloadDocument(ctx context.Context, dealID uuid.UUID, docType deal.DocumentType, versionNo int) (*appdeal.DocumentDownload, error) {
	args := m.Called(ctx, dealID, docType, versionNo)
	if r := args.Get(0); r != nil {
		return r.(*appdeal.DocumentDownload), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealService) GenerateDocument(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error) {
	return m.result(m.Called(ctx, dealID, identity, opts))
}

func (m *mockDealService) RequestInvoice(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error) {
	return m.result(m.Called(ctx, dealID, identity, opts))
}

func (m *mockDealService) UploadInvoice(ctx context.Context, dealID uuid.UUID, file appdeal.InvoiceUpload, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error) {
	return m.result(m.Called(ctx, dealID, file, identity, opts))
}

func (m *mockDealService) Close(ctx context.Context, dealID uuid.UUID, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error) {
	return m.result(m.Called(ctx, dealID, identity, opts))
}

func (m *mockDealService) Cancel(ctx context.Context, dealID uuid.UUID, req appdeal.CancelDealRequest, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error) {
	return m.result(m.Called(ctx, dealID, req, identity, opts))
}

func (m *mockDealService) Override(ctx context.Context, dealID uuid.UUID, req appdeal.OverrideRequest, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error) {
	return m.result(m.Called(ctx, dealID, req, identity, opts))
}

func (m *mockDealService) SetDealPrice(ctx context.Context, dealID uuid.UUID, req appdeal.SetDealPriceRequest, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error) {
	return m.result(m.Called(ctx, dealID, req, identity, opts))
}

func (m *mockDealService) SetMoveInDetails(ctx context.Context, dealID uuid.UUID, req appdeal.SetMoveInRequest, identity shared.Identity, opts appdeal.CommandOptions) (*appdeal.ActionResult, error) {
	return m.result(m.Called(ctx, dealID, req, identity, opts))
}

type mockDirectoryService struct {
	mock.Mock
}

func (m *mockDirectoryService) tenant(args mock.Arguments) (*directory.TenantResponse, error) {
	if r := args.Get(0); r != nil {
		return r.(*directory.TenantResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDirectoryService) unit(args mock.Arguments) (*directory.UnitResponse, error) {
	if r := args.Get(0); r != nil {
		return r.(*directory.UnitResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDirectoryService) settings(args mock.Arguments) (*directory.SettingsResponse, error) {
	if r := args.Get(0); r != nil {
		return r.(*directory.SettingsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDirectoryService) CreateTenant(ctx context.Context, req directory.TenantRequest, identity shared.Identity) (*directory.TenantResponse, error) {
	return m.tenant(m.Called(ctx, req, identity))
}

func (m *mockDirectoryService) GetTenant(ctx context.Context, id uuid.UUID) (*directory.TenantResponse, error) {
	return m.tenant(m.Called(ctx, id))
}

func (m *mockDirectoryService) UpdateTenant(ctx context.Context, id uuid.UUID, req directory.TenantRequest, identity shared.Identity) (*directory.TenantResponse, error) {
	return m.tenant(m.Called(ctx, id, req, identity))
}

func (m *mockDirectoryService) CreateUnit(ctx context.Context, req directory.UnitRequest, identity shared.Identity) (*directory.UnitResponse, error) {
	return m.unit(m.Called(ctx, req, identity))
}

func (m *mockDirectoryService) GetUnit(ctx context.Context, id uuid.UUID) (*directory.UnitResponse, error) {
	return m.unit(m.Called(ctx, id))
}

func (m *mockDirectoryService) UpdateUnit(ctx context.Context, id uuid.UUID, req directory.UnitRequest, identity shared.Identity) (*directory.UnitResponse, error) {
	return m.unit(m.Called(ctx, id, req, identity))
}

func (m *mockDirectoryService) GetSettings(ctx context.Context) (*directory.SettingsResponse, error) {
	return m.settings(m.Called(ctx))
}

func (m *mockDirectoryService) UpdateSettings(ctx context.Context, req directory.SettingsRequest, identity shared.Identity) (*directory.SettingsResponse, error) {
	return m.settings(m.Called(ctx, req, identity))
}

var (
	_ DealService      = (*mockDealService)(nil)
	_ DirectoryService = (*mockDirectoryService)(nil)
	_ DealService      = (*appdeal.DealService)(nil)
	_ DirectoryService = (*directory.Service)(nil)
)

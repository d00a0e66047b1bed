package directory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/application/directory"
	"github.com/nestapp/backend/internal/domain/settings"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/infrastructure/config"
	"github.com/nestapp/backend/internal/infrastructure/persistence"
	"github.com/nestapp/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*directory.Service, *gorm.DB) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:" + name + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return directory.NewService(persistence.NewGormTransactionScope(db.DB), zap.NewNop()), db.DB
}

func auditActions(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var actions []string
	require.NoError(t, db.Model(&models.AuditLogModel{}).Order("created_at").Pluck("action", &actions).Error)
	return actions
}

func TestService_Tenants(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	identity := shared.NewIdentity("", "")

	created, err := svc.CreateTenant(ctx, directory.TenantRequest{FullName: " Siti ", Phone: "+62812", Email: "SITI@mail.com"}, identity)
	require.NoError(t, err)
	assert.Equal(t, "Siti", created.FullName)
	assert.Equal(t, "siti@mail.com", created.Email)

	updated, err := svc.UpdateTenant(ctx, created.ID, directory.TenantRequest{FullName: "Siti Rahma", Phone: "+62812", Email: "siti@mail.com", CompanyName: "CV Rahma"}, identity)
	require.NoError(t, err)
	assert.Equal(t, "CV Rahma", updated.CompanyName)

	got, err := svc.GetTenant(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahma", got.FullName)

	_, err = svc.GetTenant(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.CreateTenant(ctx, directory.TenantRequest{FullName: "X", Phone: "1", Email: "bad"}, identity)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	assert.Equal(t, []string{"CREATE_TENANT", "UPDATE_TENANT"}, auditActions(t, db))
}

func TestService_Units(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	identity := shared.NewIdentity("agent", shared.ChannelWeb)
	monthly := decimal.NewFromInt(9000000)

	created, err := svc.CreateUnit(ctx, directory.UnitRequest{UnitCode: "b-12", MonthlyPrice: &monthly}, identity)
	require.NoError(t, err)
	assert.Equal(t, "B-12", created.UnitCode)
	assert.Equal(t, "AVAILABLE", created.Status)
	assert.Equal(t, "IDR", created.Currency)

	_, err = svc.CreateUnit(ctx, directory.UnitRequest{UnitCode: "B-12"}, identity)
	assert.ErrorIs(t, err, shared.ErrStateConflict)

	negative := decimal.NewFromInt(-1)
	_, err = svc.CreateUnit(ctx, directory.UnitRequest{UnitCode: "C-1", DailyPrice: &negative}, identity)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	daily := decimal.NewFromInt(500000)
	updated, err := svc.UpdateUnit(ctx, created.ID, directory.UnitRequest{UnitCode: "IGNORED", UnitType: "Loft", DailyPrice: &daily}, identity)
	require.NoError(t, err)
	assert.Equal(t, "B-12", updated.UnitCode)
	assert.Equal(t, "Loft", updated.UnitType)
	assert.Equal(t, 2, updated.Version)
	assert.Nil(t, updated.MonthlyPrice)

	got, err := svc.GetUnit(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DailyPrice)
	assert.True(t, got.DailyPrice.Equal(daily))

	_, err = svc.UpdateUnit(ctx, uuid.New(), directory.UnitRequest{UnitCode: "X"}, identity)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.Equal(t, []string{"CREATE_UNIT", "UPDATE_UNIT"}, auditActions(t, db))
}

func TestService_Settings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	identity := shared.NewIdentity("admin", shared.ChannelWeb)

	got, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultCompanyLegalName, got.CompanyLegalName)

	_, err = svc.UpdateSettings(ctx, directory.SettingsRequest{CompanyLegalName: "", FinanceEmail: "f@x.id"}, identity)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.UpdateSettings(ctx, directory.SettingsRequest{
		CompanyLegalName: "PT Nest Living",
		SignatoryName:    "Rina",
		SignatoryTitle:   "Director",
		FinanceEmail:     "Finance@Nest.id",
	}, identity)
	require.NoError(t, err)

	got, err = svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PT Nest Living", got.CompanyLegalName)
	assert.Equal(t, "finance@nest.id", got.FinanceEmail)
}

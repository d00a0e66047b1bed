package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/nestapp/backend/internal/domain/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/nestapp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDealRepo(t *testing.T) (*GormDealRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDealRepository(gormDB), mock, mockDB
}

func newTestDeal(t *testing.T, code string) *deal.Deal {
	t.Helper()
	d, err := deal.NewDeal(code, uuid.New(), uuid.New(), deal.TermMonthly,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil,
		valueobject.NewMoneyIDR(decimal.NewFromInt(12000000)))
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func TestGormDealRepository_SaveWithLock_SQL(t *testing.T) {
	t.Run("updates guarded by previous version", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepo(t)
		defer mockDB.Close()

		d := newTestDeal(t, "NEST-00001")
		d.IncrementVersion()

		mock.ExpectExec(`UPDATE "deals" SET .* WHERE .*id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SaveWithLock(context.Background(), d))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no affected rows is a concurrency conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepo(t)
		defer mockDB.Close()

		d := newTestDeal(t, "NEST-00002")
		d.IncrementVersion()

		mock.ExpectExec(`UPDATE "deals" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), d)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error is returned", func(t *testing.T) {
		repo, mock, mockDB := newMockDealRepo(t)
		defer mockDB.Close()

		d := newTestDeal(t, "NEST-00003")
		d.IncrementVersion()

		mock.ExpectExec(`UPDATE "deals" SET`).
			WillReturnError(assert.AnError)

		err := repo.SaveWithLock(context.Background(), d)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestGormDealRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := NewGormDealRepository(newTestDB(t))

	d := newTestDeal(t, "NEST-00001")
	require.NoError(t, repo.Create(ctx, d))

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.DealCode, got.DealCode)
		assert.Equal(t, deal.TermMonthly, got.TermType)
		assert.True(t, d.ListPrice.Amount().Equal(got.ListPrice.Amount()))
		assert.Equal(t, valueobject.IDR, got.Currency())
		assert.Nil(t, got.DealPrice)
		assert.Equal(t, 1, got.Version)
	})

	t.Run("missing deal is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("stale writer loses", func(t *testing.T) {
		first, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)

		price := valueobject.NewMoneyIDR(decimal.NewFromInt(11000000))
		first.DealPrice = &price
		first.IncrementVersion()
		require.NoError(t, repo.SaveWithLock(ctx, first))

		second.MoveInNotes = "late"
		second.IncrementVersion()
		err = repo.SaveWithLock(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		stored, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Version)
		require.NotNil(t, stored.DealPrice)
		assert.True(t, stored.DealPrice.Amount().Equal(decimal.NewFromInt(11000000)))
		assert.Empty(t, stored.MoveInNotes)
	})

	t.Run("duplicate code", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, "NEST-00001")
		require.NoError(t, err)
		assert.True(t, exists)

		err = repo.Create(ctx, newTestDeal(t, "NEST-00001"))
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

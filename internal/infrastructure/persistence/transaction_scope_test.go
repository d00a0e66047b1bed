package persistence

import (
	"context"
	"errors"
	"testing"

	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_Execute(t *testing.T) {
	t.Run("domain errors roll back and pass through", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := NewGormTransactionScope(db.DB).Execute(context.Background(), func(appdeal.TransactionalRepositories) error {
			return shared.NewStateConflictError("deal NEST-00001 is completed and cannot be modified")
		})
		assert.ErrorIs(t, err, shared.ErrStateConflict)
		assert.NotErrorIs(t, err, shared.ErrStorage)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failures become storage errors", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin().WillReturnError(errors.New("connection reset by peer"))

		called := false
		err := NewGormTransactionScope(db.DB).Execute(context.Background(), func(appdeal.TransactionalRepositories) error {
			called = true
			return nil
		})
		assert.False(t, called)
		assert.ErrorIs(t, err, shared.ErrStorage)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure is a storage error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("could not serialize access"))

		err := NewGormTransactionScope(db.DB).Execute(context.Background(), func(appdeal.TransactionalRepositories) error {
			return nil
		})
		assert.ErrorIs(t, err, shared.ErrStorage)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

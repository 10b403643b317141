package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/repository"
)

func TestStore_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("CommitsOnSuccess", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewStore(db)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE listings SET deleted_at").
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = store.WithinTx(ctx, func(txs repository.Store) error {
			return txs.Listings().SoftDelete(ctx, id)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewStore(db)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err = store.WithinTx(ctx, func(txs repository.Store) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NestedCallReusesTransaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewStore(db)
		id := uuid.New()

		// One Begin, one Commit, both statements inside.
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE listings SET deleted_at").
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM messages").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM message_threads").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err = store.WithinTx(ctx, func(txs repository.Store) error {
			if err := txs.Listings().SoftDelete(ctx, id); err != nil {
				return err
			}
			return txs.WithinTx(ctx, func(inner repository.Store) error {
				return inner.Threads().DeleteByListing(ctx, id)
			})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListingRepository_GetByID_SoftDeletedHidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM listings WHERE id = \\$1 AND deleted_at IS NULL").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = store.Listings().GetByID(ctx, id)
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"rentonomic-backend/internal/repository"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the same repository code
// runs inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB // nil when this store is transaction-scoped

	listings repository.ListingRepository
	rentals  repository.RentalRepository
	threads  repository.ThreadRepository
	accounts repository.AccountRepository
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sql.DB, q dbtx) *Store {
	return &Store{
		db:       db,
		listings: &listingRepository{q: q},
		rentals:  &rentalRepository{q: q},
		threads:  &threadRepository{q: q},
		accounts: &accountRepository{q: q},
	}
}

func (s *Store) Listings() repository.ListingRepository { return s.listings }
func (s *Store) Rentals() repository.RentalRepository   { return s.rentals }
func (s *Store) Threads() repository.ThreadRepository   { return s.threads }
func (s *Store) Accounts() repository.AccountRepository { return s.accounts }

func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		// Already transaction-scoped; reuse the surrounding transaction.
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txStore := newStore(nil, tx)
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

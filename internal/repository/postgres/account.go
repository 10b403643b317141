package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentonomic-backend/internal/domain"
)

type accountRepository struct {
	q dbtx
}

func (r *accountRepository) GetByEmail(ctx context.Context, listerEmail string) (*domain.ConnectedAccount, error) {
	query := `SELECT lister_email, account_id, charges_enabled, payouts_enabled, details_submitted, created_at, updated_at
	          FROM connected_accounts WHERE lister_email = $1`
	a := &domain.ConnectedAccount{}
	err := r.q.QueryRowContext(ctx, query, listerEmail).Scan(
		&a.ListerEmail, &a.AccountID, &a.ChargesEnabled, &a.PayoutsEnabled, &a.DetailsSubmitted, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "connected account", ID: listerEmail}
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) Upsert(ctx context.Context, a *domain.ConnectedAccount) error {
	now := time.Now().UTC()
	a.UpdatedAt = now
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	query := `INSERT INTO connected_accounts
	          (lister_email, account_id, charges_enabled, payouts_enabled, details_submitted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (lister_email) DO UPDATE SET
	            account_id = EXCLUDED.account_id,
	            charges_enabled = EXCLUDED.charges_enabled,
	            payouts_enabled = EXCLUDED.payouts_enabled,
	            details_submitted = EXCLUDED.details_submitted,
	            updated_at = EXCLUDED.updated_at`
	_, err := r.q.ExecContext(ctx, query,
		a.ListerEmail, a.AccountID, a.ChargesEnabled, a.PayoutsEnabled, a.DetailsSubmitted, a.CreatedAt, a.UpdatedAt)
	return err
}

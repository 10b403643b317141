package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
)

type rentalRepository struct {
	q dbtx
}

const rentalColumns = `id, listing_id, renter_email, lister_email, start_date, end_date, status,
	base_total_pence, renter_total_pence, platform_fee_pence,
	checkout_session_id, payment_ref, decline_reason, created_at, updated_at`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	now := time.Now().UTC()
	rt.CreatedAt = now
	rt.UpdatedAt = now
	query := `INSERT INTO rental_requests
	          (id, listing_id, renter_email, lister_email, start_date, end_date, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.ExecContext(ctx, query,
		rt.ID, rt.ListingID, rt.RenterEmail, rt.ListerEmail, rt.StartDate, rt.EndDate, rt.Status, rt.CreatedAt, rt.UpdatedAt)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id), id.String())
}

func (r *rentalRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE checkout_session_id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, sessionID), sessionID)
}

func (r *rentalRepository) GetBySessionIDForUpdate(ctx context.Context, sessionID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE checkout_session_id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, sessionID), sessionID)
}

func (r *rentalRepository) scanOne(row *sql.Row, key string) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var sessionID, paymentRef, declineReason sql.NullString
	err := row.Scan(
		&rt.ID, &rt.ListingID, &rt.RenterEmail, &rt.ListerEmail, &rt.StartDate, &rt.EndDate, &rt.Status,
		&rt.Pricing.BaseTotalPence, &rt.Pricing.RenterTotalPence, &rt.Pricing.PlatformFeePence,
		&sessionID, &paymentRef, &declineReason, &rt.CreatedAt, &rt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "rental request", ID: key}
	}
	if err != nil {
		return nil, err
	}
	rt.CheckoutSessionID = sessionID.String
	rt.PaymentRef = paymentRef.String
	rt.DeclineReason = declineReason.String
	return rt, nil
}

func (r *rentalRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.RentalStatus) (bool, error) {
	query := `UPDATE rental_requests SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4`
	res, err := r.q.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *rentalRepository) Decline(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	query := `UPDATE rental_requests SET status=$1, decline_reason=$2, updated_at=$3 WHERE id=$4 AND status=$5`
	res, err := r.q.ExecContext(ctx, query,
		domain.RentalStatusDeclined, reason, time.Now().UTC(), id, domain.RentalStatusRequested)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *rentalRepository) SetCheckout(ctx context.Context, id uuid.UUID, sessionID string, pricing domain.PricingSnapshot) (bool, error) {
	// A retry from payment_initiated overwrites the stored session id; the row
	// itself is never duplicated.
	query := `UPDATE rental_requests
	          SET status=$1, checkout_session_id=$2, base_total_pence=$3, renter_total_pence=$4, platform_fee_pence=$5, updated_at=$6
	          WHERE id=$7 AND status IN ($8, $1)`
	res, err := r.q.ExecContext(ctx, query,
		domain.RentalStatusPaymentInitiated, sessionID,
		pricing.BaseTotalPence, pricing.RenterTotalPence, pricing.PlatformFeePence,
		time.Now().UTC(), id, domain.RentalStatusAccepted)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *rentalRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error) {
	query := `UPDATE rental_requests SET status=$1, payment_ref=$2, updated_at=$3 WHERE id=$4 AND status=$5`
	res, err := r.q.ExecContext(ctx, query,
		domain.RentalStatusPaid, paymentRef, time.Now().UTC(), id, domain.RentalStatusPaymentInitiated)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *rentalRepository) ListByParticipant(ctx context.Context, email, role string) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests`
	var args []interface{}
	switch role {
	case "renter":
		query += ` WHERE renter_email = $1`
		args = append(args, email)
	case "lister":
		query += ` WHERE lister_email = $1`
		args = append(args, email)
	default:
		query += ` WHERE renter_email = $1 OR lister_email = $1`
		args = append(args, email)
	}
	query += ` ORDER BY created_at DESC`
	return r.scanList(ctx, query, args...)
}

func (r *rentalRepository) ListAll(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests ORDER BY created_at DESC`
	return r.scanList(ctx, query)
}

func (r *rentalRepository) ListStalePaymentInitiated(ctx context.Context, olderThan time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests
	          WHERE status = $1 AND checkout_session_id IS NOT NULL AND updated_at < $2
	          ORDER BY updated_at ASC`
	return r.scanList(ctx, query, domain.RentalStatusPaymentInitiated, olderThan)
}

func (r *rentalRepository) scanList(ctx context.Context, query string, args ...interface{}) ([]domain.Rental, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		var sessionID, paymentRef, declineReason sql.NullString
		if err := rows.Scan(
			&rt.ID, &rt.ListingID, &rt.RenterEmail, &rt.ListerEmail, &rt.StartDate, &rt.EndDate, &rt.Status,
			&rt.Pricing.BaseTotalPence, &rt.Pricing.RenterTotalPence, &rt.Pricing.PlatformFeePence,
			&sessionID, &paymentRef, &declineReason, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		rt.CheckoutSessionID = sessionID.String
		rt.PaymentRef = paymentRef.String
		rt.DeclineReason = declineReason.String
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rentonomic-backend/internal/domain"
)

type threadRepository struct {
	q dbtx
}

// unlockedExpr derives the lock state from live rental status at read time, so
// a rental edit can never leave a thread showing a stale unlocked/locked view.
const unlockedExpr = `EXISTS (
	SELECT 1 FROM rental_requests r
	WHERE r.listing_id = t.listing_id
	  AND r.renter_email = t.renter_email
	  AND r.lister_email = t.lister_email
	  AND r.status = 'paid')`

const threadColumns = `t.id, t.listing_id, t.renter_email, t.lister_email, ` + unlockedExpr + `, t.created_at`

const uniqueViolation = "23505"

func (r *threadRepository) Ensure(ctx context.Context, listingID uuid.UUID, renterEmail, listerEmail string) (*domain.MessageThread, error) {
	query := `INSERT INTO message_threads (id, listing_id, renter_email, lister_email, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (listing_id, renter_email, lister_email) DO NOTHING`
	_, err := r.q.ExecContext(ctx, query, uuid.New(), listingID, renterEmail, listerEmail, time.Now().UTC())
	if err != nil {
		// ON CONFLICT covers the race; anything else, including a pq unique
		// violation from a schema drift, is a real failure.
		var pqErr *pq.Error
		if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
			return nil, err
		}
	}

	query = `SELECT ` + threadColumns + ` FROM message_threads t
	         WHERE t.listing_id = $1 AND t.renter_email = $2 AND t.lister_email = $3`
	return r.scanOne(r.q.QueryRowContext(ctx, query, listingID, renterEmail, listerEmail), listingID.String())
}

func (r *threadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MessageThread, error) {
	query := `SELECT ` + threadColumns + ` FROM message_threads t WHERE t.id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id), id.String())
}

func (r *threadRepository) scanOne(row *sql.Row, key string) (*domain.MessageThread, error) {
	t := &domain.MessageThread{}
	err := row.Scan(&t.ID, &t.ListingID, &t.RenterEmail, &t.ListerEmail, &t.Unlocked, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "message thread", ID: key}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *threadRepository) ListByParticipant(ctx context.Context, email string) ([]domain.MessageThread, error) {
	query := `SELECT ` + threadColumns + ` FROM message_threads t
	          WHERE t.renter_email = $1 OR t.lister_email = $1
	          ORDER BY t.created_at DESC`
	rows, err := r.q.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []domain.MessageThread
	for rows.Next() {
		var t domain.MessageThread
		if err := rows.Scan(&t.ID, &t.ListingID, &t.RenterEmail, &t.ListerEmail, &t.Unlocked, &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

func (r *threadRepository) ListMessages(ctx context.Context, threadID uuid.UUID) ([]domain.Message, error) {
	query := `SELECT id, thread_id, sender_email, body, system, created_at
	          FROM messages WHERE thread_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderEmail, &m.Body, &m.System, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *threadRepository) InsertMessage(ctx context.Context, m *domain.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now().UTC()
	query := `INSERT INTO messages (id, thread_id, sender_email, body, system, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.ExecContext(ctx, query, m.ID, m.ThreadID, m.SenderEmail, m.Body, m.System, m.CreatedAt)
	return err
}

func (r *threadRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM messages WHERE thread_id IN (SELECT id FROM message_threads WHERE listing_id = $1)`, listingID)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `DELETE FROM message_threads WHERE listing_id = $1`, listingID)
	return err
}

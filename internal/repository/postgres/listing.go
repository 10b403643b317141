package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
)

type listingRepository struct {
	q dbtx
}

const listingColumns = `id, name, description, location, price_per_day_pence, image_url, owner_email, created_at, deleted_at`

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now().UTC()
	query := `INSERT INTO listings (id, name, description, location, price_per_day_pence, image_url, owner_email, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.ExecContext(ctx, query, l.ID, l.Name, l.Description, l.Location, l.PricePerDayPence, l.ImageURL, l.OwnerEmail, l.CreatedAt)
	return err
}

func (r *listingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 AND deleted_at IS NULL`
	l := &domain.Listing{}
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Description, &l.Location, &l.PricePerDayPence, &l.ImageURL, &l.OwnerEmail, &l.CreatedAt, &l.DeletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "listing", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) List(ctx context.Context) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE deleted_at IS NULL ORDER BY created_at DESC`
	return r.scanList(ctx, query)
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_email = $1 AND deleted_at IS NULL ORDER BY created_at DESC`
	return r.scanList(ctx, query, ownerEmail)
}

func (r *listingRepository) scanList(ctx context.Context, query string, args ...interface{}) ([]domain.Listing, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.Location, &l.PricePerDayPence, &l.ImageURL, &l.OwnerEmail, &l.CreatedAt, &l.DeletedAt); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE listings SET name=$1, description=$2, location=$3, price_per_day_pence=$4, image_url=$5
	          WHERE id=$6 AND deleted_at IS NULL`
	res, err := r.q.ExecContext(ctx, query, l.Name, l.Description, l.Location, l.PricePerDayPence, l.ImageURL, l.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Resource: "listing", ID: l.ID.String()}
	}
	return nil
}

func (r *listingRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE listings SET deleted_at=$1 WHERE id=$2 AND deleted_at IS NULL`
	res, err := r.q.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Resource: "listing", ID: id.String()}
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	// GetByID returns active listings only; soft-deleted rows read as not found.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	List(ctx context.Context) ([]domain.Listing, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Rental, error)
	// GetBySessionIDForUpdate takes a row lock; call it inside WithinTx so two
	// concurrently-delivered copies of one event serialize on the row.
	GetBySessionIDForUpdate(ctx context.Context, sessionID string) (*domain.Rental, error)

	// UpdateStatusIf is a compare-and-set on status. It reports false when the
	// row was not in the expected status, in which case the caller re-reads
	// and surfaces the conflict.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.RentalStatus) (bool, error)
	// Decline is requested -> declined with an optional reason, same CAS shape.
	Decline(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	// SetCheckout moves the rental to payment_initiated, persisting the
	// session identifier and the pricing snapshot. Valid from accepted and,
	// for checkout retries, from payment_initiated itself.
	SetCheckout(ctx context.Context, id uuid.UUID, sessionID string, pricing domain.PricingSnapshot) (bool, error)
	// MarkPaid is payment_initiated -> paid, recording the payment reference.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error)

	ListByParticipant(ctx context.Context, email, role string) ([]domain.Rental, error)
	ListAll(ctx context.Context) ([]domain.Rental, error)
	ListStalePaymentInitiated(ctx context.Context, olderThan time.Time) ([]domain.Rental, error)
}

type ThreadRepository interface {
	// Ensure creates the thread for the triple if absent and returns it either
	// way. Safe to call concurrently; the unique key arbitrates.
	Ensure(ctx context.Context, listingID uuid.UUID, renterEmail, listerEmail string) (*domain.MessageThread, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MessageThread, error)
	ListByParticipant(ctx context.Context, email string) ([]domain.MessageThread, error)
	ListMessages(ctx context.Context, threadID uuid.UUID) ([]domain.Message, error)
	InsertMessage(ctx context.Context, msg *domain.Message) error
	DeleteByListing(ctx context.Context, listingID uuid.UUID) error
}

type AccountRepository interface {
	GetByEmail(ctx context.Context, listerEmail string) (*domain.ConnectedAccount, error)
	Upsert(ctx context.Context, account *domain.ConnectedAccount) error
}

// Store bundles the repositories behind one transactional boundary.
type Store interface {
	Listings() ListingRepository
	Rentals() RentalRepository
	Threads() ThreadRepository
	Accounts() AccountRepository

	// WithinTx runs fn against a store whose repositories share one database
	// transaction, committing on nil and rolling back on error.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

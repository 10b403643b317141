package service

import (
	"context"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/payment"
	"rentonomic-backend/internal/utils"
)

type ListingService interface {
	Create(ctx context.Context, actor domain.Actor, params CreateListingParams) (*domain.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	List(ctx context.Context) ([]domain.Listing, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Listing, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, params UpdateListingParams) (*domain.Listing, error)
}

type CreateListingParams struct {
	Name             string
	Description      string
	Location         string
	PricePerDayPence int64
	ImageURL         string
}

type UpdateListingParams struct {
	Name             *string
	Description      *string
	Location         *string
	PricePerDayPence *int64
	ImageURL         *string
}

type RentalService interface {
	// CreateRequest opens a rental request and ensures the message thread for
	// the (listing, renter, lister) triple exists. The returned quote is a
	// preview at today's listing price; the binding snapshot is taken at
	// checkout.
	CreateRequest(ctx context.Context, actor domain.Actor, listingID uuid.UUID, startDate, endDate string) (*domain.Rental, utils.Quote, error)
	Accept(ctx context.Context, actor domain.Actor, rentalID uuid.UUID) (*domain.Rental, error)
	Decline(ctx context.Context, actor domain.Actor, rentalID uuid.UUID, reason string) (*domain.Rental, error)
	Get(ctx context.Context, actor domain.Actor, rentalID uuid.UUID) (*domain.Rental, error)
	ListMine(ctx context.Context, actor domain.Actor, role string) ([]domain.Rental, error)
}

// AccountService is the capability gate in front of paid bookings.
type AccountService interface {
	// Ready returns the lister's connected account when it can receive funds.
	// When it cannot, the error is a domain.PaymentNotReadyError carrying an
	// onboarding link, never a bare failure.
	Ready(ctx context.Context, listerEmail string) (*domain.ConnectedAccount, error)
	// OnboardingLink creates the account on first use and returns a fresh
	// onboarding URL either way.
	OnboardingLink(ctx context.Context, listerEmail string) (string, error)
}

type CheckoutService interface {
	// CreateCheckout opens a processor-hosted checkout for an accepted rental
	// and returns the redirect URL. Retrying an abandoned checkout issues a
	// new session and overwrites the stored identifier.
	CreateCheckout(ctx context.Context, actor domain.Actor, rentalID uuid.UUID) (string, error)
}

type WebhookService interface {
	// HandleEvent verifies and processes one inbound processor event.
	// Verification failures reject the request with no state change; events
	// that reference no known rental are accepted and ignored.
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error
	// ApplySessionOutcome drives the same idempotent transitions from a polled
	// checkout session, for reconciliation when a webhook was missed.
	ApplySessionOutcome(ctx context.Context, state payment.SessionState) error
}

type MessageService interface {
	ListThreads(ctx context.Context, actor domain.Actor) ([]domain.MessageThread, error)
	// ReadMessages returns raw bodies once the thread is unlocked; while
	// locked every body passes through the content redactor and participant
	// emails are masked.
	ReadMessages(ctx context.Context, actor domain.Actor, threadID uuid.UUID) (*domain.MessageThread, []domain.Message, error)
	PostMessage(ctx context.Context, actor domain.Actor, threadID uuid.UUID, body string) (*domain.Message, error)
}

type AdminService interface {
	ListAllRentalRequests(ctx context.Context, actor domain.Actor) ([]domain.Rental, error)
	// RemoveListing soft-deletes a listing and removes its message threads.
	// Rental rows are retained for audit.
	RemoveListing(ctx context.Context, actor domain.Actor, listingID uuid.UUID) error
}

// EmailService is the fire-and-forget notifier boundary. Callers must never
// fail their own operation on a notification error.
type EmailService interface {
	SendRentalRequestNotification(ctx context.Context, listerEmail, renterEmail, listingName, startDate, endDate string) error
	SendRentalAcceptedNotification(ctx context.Context, renterEmail, listingName, startDate, endDate string) error
	SendRentalDeclinedNotification(ctx context.Context, toEmail, listingName, reason string) error
	SendPaymentConfirmedNotification(ctx context.Context, toEmail, listingName string, renterTotalPence int64) error
	SendListingRemovedNotification(ctx context.Context, ownerEmail, listingName string) error
}

package service

import (
	"context"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/logger"
	"rentonomic-backend/internal/repository"
	"rentonomic-backend/internal/utils"
)

type rentalService struct {
	store      repository.Store
	accountSvc AccountService
	emailSvc   EmailService
	feeBps     int64
}

func NewRentalService(store repository.Store, accountSvc AccountService, emailSvc EmailService, feeBps int64) RentalService {
	return &rentalService{
		store:      store,
		accountSvc: accountSvc,
		emailSvc:   emailSvc,
		feeBps:     feeBps,
	}
}

func (s *rentalService) CreateRequest(ctx context.Context, actor domain.Actor, listingID uuid.UUID, startDate, endDate string) (*domain.Rental, utils.Quote, error) {
	listing, err := s.store.Listings().GetByID(ctx, listingID)
	if err != nil {
		return nil, utils.Quote{}, err
	}
	if listing.OwnerEmail == actor.Email {
		return nil, utils.Quote{}, &domain.ValidationError{Field: "listing_id", Reason: "cannot rent your own listing"}
	}

	days, err := utils.RentalDays(startDate, endDate)
	if err != nil {
		return nil, utils.Quote{}, &domain.ValidationError{Field: "dates", Reason: err.Error()}
	}

	// Preview at today's price. The binding snapshot is taken when checkout is
	// created, not here.
	quote, err := utils.Price(listing.PricePerDayPence, days, s.feeBps)
	if err != nil {
		return nil, utils.Quote{}, &domain.ValidationError{Field: "dates", Reason: err.Error()}
	}

	rental := &domain.Rental{
		ListingID:   listing.ID,
		RenterEmail: actor.Email,
		ListerEmail: listing.OwnerEmail,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      domain.RentalStatusRequested,
	}

	err = s.store.WithinTx(ctx, func(txs repository.Store) error {
		if err := txs.Rentals().Create(ctx, rental); err != nil {
			return err
		}
		// The thread exists from the first request; repeat requests for the
		// same triple reuse it.
		_, err := txs.Threads().Ensure(ctx, listing.ID, rental.RenterEmail, rental.ListerEmail)
		return err
	})
	if err != nil {
		return nil, utils.Quote{}, err
	}

	_ = s.emailSvc.SendRentalRequestNotification(ctx, listing.OwnerEmail, actor.Email, listing.Name, startDate, endDate)

	return rental, quote, nil
}

func (s *rentalService) Accept(ctx context.Context, actor domain.Actor, rentalID uuid.UUID) (*domain.Rental, error) {
	rt, err := s.store.Rentals().GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(rt.ListerEmail) {
		return nil, &domain.AuthorizationError{Action: "accept this rental request"}
	}

	// Never accept a booking the lister cannot be paid for. Ready returns a
	// PaymentNotReadyError with an onboarding link when the account is not
	// set up.
	if _, err := s.accountSvc.Ready(ctx, rt.ListerEmail); err != nil {
		return nil, err
	}

	ok, err := s.store.Rentals().UpdateStatusIf(ctx, rentalID, domain.RentalStatusRequested, domain.RentalStatusAccepted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.conflict(ctx, rentalID)
	}

	rt, err = s.store.Rentals().GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if listing, lerr := s.store.Listings().GetByID(ctx, rt.ListingID); lerr == nil {
		_ = s.emailSvc.SendRentalAcceptedNotification(ctx, rt.RenterEmail, listing.Name, rt.StartDate, rt.EndDate)
	}

	return rt, nil
}

func (s *rentalService) Decline(ctx context.Context, actor domain.Actor, rentalID uuid.UUID, reason string) (*domain.Rental, error) {
	rt, err := s.store.Rentals().GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(rt.ListerEmail) {
		return nil, &domain.AuthorizationError{Action: "decline this rental request"}
	}

	ok, err := s.store.Rentals().Decline(ctx, rentalID, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.conflict(ctx, rentalID)
	}

	rt, err = s.store.Rentals().GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if listing, lerr := s.store.Listings().GetByID(ctx, rt.ListingID); lerr == nil {
		// The decline reason goes to the renter only.
		_ = s.emailSvc.SendRentalDeclinedNotification(ctx, rt.RenterEmail, listing.Name, reason)
	}

	return rt, nil
}

func (s *rentalService) Get(ctx context.Context, actor domain.Actor, rentalID uuid.UUID) (*domain.Rental, error) {
	rt, err := s.store.Rentals().GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(rt.RenterEmail) && !actor.CanActFor(rt.ListerEmail) {
		return nil, &domain.AuthorizationError{Action: "view this rental request"}
	}
	if actor.Email != rt.RenterEmail {
		// The free-text decline reason is surfaced to the renter only.
		rt.DeclineReason = ""
	}
	return rt, nil
}

func (s *rentalService) ListMine(ctx context.Context, actor domain.Actor, role string) ([]domain.Rental, error) {
	switch role {
	case "", "all", "renter", "lister":
	default:
		return nil, &domain.ValidationError{Field: "role", Reason: "must be renter, lister or all"}
	}
	rentals, err := s.store.Rentals().ListByParticipant(ctx, actor.Email, role)
	if err != nil {
		return nil, err
	}
	for i := range rentals {
		if rentals[i].RenterEmail != actor.Email {
			rentals[i].DeclineReason = ""
		}
	}
	return rentals, nil
}

// conflict re-reads the rental after a failed compare-and-set so the error
// names the status the caller actually raced against.
func (s *rentalService) conflict(ctx context.Context, rentalID uuid.UUID) error {
	rt, err := s.store.Rentals().GetByID(ctx, rentalID)
	if err != nil {
		logger.Warn("rental vanished after failed status transition", "rental_id", rentalID, "error", err)
		return &domain.ConflictError{Resource: "rental request", CurrentStatus: "unknown"}
	}
	return &domain.ConflictError{Resource: "rental request", CurrentStatus: string(rt.Status)}
}

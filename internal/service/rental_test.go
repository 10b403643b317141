package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentonomic-backend/internal/domain"
)

func fixtureListing() *domain.Listing {
	return &domain.Listing{
		ID:               uuid.New(),
		Name:             "Pressure Washer",
		PricePerDayPence: 1000,
		OwnerEmail:       "lister@example.com",
	}
}

func TestRentalService_CreateRequest(t *testing.T) {
	ctx := context.Background()
	renter := domain.Actor{Email: "renter@example.com"}

	t.Run("Success", func(t *testing.T) {
		store := newMockStore()
		emails := &mockEmailService{}
		listing := fixtureListing()

		store.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		store.rentals.On("Create", ctx, mock.AnythingOfType("*domain.Rental")).Return(nil)
		store.threads.On("Ensure", ctx, listing.ID, renter.Email, listing.OwnerEmail).
			Return(&domain.MessageThread{ID: uuid.New()}, nil)
		emails.On("SendRentalRequestNotification", ctx, listing.OwnerEmail, renter.Email, listing.Name, "2026-06-01", "2026-06-03").Return(nil)

		svc := NewRentalService(store, &mockAccountService{}, emails, 1000)
		rental, quote, err := svc.CreateRequest(ctx, renter, listing.ID, "2026-06-01", "2026-06-03")
		require.NoError(t, err)

		assert.Equal(t, domain.RentalStatusRequested, rental.Status)
		assert.Equal(t, renter.Email, rental.RenterEmail)
		assert.Equal(t, listing.OwnerEmail, rental.ListerEmail)
		assert.Equal(t, int64(3000), quote.BaseTotalPence)
		assert.Equal(t, int64(3300), quote.RenterTotalPence)
		store.assertExpectations(t)
		emails.AssertExpectations(t)
	})

	t.Run("OwnListingRejected", func(t *testing.T) {
		store := newMockStore()
		listing := fixtureListing()
		store.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)

		svc := NewRentalService(store, &mockAccountService{}, &mockEmailService{}, 1000)
		_, _, err := svc.CreateRequest(ctx, domain.Actor{Email: listing.OwnerEmail}, listing.ID, "2026-06-01", "2026-06-03")

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("BadDates", func(t *testing.T) {
		store := newMockStore()
		listing := fixtureListing()
		store.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)

		svc := NewRentalService(store, &mockAccountService{}, &mockEmailService{}, 1000)
		_, _, err := svc.CreateRequest(ctx, renter, listing.ID, "2026-06-05", "2026-06-01")

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		store.rentals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("NotificationFailureDoesNotFailRequest", func(t *testing.T) {
		store := newMockStore()
		emails := &mockEmailService{}
		listing := fixtureListing()

		store.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		store.rentals.On("Create", ctx, mock.Anything).Return(nil)
		store.threads.On("Ensure", ctx, listing.ID, renter.Email, listing.OwnerEmail).
			Return(&domain.MessageThread{ID: uuid.New()}, nil)
		emails.On("SendRentalRequestNotification", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("sendgrid down"))

		svc := NewRentalService(store, &mockAccountService{}, emails, 1000)
		_, _, err := svc.CreateRequest(ctx, renter, listing.ID, "2026-06-01", "2026-06-03")
		assert.NoError(t, err)
	})
}

func TestRentalService_Accept(t *testing.T) {
	ctx := context.Background()
	lister := domain.Actor{Email: "lister@example.com"}

	pending := func(listing *domain.Listing) *domain.Rental {
		return &domain.Rental{
			ID:          uuid.New(),
			ListingID:   listing.ID,
			RenterEmail: "renter@example.com",
			ListerEmail: listing.OwnerEmail,
			StartDate:   "2026-06-01",
			EndDate:     "2026-06-03",
			Status:      domain.RentalStatusRequested,
		}
	}

	t.Run("Success", func(t *testing.T) {
		store := newMockStore()
		accounts := &mockAccountService{}
		emails := &mockEmailService{}
		listing := fixtureListing()
		rt := pending(listing)

		accepted := *rt
		accepted.Status = domain.RentalStatusAccepted

		store.rentals.On("GetByID", ctx, rt.ID).Return(rt, nil).Once()
		accounts.On("Ready", ctx, lister.Email).Return(&domain.ConnectedAccount{AccountID: "acct_1"}, nil)
		store.rentals.On("UpdateStatusIf", ctx, rt.ID, domain.RentalStatusRequested, domain.RentalStatusAccepted).Return(true, nil)
		store.rentals.On("GetByID", ctx, rt.ID).Return(&accepted, nil).Once()
		store.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		emails.On("SendRentalAcceptedNotification", ctx, rt.RenterEmail, listing.Name, rt.StartDate, rt.EndDate).Return(nil)

		svc := NewRentalService(store, accounts, emails, 1000)
		got, err := svc.Accept(ctx, lister, rt.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusAccepted, got.Status)
	})

	t.Run("BlockedUntilPayoutReady", func(t *testing.T) {
		store := newMockStore()
		accounts := &mockAccountService{}
		listing := fixtureListing()
		rt := pending(listing)

		store.rentals.On("GetByID", ctx, rt.ID).Return(rt, nil)
		accounts.On("Ready", ctx, lister.Email).
			Return(nil, &domain.PaymentNotReadyError{ListerEmail: lister.Email, RemediationURL: "https://connect.example/onboard"})

		svc := NewRentalService(store, accounts, &mockEmailService{}, 1000)
		_, err := svc.Accept(ctx, lister, rt.ID)

		var nrErr *domain.PaymentNotReadyError
		require.ErrorAs(t, err, &nrErr)
		assert.Equal(t, "https://connect.example/onboard", nrErr.RemediationURL)
		store.rentals.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LostRaceSurfacesCurrentStatus", func(t *testing.T) {
		store := newMockStore()
		accounts := &mockAccountService{}
		listing := fixtureListing()
		rt := pending(listing)

		declined := *rt
		declined.Status = domain.RentalStatusDeclined

		store.rentals.On("GetByID", ctx, rt.ID).Return(rt, nil).Once()
		accounts.On("Ready", ctx, lister.Email).Return(&domain.ConnectedAccount{AccountID: "acct_1"}, nil)
		store.rentals.On("UpdateStatusIf", ctx, rt.ID, domain.RentalStatusRequested, domain.RentalStatusAccepted).Return(false, nil)
		store.rentals.On("GetByID", ctx, rt.ID).Return(&declined, nil).Once()

		svc := NewRentalService(store, accounts, &mockEmailService{}, 1000)
		_, err := svc.Accept(ctx, lister, rt.ID)

		var cErr *domain.ConflictError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, string(domain.RentalStatusDeclined), cErr.CurrentStatus)
	})

	t.Run("OnlyListerMayAccept", func(t *testing.T) {
		store := newMockStore()
		listing := fixtureListing()
		rt := pending(listing)
		store.rentals.On("GetByID", ctx, rt.ID).Return(rt, nil)

		svc := NewRentalService(store, &mockAccountService{}, &mockEmailService{}, 1000)
		_, err := svc.Accept(ctx, domain.Actor{Email: "renter@example.com"}, rt.ID)

		var aErr *domain.AuthorizationError
		require.ErrorAs(t, err, &aErr)
	})

	t.Run("AdminMayAccept", func(t *testing.T) {
		store := newMockStore()
		accounts := &mockAccountService{}
		listing := fixtureListing()
		rt := pending(listing)

		accepted := *rt
		accepted.Status = domain.RentalStatusAccepted

		store.rentals.On("GetByID", ctx, rt.ID).Return(rt, nil).Once()
		accounts.On("Ready", ctx, rt.ListerEmail).Return(&domain.ConnectedAccount{AccountID: "acct_1"}, nil)
		store.rentals.On("UpdateStatusIf", ctx, rt.ID, domain.RentalStatusRequested, domain.RentalStatusAccepted).Return(true, nil)
		store.rentals.On("GetByID", ctx, rt.ID).Return(&accepted, nil).Once()
		store.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		emails := &mockEmailService{}
		emails.On("SendRentalAcceptedNotification", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := NewRentalService(store, accounts, emails, 1000)
		_, err := svc.Accept(ctx, domain.Actor{Email: "ops@rentonomic.com", Admin: true}, rt.ID)
		assert.NoError(t, err)
	})
}

func TestRentalService_Decline(t *testing.T) {
	ctx := context.Background()
	lister := domain.Actor{Email: "lister@example.com"}
	listing := fixtureListing()

	rt := &domain.Rental{
		ID:          uuid.New(),
		ListingID:   listing.ID,
		RenterEmail: "renter@example.com",
		ListerEmail: lister.Email,
		Status:      domain.RentalStatusRequested,
	}

	t.Run("ReasonGoesToRenterOnly", func(t *testing.T) {
		store := newMockStore()
		emails := &mockEmailService{}

		declined := *rt
		declined.Status = domain.RentalStatusDeclined
		declined.DeclineReason = "tool is away for repair"

		store.rentals.On("GetByID", ctx, rt.ID).Return(rt, nil).Once()
		store.rentals.On("Decline", ctx, rt.ID, "tool is away for repair").Return(true, nil)
		store.rentals.On("GetByID", ctx, rt.ID).Return(&declined, nil).Once()
		store.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		emails.On("SendRentalDeclinedNotification", ctx, rt.RenterEmail, listing.Name, "tool is away for repair").Return(nil)

		svc := NewRentalService(store, &mockAccountService{}, emails, 1000)
		got, err := svc.Decline(ctx, lister, rt.ID, "tool is away for repair")
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusDeclined, got.Status)
		emails.AssertExpectations(t)
	})

	t.Run("AlreadyResolvedConflicts", func(t *testing.T) {
		store := newMockStore()

		paid := *rt
		paid.Status = domain.RentalStatusPaid

		store.rentals.On("GetByID", ctx, rt.ID).Return(rt, nil).Once()
		store.rentals.On("Decline", ctx, rt.ID, "").Return(false, nil)
		store.rentals.On("GetByID", ctx, rt.ID).Return(&paid, nil).Once()

		svc := NewRentalService(store, &mockAccountService{}, &mockEmailService{}, 1000)
		_, err := svc.Decline(ctx, lister, rt.ID, "")

		var cErr *domain.ConflictError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, string(domain.RentalStatusPaid), cErr.CurrentStatus)
	})
}

func TestRentalService_Get(t *testing.T) {
	ctx := context.Background()

	rt := &domain.Rental{
		ID:            uuid.New(),
		RenterEmail:   "renter@example.com",
		ListerEmail:   "lister@example.com",
		Status:        domain.RentalStatusDeclined,
		DeclineReason: "going on holiday",
	}

	t.Run("RenterSeesReason", func(t *testing.T) {
		store := newMockStore()
		cp := *rt
		store.rentals.On("GetByID", ctx, rt.ID).Return(&cp, nil)

		svc := NewRentalService(store, &mockAccountService{}, &mockEmailService{}, 1000)
		got, err := svc.Get(ctx, domain.Actor{Email: rt.RenterEmail}, rt.ID)
		require.NoError(t, err)
		assert.Equal(t, "going on holiday", got.DeclineReason)
	})

	t.Run("ListerDoesNotSeeReason", func(t *testing.T) {
		store := newMockStore()
		cp := *rt
		store.rentals.On("GetByID", ctx, rt.ID).Return(&cp, nil)

		svc := NewRentalService(store, &mockAccountService{}, &mockEmailService{}, 1000)
		got, err := svc.Get(ctx, domain.Actor{Email: rt.ListerEmail}, rt.ID)
		require.NoError(t, err)
		assert.Empty(t, got.DeclineReason)
	})

	t.Run("StrangerGetsNothing", func(t *testing.T) {
		store := newMockStore()
		cp := *rt
		store.rentals.On("GetByID", ctx, rt.ID).Return(&cp, nil)

		svc := NewRentalService(store, &mockAccountService{}, &mockEmailService{}, 1000)
		_, err := svc.Get(ctx, domain.Actor{Email: "nosy@example.com"}, rt.ID)

		var aErr *domain.AuthorizationError
		require.ErrorAs(t, err, &aErr)
	})
}

func TestRentalService_ListMine(t *testing.T) {
	ctx := context.Background()
	actor := domain.Actor{Email: "renter@example.com"}

	t.Run("InvalidRole", func(t *testing.T) {
		svc := NewRentalService(newMockStore(), &mockAccountService{}, &mockEmailService{}, 1000)
		_, err := svc.ListMine(ctx, actor, "owner")

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("ReasonStrippedWhereNotRenter", func(t *testing.T) {
		store := newMockStore()
		store.rentals.On("ListByParticipant", ctx, actor.Email, "all").Return([]domain.Rental{
			{RenterEmail: actor.Email, DeclineReason: "mine to see"},
			{RenterEmail: "other@example.com", ListerEmail: actor.Email, DeclineReason: "not mine"},
		}, nil)

		svc := NewRentalService(store, &mockAccountService{}, &mockEmailService{}, 1000)
		got, err := svc.ListMine(ctx, actor, "all")
		require.NoError(t, err)
		assert.Equal(t, "mine to see", got[0].DeclineReason)
		assert.Empty(t, got[1].DeclineReason)
	})
}

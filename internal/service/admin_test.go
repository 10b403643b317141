package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentonomic-backend/internal/domain"
)

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	admin := domain.Actor{Email: "ops@rentonomic.com", Admin: true}
	civilian := domain.Actor{Email: "user@example.com"}

	t.Run("ListAllRequiresAdmin", func(t *testing.T) {
		svc := NewAdminService(newMockStore(), &mockEmailService{})
		_, err := svc.ListAllRentalRequests(ctx, civilian)

		var aErr *domain.AuthorizationError
		require.ErrorAs(t, err, &aErr)
	})

	t.Run("ListAll", func(t *testing.T) {
		store := newMockStore()
		store.rentals.On("ListAll", ctx).Return([]domain.Rental{{ID: uuid.New()}}, nil)

		svc := NewAdminService(store, &mockEmailService{})
		got, err := svc.ListAllRentalRequests(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("RemoveListingRetainsRentals", func(t *testing.T) {
		store := newMockStore()
		emails := &mockEmailService{}
		listing := fixtureListing()

		store.listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
		store.listings.On("SoftDelete", ctx, listing.ID).Return(nil)
		store.threads.On("DeleteByListing", ctx, listing.ID).Return(nil)
		emails.On("SendListingRemovedNotification", ctx, listing.OwnerEmail, listing.Name).Return(nil)

		svc := NewAdminService(store, emails)
		require.NoError(t, svc.RemoveListing(ctx, admin, listing.ID))

		store.assertExpectations(t)
		// Rental rows are never touched.
		store.rentals.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RemoveListingRequiresAdmin", func(t *testing.T) {
		store := newMockStore()
		svc := NewAdminService(store, &mockEmailService{})
		err := svc.RemoveListing(ctx, civilian, uuid.New())

		var aErr *domain.AuthorizationError
		require.ErrorAs(t, err, &aErr)
		store.listings.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})
}

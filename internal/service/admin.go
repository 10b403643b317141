package service

import (
	"context"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/repository"
)

type adminService struct {
	store    repository.Store
	emailSvc EmailService
}

func NewAdminService(store repository.Store, emailSvc EmailService) AdminService {
	return &adminService{store: store, emailSvc: emailSvc}
}

func (s *adminService) ListAllRentalRequests(ctx context.Context, actor domain.Actor) ([]domain.Rental, error) {
	if !actor.Admin {
		return nil, &domain.AuthorizationError{Action: "list all rental requests"}
	}
	return s.store.Rentals().ListAll(ctx)
}

func (s *adminService) RemoveListing(ctx context.Context, actor domain.Actor, listingID uuid.UUID) error {
	if !actor.Admin {
		return &domain.AuthorizationError{Action: "remove a listing"}
	}

	listing, err := s.store.Listings().GetByID(ctx, listingID)
	if err != nil {
		return err
	}

	// Rental rows survive the removal; only the listing and its conversations
	// go away.
	err = s.store.WithinTx(ctx, func(txs repository.Store) error {
		if err := txs.Listings().SoftDelete(ctx, listingID); err != nil {
			return err
		}
		return txs.Threads().DeleteByListing(ctx, listingID)
	})
	if err != nil {
		return err
	}

	_ = s.emailSvc.SendListingRemovedNotification(ctx, listing.OwnerEmail, listing.Name)
	return nil
}

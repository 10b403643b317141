package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/repository"
)

type listingService struct {
	store repository.Store
}

func NewListingService(store repository.Store) ListingService {
	return &listingService{store: store}
}

func (s *listingService) Create(ctx context.Context, actor domain.Actor, params CreateListingParams) (*domain.Listing, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if params.PricePerDayPence < 0 {
		return nil, &domain.ValidationError{Field: "price_per_day_pence", Reason: "must be >= 0"}
	}

	l := &domain.Listing{
		Name:             name,
		Description:      params.Description,
		Location:         params.Location,
		PricePerDayPence: params.PricePerDayPence,
		ImageURL:         params.ImageURL,
		OwnerEmail:       actor.Email,
	}
	if err := s.store.Listings().Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *listingService) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	return s.store.Listings().GetByID(ctx, id)
}

func (s *listingService) List(ctx context.Context) ([]domain.Listing, error) {
	return s.store.Listings().List(ctx)
}

func (s *listingService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Listing, error) {
	return s.store.Listings().ListByOwner(ctx, actor.Email)
}

func (s *listingService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, params UpdateListingParams) (*domain.Listing, error) {
	l, err := s.store.Listings().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(l.OwnerEmail) {
		return nil, &domain.AuthorizationError{Action: "update this listing"}
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		l.Name = name
	}
	if params.Description != nil {
		l.Description = *params.Description
	}
	if params.Location != nil {
		l.Location = *params.Location
	}
	if params.PricePerDayPence != nil {
		if *params.PricePerDayPence < 0 {
			return nil, &domain.ValidationError{Field: "price_per_day_pence", Reason: "must be >= 0"}
		}
		l.PricePerDayPence = *params.PricePerDayPence
	}
	if params.ImageURL != nil {
		l.ImageURL = *params.ImageURL
	}

	if err := s.store.Listings().Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

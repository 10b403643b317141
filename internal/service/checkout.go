package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/payment"
	"rentonomic-backend/internal/repository"
	"rentonomic-backend/internal/utils"
)

type checkoutService struct {
	store        repository.Store
	processor    payment.Client
	accountSvc   AccountService
	feeBps       int64
	currency     string
	frontendBase string
}

func NewCheckoutService(store repository.Store, processor payment.Client, accountSvc AccountService, feeBps int64, currency, frontendBase string) CheckoutService {
	return &checkoutService{
		store:        store,
		processor:    processor,
		accountSvc:   accountSvc,
		feeBps:       feeBps,
		currency:     currency,
		frontendBase: frontendBase,
	}
}

func (s *checkoutService) CreateCheckout(ctx context.Context, actor domain.Actor, rentalID uuid.UUID) (string, error) {
	rt, err := s.store.Rentals().GetByID(ctx, rentalID)
	if err != nil {
		return "", err
	}
	if !actor.CanActFor(rt.RenterEmail) {
		return "", &domain.AuthorizationError{Action: "pay for this rental request"}
	}
	switch rt.Status {
	case domain.RentalStatusAccepted, domain.RentalStatusPaymentInitiated:
	default:
		return "", &domain.ConflictError{Resource: "rental request", CurrentStatus: string(rt.Status)}
	}

	listing, err := s.store.Listings().GetByID(ctx, rt.ListingID)
	if err != nil {
		return "", err
	}

	acct, err := s.accountSvc.Ready(ctx, rt.ListerEmail)
	if err != nil {
		return "", err
	}

	pricing, err := s.pricingFor(rt, listing)
	if err != nil {
		return "", err
	}

	session, err := s.processor.CreateCheckoutSession(ctx, payment.CheckoutParams{
		Title:                fmt.Sprintf("Rental of %s (%s to %s)", listing.Name, rt.StartDate, rt.EndDate),
		AmountPence:          pricing.RenterTotalPence,
		Currency:             s.currency,
		ApplicationFeePence:  pricing.PlatformFeePence,
		DestinationAccountID: acct.AccountID,
		SuccessURL:           fmt.Sprintf("%s/dashboard.html?payment=success", s.frontendBase),
		CancelURL:            fmt.Sprintf("%s/dashboard.html?payment=cancelled", s.frontendBase),
		Metadata: map[string]string{
			"rental_id":          rt.ID.String(),
			"listing_id":         rt.ListingID.String(),
			"renter_email":       rt.RenterEmail,
			"lister_email":       rt.ListerEmail,
			"base_total_pence":   strconv.FormatInt(pricing.BaseTotalPence, 10),
			"renter_total_pence": strconv.FormatInt(pricing.RenterTotalPence, 10),
		},
	})
	if err != nil {
		return "", err
	}

	// Persist the session id before handing out the URL; the webhook may land
	// the moment the renter finishes paying.
	ok, err := s.store.Rentals().SetCheckout(ctx, rt.ID, session.ID, pricing)
	if err != nil {
		return "", err
	}
	if !ok {
		cur, gerr := s.store.Rentals().GetByID(ctx, rt.ID)
		status := "unknown"
		if gerr == nil {
			status = string(cur.Status)
		}
		return "", &domain.ConflictError{Resource: "rental request", CurrentStatus: status}
	}

	return session.URL, nil
}

// pricingFor reuses the snapshot taken on the first checkout attempt so a
// retry never reprices a rental mid-flight.
func (s *checkoutService) pricingFor(rt *domain.Rental, listing *domain.Listing) (domain.PricingSnapshot, error) {
	if rt.Status == domain.RentalStatusPaymentInitiated && rt.Pricing.RenterTotalPence > 0 {
		return rt.Pricing, nil
	}
	days, err := utils.RentalDays(rt.StartDate, rt.EndDate)
	if err != nil {
		return domain.PricingSnapshot{}, &domain.ValidationError{Field: "dates", Reason: err.Error()}
	}
	quote, err := utils.Price(listing.PricePerDayPence, days, s.feeBps)
	if err != nil {
		return domain.PricingSnapshot{}, &domain.ValidationError{Field: "dates", Reason: err.Error()}
	}
	return domain.PricingSnapshot{
		BaseTotalPence:   quote.BaseTotalPence,
		RenterTotalPence: quote.RenterTotalPence,
		PlatformFeePence: quote.PlatformFeePence,
	}, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type RentalStatus string

const (
	RentalStatusRequested        RentalStatus = "requested"
	RentalStatusAccepted         RentalStatus = "accepted"
	RentalStatusDeclined         RentalStatus = "declined"
	RentalStatusPaymentInitiated RentalStatus = "payment_initiated"
	RentalStatusPaid             RentalStatus = "paid"
	RentalStatusExpired          RentalStatus = "expired"
	RentalStatusFailed           RentalStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s RentalStatus) IsTerminal() bool {
	switch s {
	case RentalStatusDeclined, RentalStatusPaid, RentalStatusExpired, RentalStatusFailed:
		return true
	}
	return false
}

// PricingSnapshot holds the totals computed when checkout was first created.
// Amounts are in minor currency units (pence). Once set they are never
// recomputed, so a later listing price change cannot drift the charge.
type PricingSnapshot struct {
	BaseTotalPence   int64 `json:"base_total_pence"`
	RenterTotalPence int64 `json:"renter_total_pence"`
	PlatformFeePence int64 `json:"platform_fee_pence"`
}

type Rental struct {
	ID          uuid.UUID    `json:"id"`
	ListingID   uuid.UUID    `json:"listing_id"`
	RenterEmail string       `json:"renter_email"`
	ListerEmail string       `json:"lister_email"`
	StartDate   string       `json:"start_date"` // yyyy-mm-dd
	EndDate     string       `json:"end_date"`   // yyyy-mm-dd, >= StartDate
	Status      RentalStatus `json:"status"`

	Pricing PricingSnapshot `json:"pricing"`

	// CheckoutSessionID is the idempotency key for webhook processing. It is
	// assigned when checkout is created; a checkout retry overwrites it, so at
	// most one session is live for a rental at any time.
	CheckoutSessionID string `json:"checkout_session_id,omitempty"`
	// PaymentRef is the processor's payment confirmation identifier, recorded
	// when the rental reaches paid.
	PaymentRef string `json:"payment_ref,omitempty"`

	DeclineReason string `json:"decline_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

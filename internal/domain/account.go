package domain

import "time"

// ConnectedAccount maps a lister to their payment-processor account. The
// readiness fields are a cache of the last check; callers must re-verify live
// readiness before relying on them, since processor-side requirements change.
type ConnectedAccount struct {
	ListerEmail      string    `json:"lister_email"`
	AccountID        string    `json:"account_id"`
	ChargesEnabled   bool      `json:"charges_enabled"`
	PayoutsEnabled   bool      `json:"payouts_enabled"`
	DetailsSubmitted bool      `json:"details_submitted"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (a *ConnectedAccount) Ready() bool {
	return a.ChargesEnabled && a.DetailsSubmitted
}

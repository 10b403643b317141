package payment

import "context"

// Readiness is the live state of a connected account, fetched from the
// processor rather than trusted from cache.
type Readiness struct {
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
}

func (r Readiness) Ready() bool {
	return r.ChargesEnabled && r.DetailsSubmitted
}

// CheckoutParams describes one destination-charge checkout: the renter is
// charged AmountPence, the funds route to DestinationAccountID, and
// ApplicationFeePence stays with the platform.
type CheckoutParams struct {
	Title                string
	AmountPence          int64
	Currency             string
	ApplicationFeePence  int64
	DestinationAccountID string
	SuccessURL           string
	CancelURL            string
	// Metadata must carry enough context for the webhook ingestor to act on
	// the event alone, without racing a not-yet-committed write.
	Metadata map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// SessionState is the polled state of a checkout session, used by the
// reconciliation job when a webhook may have been missed.
type SessionState struct {
	ID         string
	Paid       bool
	Expired    bool
	PaymentRef string
}

// EventKind is a closed enumeration of the processor event shapes this
// service acts on. Anything else maps to EventUnhandled and is explicitly
// ignored by the ingestor.
type EventKind int

const (
	EventUnhandled EventKind = iota
	EventCheckoutCompleted
	EventCheckoutExpired
	EventCheckoutPaymentFailed
)

// Event is the verified, decoded webhook payload. SessionID is the
// idempotency key for all downstream state transitions.
type Event struct {
	Kind       EventKind
	Type       string
	SessionID  string
	PaymentRef string
	Metadata   map[string]string
}

// Client is the payment-processor boundary. Implementations must bound every
// network call with a timeout and surface failures as domain.UpstreamError.
type Client interface {
	CreateConnectedAccount(ctx context.Context, email string) (string, error)
	GetAccountReadiness(ctx context.Context, accountID string) (Readiness, error)
	CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (SessionState, error)
	// VerifyWebhook authenticates the raw payload against its signature header
	// before any decoding. A verification failure must cause the caller to
	// reject the request with no state change.
	VerifyWebhook(payload []byte, signatureHeader string) (Event, error)
}

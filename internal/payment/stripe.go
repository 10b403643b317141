package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"rentonomic-backend/internal/domain"
)

// StripeClient implements Client against the Stripe API. It is handed around
// as an explicit dependency so tests can substitute a fake without touching
// process-wide state.
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

func NewStripeClient(secretKey, webhookSecret string, timeout time.Duration) *StripeClient {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: timeout},
	})
	api := client.New(secretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})
	return &StripeClient{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (c *StripeClient) CreateConnectedAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
	}
	params.Context = ctx

	acct, err := c.api.Accounts.New(params)
	if err != nil {
		return "", &domain.UpstreamError{Op: "create connected account", Err: err}
	}
	return acct.ID, nil
}

func (c *StripeClient) GetAccountReadiness(ctx context.Context, accountID string) (Readiness, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := c.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return Readiness{}, &domain.UpstreamError{Op: "get account readiness", Err: err}
	}
	return Readiness{
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
	}, nil
}

func (c *StripeClient) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := c.api.AccountLinks.New(params)
	if err != nil {
		return "", &domain.UpstreamError{Op: "create onboarding link", Err: err}
	}
	return link.URL, nil
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountPence),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(p.ApplicationFeePence),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(p.DestinationAccountID),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, &domain.UpstreamError{Op: "create checkout session", Err: err}
	}
	return CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (c *StripeClient) GetCheckoutSession(ctx context.Context, sessionID string) (SessionState, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return SessionState{}, &domain.UpstreamError{Op: "get checkout session", Err: err}
	}

	state := SessionState{
		ID:      sess.ID,
		Paid:    sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Expired: sess.Status == stripe.CheckoutSessionStatusExpired,
	}
	if sess.PaymentIntent != nil {
		state.PaymentRef = sess.PaymentIntent.ID
	}
	return state, nil
}

func (c *StripeClient) VerifyWebhook(payload []byte, signatureHeader string) (Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, c.webhookSecret)
	if err != nil {
		return Event{}, &domain.WebhookVerificationError{Err: err}
	}
	return decodeEvent(event)
}

// decodeEvent maps Stripe's polymorphic event payload onto the closed Event
// union. Checkout-session events are the only ones that drive state; every
// other type decodes to EventUnhandled.
func decodeEvent(event stripe.Event) (Event, error) {
	out := Event{Kind: EventUnhandled, Type: string(event.Type)}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		out.Kind = EventCheckoutCompleted
	case stripe.EventTypeCheckoutSessionExpired:
		out.Kind = EventCheckoutExpired
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		out.Kind = EventCheckoutPaymentFailed
	default:
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return Event{}, &domain.WebhookVerificationError{Err: err}
	}
	out.SessionID = sess.ID
	out.Metadata = sess.Metadata
	if sess.PaymentIntent != nil {
		out.PaymentRef = sess.PaymentIntent.ID
	}
	return out, nil
}

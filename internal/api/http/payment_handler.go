package http

import (
	"io"
	"net/http"

	"rentonomic-backend/internal/service"
)

// Stripe signed payloads are small; cap reads well above any real event size.
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	accounts service.AccountService
	webhooks service.WebhookService
}

func NewPaymentHandler(accounts service.AccountService, webhooks service.WebhookService) *PaymentHandler {
	return &PaymentHandler{accounts: accounts, webhooks: webhooks}
}

func (h *PaymentHandler) OnboardingLink(w http.ResponseWriter, r *http.Request) {
	url, err := h.accounts.OnboardingLink(r.Context(), actorFrom(r).Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Webhook has no bearer auth; the signature header is the authentication.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable payload"})
		return
	}
	if err := h.webhooks.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}

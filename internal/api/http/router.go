package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentonomic-backend/internal/security"
	"rentonomic-backend/internal/service"
)

type Services struct {
	Listings service.ListingService
	Rentals  service.RentalService
	Checkout service.CheckoutService
	Accounts service.AccountService
	Webhooks service.WebhookService
	Messages service.MessageService
	Admin    service.AdminService
}

// NewRouter wires the full HTTP surface. The webhook and the public listing
// reads bypass bearer auth; everything else requires a valid token.
func NewRouter(svcs Services, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()

	listings := NewListingHandler(svcs.Listings)
	rentals := NewRentalHandler(svcs.Rentals, svcs.Checkout)
	payments := NewPaymentHandler(svcs.Accounts, svcs.Webhooks)
	messages := NewMessageHandler(svcs.Messages)
	admin := NewAdminHandler(svcs.Admin)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	router.HandleFunc("/listings", listings.List).Methods(http.MethodGet)
	router.HandleFunc("/listings/{id}", listings.Get).Methods(http.MethodGet)
	router.HandleFunc("/payments/webhook", payments.Webhook).Methods(http.MethodPost)

	authed := router.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))
	authed.HandleFunc("/listings", listings.Create).Methods(http.MethodPost)
	authed.HandleFunc("/listings/{id}", listings.Update).Methods(http.MethodPatch)
	authed.HandleFunc("/my-listings", listings.ListMine).Methods(http.MethodGet)

	authed.HandleFunc("/rental-requests", rentals.Create).Methods(http.MethodPost)
	authed.HandleFunc("/my-rental-requests", rentals.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/rental-requests/{id}/accept", rentals.Accept).Methods(http.MethodPost)
	authed.HandleFunc("/rental-requests/{id}/decline", rentals.Decline).Methods(http.MethodPost)
	authed.HandleFunc("/rental-requests/{id}/checkout", rentals.Checkout).Methods(http.MethodPost)

	authed.HandleFunc("/payments/onboarding-link", payments.OnboardingLink).Methods(http.MethodPost)

	authed.HandleFunc("/message-threads", messages.ListThreads).Methods(http.MethodGet)
	authed.HandleFunc("/message-threads/{id}/messages", messages.ReadMessages).Methods(http.MethodGet)
	authed.HandleFunc("/messages", messages.Post).Methods(http.MethodPost)

	authed.HandleFunc("/admin/rental-requests", admin.ListRentalRequests).Methods(http.MethodGet)
	authed.HandleFunc("/admin/listings/{id}", admin.RemoveListing).Methods(http.MethodDelete)

	return router
}

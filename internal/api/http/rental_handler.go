package http

import (
	"net/http"

	"github.com/google/uuid"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/service"
	"rentonomic-backend/internal/utils"
)

type RentalHandler struct {
	rentals  service.RentalService
	checkout service.CheckoutService
}

func NewRentalHandler(rentals service.RentalService, checkout service.CheckoutService) *RentalHandler {
	return &RentalHandler{rentals: rentals, checkout: checkout}
}

type createRentalRequest struct {
	ListingID string `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type rentalResponse struct {
	Rental *domain.Rental `json:"rental"`
	Quote  *utils.Quote   `json:"quote,omitempty"`
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "listing_id", Reason: "must be a uuid"})
		return
	}
	rental, quote, err := h.rentals.CreateRequest(r.Context(), actorFrom(r), listingID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rentalResponse{Rental: rental, Quote: &quote})
}

func (h *RentalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.ListMine(r.Context(), actorFrom(r), r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rental, err := h.rentals.Accept(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentalResponse{Rental: rental})
}

type declineRentalRequest struct {
	Reason string `json:"reason"`
}

func (h *RentalHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	// The body is optional; a decline without a reason is fine.
	var req declineRentalRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	rental, err := h.rentals.Decline(r.Context(), actorFrom(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentalResponse{Rental: rental})
}

func (h *RentalHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	url, err := h.checkout.CreateCheckout(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

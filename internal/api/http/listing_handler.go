package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/service"
)

type ListingHandler struct {
	listings service.ListingService
}

func NewListingHandler(listings service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

type createListingRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	PricePerDayPence int64  `json:"price_per_day_pence"`
	ImageURL         string `json:"image_url"`
}

type updateListingRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	Location         *string `json:"location"`
	PricePerDayPence *int64  `json:"price_per_day_pence"`
	ImageURL         *string `json:"image_url"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.listings.Create(r.Context(), actorFrom(r), service.CreateListingParams{
		Name:             req.Name,
		Description:      req.Description,
		Location:         req.Location,
		PricePerDayPence: req.PricePerDayPence,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListMine(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateListingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.listings.Update(r.Context(), actorFrom(r), id, service.UpdateListingParams{
		Name:             req.Name,
		Description:      req.Description,
		Location:         req.Location,
		PricePerDayPence: req.PricePerDayPence,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: "id", Reason: "must be a uuid"}
	}
	return id, nil
}

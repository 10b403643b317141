package http

import (
	"net/http"

	"rentonomic-backend/internal/service"
)

type AdminHandler struct {
	admin service.AdminService
}

func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) ListRentalRequests(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.admin.ListAllRentalRequests(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *AdminHandler) RemoveListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.admin.RemoveListing(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

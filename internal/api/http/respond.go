package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/logger"
)

type errorResponse struct {
	Error          string `json:"error"`
	Field          string `json:"field,omitempty"`
	CurrentStatus  string `json:"current_status,omitempty"`
	RemediationURL string `json:"onboarding_url,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes in one
// place. Anything unrecognized is a 500 with no internal detail leaked.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr   *domain.ValidationError
		notFoundErr     *domain.NotFoundError
		conflictErr     *domain.ConflictError
		authzErr        *domain.AuthorizationError
		notReadyErr     *domain.PaymentNotReadyError
		upstreamErr     *domain.UpstreamError
		verificationErr *domain.WebhookVerificationError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Field: validationErr.Field})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: conflictErr.Error(), CurrentStatus: conflictErr.CurrentStatus})
	case errors.As(err, &authzErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: authzErr.Error()})
	case errors.As(err, &notReadyErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: notReadyErr.Error(), RemediationURL: notReadyErr.RemediationURL})
	case errors.As(err, &verificationErr):
		// No payload or signature detail in the log line.
		logger.Warn("webhook rejected", "error", verificationErr.Error())
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verificationErr.Error()})
	case errors.As(err, &upstreamErr):
		logger.Error("payment processor call failed", "op", upstreamErr.Op, "error", upstreamErr.Err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "payment processor unavailable"})
	default:
		logger.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed json"}
	}
	return nil
}

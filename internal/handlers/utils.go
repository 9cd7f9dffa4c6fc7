package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ieti-edutrack/apiserver/internal/services"
)

const maxBodyBytes = 1 << 20

// MessageResponse is the minimal payload every endpoint returns.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Success: false, Message: message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: message})
}

// writeServiceError maps service error kinds onto HTTP status codes. Store
// failures carry a generic message; the cause has already been logged.
func writeServiceError(w http.ResponseWriter, err error) {
	message := "Internal server error."
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, message)
	case errors.Is(err, services.ErrAuth):
		writeError(w, http.StatusUnauthorized, message)
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, message)
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, message)
	case errors.Is(err, services.ErrConflict):
		writeError(w, http.StatusConflict, message)
	default:
		writeError(w, http.StatusInternalServerError, message)
	}
}

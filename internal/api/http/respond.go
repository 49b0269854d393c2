package http

import (
	"encoding/json"
	"net/http"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/logger"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// listData wraps paginated collections.
type listData struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
}

func respond(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(envelope{Status: "success", Data: data}); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func respondMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Status: "success", Message: message})
}

// respondError maps the error's kind to an HTTP status. Internal errors are
// logged with their cause and reported to the client generically.
func respondError(w http.ResponseWriter, err error) {
	code := apperrors.HTTPStatus(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		message = "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Status: "error", Message: message})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}

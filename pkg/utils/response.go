package utils

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"fiber-storefront/internal/domain"
)

const GenericErrorMessage = "Something went wrong. Please try again."

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteAppError maps the error taxonomy onto the {"error": message} envelope.
// Transport failures never leak their detail.
func WriteAppError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		userErr    *domain.UserError
		upstream   *domain.UpstreamStatusError
	)
	switch {
	case errors.As(err, &validation):
		WriteError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &userErr):
		WriteError(w, http.StatusBadRequest, userErr.Message)
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrContentNotFound), errors.Is(err, domain.ErrCartNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		WriteError(w, status, GenericErrorMessage)
	default:
		WriteError(w, http.StatusInternalServerError, GenericErrorMessage)
	}
}

// DecodeJSON reads a request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError("body", "Invalid request body")
	}
	return nil
}

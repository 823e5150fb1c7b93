// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/mayfashion/marketing-backend/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsInvalidTransition(err):
		status = http.StatusConflict
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsNoAudience(err):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"message": err.Error()})
}

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gameassets/backend/internal/models"
)

// writeError writes the service's JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}

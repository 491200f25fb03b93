package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gameassets/backend/internal/apperr"
	"github.com/gameassets/backend/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}

// respondServiceError maps a service error to its status code.
// Client errors carry their reason; server errors only carry "action" and are logged.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error, action string) {
	status := apperr.HTTPStatus(err)
	switch status {
	case http.StatusInternalServerError:
		h.logger.Error(action, zap.Error(err))
		h.respondError(w, status, action)
	case http.StatusGatewayTimeout:
		h.logger.Warn(action, zap.Error(err))
		h.respondError(w, status, apperr.Message(err, "database operation timed out"))
	default:
		h.logger.Debug(action, zap.Error(err), zap.Int("status", status))
		h.respondError(w, status, apperr.Message(err, action))
	}
}

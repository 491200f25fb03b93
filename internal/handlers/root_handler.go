package handlers

import (
	"net/http"

	"github.com/gameassets/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RootHandler answers liveness checks with the name of the active database
type RootHandler struct {
	BaseHandler
	databaseName string
}

// NewRootHandler creates a new root handler
func NewRootHandler(databaseName string, logger *zap.Logger) *RootHandler {
	return &RootHandler{
		BaseHandler:  BaseHandler{logger: logger},
		databaseName: databaseName,
	}
}

// RegisterRoutes registers the root route
func (h *RootHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
}

// Root handles GET /
// @Summary Liveness
// @Description Returns the name of the database the service is connected to
// @Tags system
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router / [get]
func (h *RootHandler) Root(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, models.MessageResponse{Message: h.databaseName})
}

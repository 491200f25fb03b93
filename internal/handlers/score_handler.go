package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gameassets/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ScoreService is the interface that wraps methods for player score business logic.
type ScoreService interface {
	// Method Create stores a new score and returns its ID.
	Create(ctx context.Context, input models.ScoreInput) (string, error)
	// Method GetByID retrieve a score by its ID.
	//
	// Malformed ids return an invalid-input error, unknown ids a not-found error.
	GetByID(ctx context.Context, id string) (*models.Score, error)
	// Method Search retrieve scores whose player name contains "playerName" ignoring case, highest score first.
	Search(ctx context.Context, playerName string) ([]models.Score, error)
	// Method TopScores retrieve at most "limit" scores, highest first.
	//
	// A non-positive limit returns an invalid-input error.
	TopScores(ctx context.Context, limit int) ([]models.Score, error)
	// Method Update replaces the score and reports whether anything changed.
	Update(ctx context.Context, id string, input models.ScoreInput) (bool, error)
	// Method Delete removes the score.
	Delete(ctx context.Context, id string) error
}

// ScoreHandler handles HTTP requests for player scores
type ScoreHandler struct {
	BaseHandler
	service ScoreService
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(svc ScoreService, logger *zap.Logger) *ScoreHandler {
	return &ScoreHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all score handler routes
func (h *ScoreHandler) RegisterRoutes(r chi.Router) {
	r.Post("/player_score", h.Create)
	r.Put("/player_score/update/{id}", h.Update)
	r.Route("/player_scores", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Get("/{id}", h.GetByID)
		r.Delete("/{id}", h.Delete)
	})
	r.Get("/top_scores/{limit}", h.TopScores)
}

// Create handles POST /player_score
// @Summary Record a score
// @Tags scores
// @Accept json
// @Produce json
// @Param score body models.ScoreRequest true "Player score"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /player_score [post]
func (h *ScoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.readScore(w, r)
	if !ok {
		return
	}

	id, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, err, "failed to record score")
		return
	}

	h.respondJSON(w, http.StatusOK, models.MessageResponse{Message: "Score recorded", ID: id})
}

// Search handles GET /player_scores
// @Summary Search scores
// @Description List scores, optionally filtered by a case-insensitive player name substring, highest score first
// @Tags scores
// @Produce json
// @Param player_name query string false "Player name substring"
// @Success 200 {array} models.Score
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /player_scores [get]
func (h *ScoreHandler) Search(w http.ResponseWriter, r *http.Request) {
	playerName := r.URL.Query().Get("player_name")

	scores, err := h.service.Search(r.Context(), playerName)
	if err != nil {
		h.respondServiceError(w, err, "failed to search scores")
		return
	}

	h.respondJSON(w, http.StatusOK, scores)
}

// GetByID handles GET /player_scores/{id}
// @Summary Get a score
// @Tags scores
// @Produce json
// @Param id path string true "Score ID"
// @Success 200 {object} models.Score
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /player_scores/{id} [get]
func (h *ScoreHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	score, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to get score")
		return
	}

	h.respondJSON(w, http.StatusOK, score)
}

// Update handles PUT /player_score/update/{id}
// @Summary Replace a score
// @Tags scores
// @Accept json
// @Produce json
// @Param id path string true "Score ID"
// @Param score body models.ScoreRequest true "Player score"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /player_score/update/{id} [put]
func (h *ScoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	input, ok := h.readScore(w, r)
	if !ok {
		return
	}

	changed, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.respondServiceError(w, err, "failed to update score")
		return
	}

	message := "Score updated"
	if !changed {
		message = "No changes applied"
	}
	h.respondJSON(w, http.StatusOK, models.MessageResponse{Message: message})
}

// Delete handles DELETE /player_scores/{id}
// @Summary Delete a score
// @Tags scores
// @Produce json
// @Param id path string true "Score ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /player_scores/{id} [delete]
func (h *ScoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "failed to delete score")
		return
	}

	h.respondJSON(w, http.StatusOK, models.MessageResponse{Message: "Score deleted"})
}

// TopScores handles GET /top_scores/{limit}
// @Summary Leaderboard
// @Description Get at most "limit" scores ordered by score descending
// @Tags scores
// @Produce json
// @Param limit path int true "Number of scores, must be positive"
// @Success 200 {array} models.Score
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /top_scores/{limit} [get]
func (h *ScoreHandler) TopScores(w http.ResponseWriter, r *http.Request) {
	limitParam := chi.URLParam(r, "limit")

	limit, err := strconv.Atoi(limitParam)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid limit: must be a positive integer")
		return
	}

	scores, err := h.service.TopScores(r.Context(), limit)
	if err != nil {
		h.respondServiceError(w, err, "failed to get top scores")
		return
	}

	h.respondJSON(w, http.StatusOK, scores)
}

// readScore decodes and validates a score request body.
// On failure the error response is already written.
func (h *ScoreHandler) readScore(w http.ResponseWriter, r *http.Request) (models.ScoreInput, bool) {
	var req models.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return models.ScoreInput{}, false
	}

	if req.PlayerName == nil {
		h.respondError(w, http.StatusBadRequest, "player_name is required")
		return models.ScoreInput{}, false
	}
	if req.Score == nil {
		h.respondError(w, http.StatusBadRequest, "score is required")
		return models.ScoreInput{}, false
	}

	return models.ScoreInput{PlayerName: *req.PlayerName, Score: *req.Score}, true
}

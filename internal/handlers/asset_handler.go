package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gameassets/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartMemory is the part of a multipart body kept in memory, the rest goes to temp files
const multipartMemory = 32 << 20

// AssetService is the interface that wraps methods for one asset kind business logic.
type AssetService interface {
	// Method Upload validates and stores a new asset and returns its ID.
	//
	// If the content type does not match the asset kind an invalid-input error is returned.
	Upload(ctx context.Context, upload models.AssetUpload) (string, error)
	// Method GetByID retrieve asset metadata by its ID.
	//
	// Malformed ids return an invalid-input error, unknown ids a not-found error.
	GetByID(ctx context.Context, id string) (*models.AssetMetadata, error)
	// Method Search retrieve id and filename of assets whose filename contains "filename" ignoring case.
	Search(ctx context.Context, filename string) ([]models.AssetSummary, error)
	// Method Update replaces the asset and reports whether anything changed.
	//
	// Please reference GetByID and Upload methods for error values.
	Update(ctx context.Context, id string, upload models.AssetUpload) (bool, error)
	// Method Delete removes the asset.
	Delete(ctx context.Context, id string) error
	// Method Kind returns the asset kind handled by the service.
	Kind() models.AssetKind
}

// AssetHandler handles HTTP requests for one asset kind (sprites or audio)
type AssetHandler struct {
	BaseHandler
	service AssetService
	kind    models.AssetKind
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(svc AssetService, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
		kind:        svc.Kind(),
	}
}

// RegisterRoutes registers all asset routes of the handler's kind
func (h *AssetHandler) RegisterRoutes(r chi.Router) {
	r.Post("/upload_"+h.kind.Name, h.Upload)
	r.Route("/"+h.kind.Collection, func(r chi.Router) {
		r.Get("/", h.Search)
		r.Get("/{id}", h.GetByID)
		r.Put("/update/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Upload handles POST /upload_sprite and POST /upload_audio
// @Summary Upload an asset
// @Description Upload a sprite (image/*) or audio clip (audio/*) as multipart field "file"
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Asset file"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /upload_sprite [post]
// @Router /upload_audio [post]
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	upload, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	id, err := h.service.Upload(r.Context(), upload)
	if err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to upload %s", h.kind.Name))
		return
	}

	h.respondJSON(w, http.StatusOK, models.MessageResponse{
		Message: h.kind.Label + " uploaded",
		ID:      id,
	})
}

// Search handles GET /sprites and GET /audio
// @Summary Search assets
// @Description List id and filename of assets, optionally filtered by a case-insensitive filename substring
// @Tags assets
// @Produce json
// @Param filename query string false "Filename substring"
// @Success 200 {array} models.AssetSummary
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /sprites [get]
// @Router /audio [get]
func (h *AssetHandler) Search(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")

	assets, err := h.service.Search(r.Context(), filename)
	if err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to search %s", h.kind.Collection))
		return
	}

	h.respondJSON(w, http.StatusOK, assets)
}

// GetByID handles GET /sprites/{id} and GET /audio/{id}
// @Summary Get asset metadata
// @Description Get id, filename and content type of an asset; the content is never returned
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} models.AssetMetadata
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /sprites/{id} [get]
// @Router /audio/{id} [get]
func (h *AssetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	metadata, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to get %s", h.kind.Name))
		return
	}

	h.respondJSON(w, http.StatusOK, metadata)
}

// Update handles PUT /sprites/update/{id} and PUT /audio/update/{id}
// @Summary Replace an asset
// @Description Replace filename, content and content type of an asset with the uploaded file
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Asset ID"
// @Param file formData file true "Asset file"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /sprites/update/{id} [put]
// @Router /audio/update/{id} [put]
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	upload, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	changed, err := h.service.Update(r.Context(), id, upload)
	if err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to update %s", h.kind.Name))
		return
	}

	message := h.kind.Label + " updated"
	if !changed {
		message = "No changes applied"
	}
	h.respondJSON(w, http.StatusOK, models.MessageResponse{Message: message})
}

// Delete handles DELETE /sprites/{id} and DELETE /audio/{id}
// @Summary Delete an asset
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /sprites/{id} [delete]
// @Router /audio/{id} [delete]
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to delete %s", h.kind.Name))
		return
	}

	h.respondJSON(w, http.StatusOK, models.MessageResponse{Message: h.kind.Label + " deleted"})
}

// readUpload reads the "file" part of a multipart request.
// On failure the error response is already written.
func (h *AssetHandler) readUpload(w http.ResponseWriter, r *http.Request) (models.AssetUpload, bool) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return models.AssetUpload{}, false
		}
		h.logger.Debug("failed to parse multipart form", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return models.AssetUpload{}, false
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "file is required")
		return models.AssetUpload{}, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded file", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to read file")
		return models.AssetUpload{}, false
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "multipart/") {
		contentType = "application/octet-stream"
	}

	return models.AssetUpload{
		Filename:    fileHeader.Filename,
		Content:     content,
		ContentType: contentType,
	}, true
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gameassets/backend/internal/apperr"
	"github.com/gameassets/backend/internal/identifier"
	"github.com/gameassets/backend/internal/models"
	"github.com/gameassets/backend/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AssetRepository is the interface that wraps data access methods for one asset collection
type AssetRepository interface {
	// Method Insert stores a new asset document and returns its generated ID.
	Insert(ctx context.Context, doc map[string]any) (primitive.ObjectID, error)
	// Method GetByID retrieve asset metadata (without content) by its ID.
	//
	// If there is no such document an apperr.KindNotFound error is returned.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error)
	// Method Exists reports whether a document with the ID is stored.
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	// Method Search retrieve id and filename of assets whose filename contains "filename" ignoring case.
	//
	// An empty "filename" returns all assets.
	Search(ctx context.Context, filename string) ([]models.Asset, error)
	// Method UpdateByID replaces the given fields and reports whether any of them changed.
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]any) (bool, error)
	// Method DeleteByID removes one document.
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type assetService struct {
	repo   AssetRepository
	kind   models.AssetKind
	logger *zap.Logger
}

// NewAssetService creates a new asset service for the given asset kind
func NewAssetService(repo AssetRepository, kind models.AssetKind, logger *zap.Logger) *assetService {
	return &assetService{
		repo:   repo,
		kind:   kind,
		logger: logger,
	}
}

// Upload validates and stores a new asset, returning its ID
//
// The content type must start with the kind's prefix ("image/" for sprites, "audio/" for audio);
// the check runs before any sanitizing.
func (s *assetService) Upload(ctx context.Context, upload models.AssetUpload) (string, error) {
	if err := s.validateContentType(upload.ContentType); err != nil {
		return "", err
	}

	s.logger.Debug("uploading asset",
		zap.String("kind", s.kind.Name),
		zap.String("filename", upload.Filename),
		zap.String("content_type", upload.ContentType),
		zap.Int("size", len(upload.Content)),
	)

	id, err := s.repo.Insert(ctx, s.document(upload))
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", s.kind.Name, err)
	}

	return identifier.Encode(id), nil
}

// GetByID retrieves asset metadata by its external ID
func (s *assetService) GetByID(ctx context.Context, rawID string) (*models.AssetMetadata, error) {
	id, err := identifier.Decode(rawID)
	if err != nil {
		return nil, err
	}

	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.kind.Name, err)
	}

	contentType := asset.ContentType
	if contentType == "" {
		contentType = s.kind.DefaultContentType
	}

	return &models.AssetMetadata{
		ID:          identifier.Encode(asset.ID),
		Filename:    asset.Filename,
		ContentType: contentType,
	}, nil
}

// Search lists assets whose filename contains the given text, ignoring case
func (s *assetService) Search(ctx context.Context, filename string) ([]models.AssetSummary, error) {
	assets, err := s.repo.Search(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", s.kind.Collection, err)
	}

	summaries := make([]models.AssetSummary, 0, len(assets))
	for _, asset := range assets {
		summaries = append(summaries, models.AssetSummary{
			ID:       identifier.Encode(asset.ID),
			Filename: asset.Filename,
		})
	}

	return summaries, nil
}

// Update replaces filename, content and content type of an existing asset
//
// The returned flag is false when the stored document already had the same values.
func (s *assetService) Update(ctx context.Context, rawID string, upload models.AssetUpload) (bool, error) {
	id, err := identifier.Decode(rawID)
	if err != nil {
		return false, err
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to update %s: %w", s.kind.Name, err)
	}
	if !exists {
		return false, apperr.NotFound(s.kind.Name + " not found")
	}

	if err := s.validateContentType(upload.ContentType); err != nil {
		return false, err
	}

	changed, err := s.repo.UpdateByID(ctx, id, s.document(upload))
	if err != nil {
		return false, fmt.Errorf("failed to update %s: %w", s.kind.Name, err)
	}

	return changed, nil
}

// Delete removes an asset by its external ID
func (s *assetService) Delete(ctx context.Context, rawID string) error {
	id, err := identifier.Decode(rawID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.kind.Name, err)
	}

	return nil
}

// Kind returns the asset kind served by this service
func (s *assetService) Kind() models.AssetKind {
	return s.kind
}

// validateContentType checks the MIME prefix required by the asset kind
func (s *assetService) validateContentType(contentType string) error {
	if !strings.HasPrefix(contentType, s.kind.ContentTypePrefix) {
		return apperr.Invalid(fmt.Sprintf("invalid content type %q: %s files must be %s*", contentType, s.kind.Name, s.kind.ContentTypePrefix))
	}
	return nil
}

// document builds the sanitized document fields of an upload
func (s *assetService) document(upload models.AssetUpload) map[string]any {
	doc := sanitize.Sanitize(sanitize.Object{
		"filename":     sanitize.Text(upload.Filename),
		"content":      sanitize.Raw{V: upload.Content},
		"content_type": sanitize.Text(upload.ContentType),
	})
	return doc.Interface().(map[string]any)
}

package repositories

import (
	"context"
	"time"

	"github.com/gameassets/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// assetRepository stores one asset kind in its own collection
type assetRepository struct {
	*documentRepository[models.Asset]
}

// NewAssetRepository creates a repository for the collection of the given asset kind
func NewAssetRepository(db *mongo.Database, kind models.AssetKind, timeout time.Duration, logger *zap.Logger) *assetRepository {
	return &assetRepository{
		documentRepository: newDocumentRepository[models.Asset](db.Collection(kind.Collection), kind.Name, timeout, logger),
	}
}

// GetByID retrieves asset metadata; the binary content is not loaded
func (r *assetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error) {
	return r.FindByID(ctx, id, bson.M{"content": 0})
}

// Search returns id and filename of assets whose filename contains the filter, ignoring case.
// Results are in the store's natural order.
func (r *assetRepository) Search(ctx context.Context, filename string) ([]models.Asset, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "filename": 1})
	return r.Find(ctx, containsFilter("filename", filename), opts)
}

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

// ScoresCollection is the collection holding player scores
const ScoresCollection = "scores"

type scoreRepository struct {
	*documentRepository[models.Score]
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *mongo.Database, timeout time.Duration, logger *zap.Logger) *scoreRepository {
	return &scoreRepository{
		documentRepository: newDocumentRepository[models.Score](db.Collection(ScoresCollection), "score", timeout, logger),
	}
}

// GetByID retrieves a score by its ID
func (r *scoreRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Score, error) {
	return r.FindByID(ctx, id, nil)
}

// Search returns scores whose player name contains the filter, ignoring case.
// The store does not order the results.
func (r *scoreRepository) Search(ctx context.Context, playerName string) ([]models.Score, error) {
	return r.Find(ctx, containsFilter("player_name", playerName), nil)
}

// Top returns at most limit scores ordered by score descending
func (r *scoreRepository) Top(ctx context.Context, limit int) ([]models.Score, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}}).
		SetLimit(int64(limit))
	return r.Find(ctx, bson.M{}, opts)
}

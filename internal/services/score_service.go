package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/gameassets/backend/internal/apperr"
	"github.com/gameassets/backend/internal/identifier"
	"github.com/gameassets/backend/internal/models"
	"github.com/gameassets/backend/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ScoreRepository is the interface that wraps data access methods for the scores collection
type ScoreRepository interface {
	// Method Insert stores a new score document and returns its generated ID.
	Insert(ctx context.Context, doc map[string]any) (primitive.ObjectID, error)
	// Method GetByID retrieve a score by its ID.
	//
	// If there is no such document an apperr.KindNotFound error is returned.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Score, error)
	// Method Exists reports whether a score with the ID is stored.
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	// Method Search retrieve scores whose player name contains "playerName" ignoring case, in store order.
	Search(ctx context.Context, playerName string) ([]models.Score, error)
	// Method Top retrieve at most "limit" scores sorted by score descending.
	Top(ctx context.Context, limit int) ([]models.Score, error)
	// Method UpdateByID replaces the given fields and reports whether any of them changed.
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]any) (bool, error)
	// Method DeleteByID removes one document.
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// LeaderboardCache is the interface that wraps methods for caching top scores.
type LeaderboardCache interface {
	// Method Generation returns the current cache generation; every Invalidate advances it.
	Generation(ctx context.Context) (int64, error)
	// Method Get returns cached top scores for "limit" in "generation"; the flag is false on a miss.
	Get(ctx context.Context, generation int64, limit int) ([]models.Score, bool, error)
	// Method Set stores top scores for "limit" read in "generation".
	//
	// Entries of a generation older than the current one are never returned by Get.
	Set(ctx context.Context, generation int64, limit int, scores []models.Score) error
	// Method Invalidate drops every cached leaderboard by starting a new generation.
	Invalidate(ctx context.Context) error
}

type scoreService struct {
	repo   ScoreRepository
	cache  LeaderboardCache
	logger *zap.Logger
}

// NewScoreService creates a new score service
func NewScoreService(repo ScoreRepository, cache LeaderboardCache, logger *zap.Logger) *scoreService {
	return &scoreService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Create stores a new score, returning its ID
func (s *scoreService) Create(ctx context.Context, input models.ScoreInput) (string, error) {
	id, err := s.repo.Insert(ctx, scoreDocument(input))
	if err != nil {
		return "", fmt.Errorf("failed to record score: %w", err)
	}

	s.invalidateLeaderboard(ctx)
	return identifier.Encode(id), nil
}

// GetByID retrieves a score by its external ID
func (s *scoreService) GetByID(ctx context.Context, rawID string) (*models.Score, error) {
	id, err := identifier.Decode(rawID)
	if err != nil {
		return nil, err
	}

	score, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}

// Search lists scores whose player name contains the given text, highest score first
func (s *scoreService) Search(ctx context.Context, playerName string) ([]models.Score, error) {
	scores, err := s.repo.Search(ctx, playerName)
	if err != nil {
		return nil, fmt.Errorf("failed to search scores: %w", err)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	return scores, nil
}

// TopScores returns at most limit scores, highest first
//
// limit must be positive. Results are served from the leaderboard cache when present.
func (s *scoreService) TopScores(ctx context.Context, limit int) ([]models.Score, error) {
	if limit <= 0 {
		return nil, apperr.Invalid(fmt.Sprintf("invalid limit %d: must be a positive integer", limit))
	}

	// generation is read before the store query so a write finishing in between
	// leaves the result under an outdated generation
	generation, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.Warn("failed to read leaderboard cache", zap.Error(err), zap.Int("limit", limit))
		return s.topFromStore(ctx, limit)
	}

	cached, ok, err := s.cache.Get(ctx, generation, limit)
	if err != nil {
		s.logger.Warn("failed to read leaderboard cache", zap.Error(err), zap.Int("limit", limit))
	} else if ok {
		return cached, nil
	}

	scores, err := s.topFromStore(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, generation, limit, scores); err != nil {
		s.logger.Warn("failed to write leaderboard cache", zap.Error(err), zap.Int("limit", limit))
	}

	return scores, nil
}

// Update replaces player name and score of an existing score
//
// The returned flag is false when the stored document already had the same values.
func (s *scoreService) Update(ctx context.Context, rawID string, input models.ScoreInput) (bool, error) {
	id, err := identifier.Decode(rawID)
	if err != nil {
		return false, err
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to update score: %w", err)
	}
	if !exists {
		return false, apperr.NotFound("score not found")
	}

	changed, err := s.repo.UpdateByID(ctx, id, scoreDocument(input))
	if err != nil {
		return false, fmt.Errorf("failed to update score: %w", err)
	}

	if changed {
		s.invalidateLeaderboard(ctx)
	}
	return changed, nil
}

// Delete removes a score by its external ID
func (s *scoreService) Delete(ctx context.Context, rawID string) error {
	id, err := identifier.Decode(rawID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}

	s.invalidateLeaderboard(ctx)
	return nil
}

func (s *scoreService) topFromStore(ctx context.Context, limit int) ([]models.Score, error) {
	scores, err := s.repo.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}
	return scores, nil
}

func (s *scoreService) invalidateLeaderboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache", zap.Error(err))
	}
}

// scoreDocument builds the sanitized document fields of a score
func scoreDocument(input models.ScoreInput) map[string]any {
	doc := sanitize.Sanitize(sanitize.Object{
		"player_name": sanitize.Text(input.PlayerName),
		"score":       sanitize.Raw{V: input.Score},
	})
	return doc.Interface().(map[string]any)
}

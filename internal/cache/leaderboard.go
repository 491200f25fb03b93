// Package cache keeps recently computed leaderboards in Redis
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gameassets/backend/internal/models"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	keyPrefix = "leaderboard:top_scores:"
	// generationKey counts score writes; entries of older generations are never read again
	generationKey = "leaderboard:gen"
)

func leaderboardKey(generation int64, limit int) string {
	return keyPrefix + strconv.FormatInt(generation, 10) + ":" + strconv.Itoa(limit)
}

// RedisLeaderboard caches TopScores results in Redis, one key per generation and limit.
// Entries expire after ttl; every score write starts a new generation.
type RedisLeaderboard struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLeaderboard creates a new Redis backed leaderboard cache
func NewRedisLeaderboard(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLeaderboard {
	return &RedisLeaderboard{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Generation returns the current cache generation.
// It must be read before the store query whose result is later passed to Set.
func (c *RedisLeaderboard) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read leaderboard generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached top scores for limit in the given generation. ok is false on a miss.
func (c *RedisLeaderboard) Get(ctx context.Context, generation int64, limit int) ([]models.Score, bool, error) {
	raw, err := c.client.Get(ctx, leaderboardKey(generation, limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read leaderboard cache: %w", err)
	}

	var scores []models.Score
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, false, fmt.Errorf("failed to decode leaderboard cache: %w", err)
	}

	return scores, true, nil
}

// Set stores the top scores for limit under the generation they were read in.
// A write that started a newer generation in the meantime makes the entry unreachable.
func (c *RedisLeaderboard) Set(ctx context.Context, generation int64, limit int, scores []models.Score) error {
	raw, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard cache: %w", err)
	}

	if err := c.client.Set(ctx, leaderboardKey(generation, limit), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write leaderboard cache: %w", err)
	}

	return nil
}

// Invalidate starts a new generation, so every cached leaderboard becomes a miss
func (c *RedisLeaderboard) Invalidate(ctx context.Context) error {
	gen, err := c.client.Incr(ctx, generationKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate leaderboard cache: %w", err)
	}
	c.logger.Debug("leaderboard cache invalidated", zap.Int64("generation", gen))
	return nil
}

// NoopLeaderboard is used when no Redis is configured; every read is a miss
type NoopLeaderboard struct{}

func (NoopLeaderboard) Generation(context.Context) (int64, error) {
	return 0, nil
}

func (NoopLeaderboard) Get(context.Context, int64, int) ([]models.Score, bool, error) {
	return nil, false, nil
}

func (NoopLeaderboard) Set(context.Context, int64, int, []models.Score) error {
	return nil
}

func (NoopLeaderboard) Invalidate(context.Context) error {
	return nil
}

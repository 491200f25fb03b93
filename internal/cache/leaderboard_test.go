package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gameassets/backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// setupTestCache creates a cache backed by an in-memory Redis server
func setupTestCache(t *testing.T) (*RedisLeaderboard, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	return NewRedisLeaderboard(client, time.Minute, logger), server
}

func TestRedisLeaderboard_SetGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()
	scores := []models.Score{
		{ID: primitive.NewObjectID(), PlayerName: "B", Score: 30},
		{ID: primitive.NewObjectID(), PlayerName: "C", Score: 20},
	}

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen, "fresh cache starts at generation zero")

	_, ok, err := cache.Get(ctx, gen, 2)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache is a miss")

	require.NoError(t, cache.Set(ctx, gen, 2, scores))

	cached, ok, err := cache.Get(ctx, gen, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, scores, cached)

	_, ok, err = cache.Get(ctx, gen, 3)
	require.NoError(t, err)
	assert.False(t, ok, "other limits are cached separately")
}

func TestRedisLeaderboard_Invalidate(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, gen, 2, []models.Score{{PlayerName: "A", Score: 1}}))
	require.NoError(t, cache.Set(ctx, gen, 5, []models.Score{{PlayerName: "A", Score: 1}}))

	require.NoError(t, cache.Invalidate(ctx))

	next, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	for _, limit := range []int{2, 5} {
		_, ok, err := cache.Get(ctx, next, limit)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestRedisLeaderboard_SetAfterInvalidateIsNotServed(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	// reader takes the generation, a writer invalidates, then the reader stores its old snapshot
	readGen, err := cache.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))
	require.NoError(t, cache.Set(ctx, readGen, 2, []models.Score{{PlayerName: "A", Score: 1}}))

	current, err := cache.Generation(ctx)
	require.NoError(t, err)
	_, ok, err := cache.Get(ctx, current, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLeaderboard_Expiry(t *testing.T) {
	cache, server := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 0, 2, []models.Score{{PlayerName: "A", Score: 1}}))
	server.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, 0, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLeaderboard_Unavailable(t *testing.T) {
	cache, server := setupTestCache(t)
	server.Close()
	ctx := context.Background()

	_, err := cache.Generation(ctx)
	assert.Error(t, err)

	_, ok, err := cache.Get(ctx, 0, 2)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNoopLeaderboard(t *testing.T) {
	var cache NoopLeaderboard
	ctx := context.Background()

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, gen, 2, []models.Score{{PlayerName: "A"}}))
	scores, ok, err := cache.Get(ctx, gen, 2)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, scores)
	assert.NoError(t, cache.Invalidate(ctx))
}

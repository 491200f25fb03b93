package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gameassets/backend/internal/apperr"
	"github.com/gameassets/backend/internal/cache"
	"github.com/gameassets/backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// mockScoreRepository is a mock implementation of ScoreRepository
type mockScoreRepository struct {
	insertedID   primitive.ObjectID
	score        *models.Score
	scores       []models.Score
	exists       bool
	changed      bool
	err          error
	topCalls     int
	lastLimit    int
	lastDoc      map[string]any
	updateCalled bool
	// onTop runs after Top has taken its snapshot, before the caller sees it
	onTop func()
}

func (m *mockScoreRepository) Insert(ctx context.Context, doc map[string]any) (primitive.ObjectID, error) {
	m.lastDoc = doc
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}
	return m.insertedID, nil
}

func (m *mockScoreRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Score, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.score, nil
}

func (m *mockScoreRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return m.exists, nil
}

func (m *mockScoreRepository) Search(ctx context.Context, playerName string) ([]models.Score, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.scores, nil
}

func (m *mockScoreRepository) Top(ctx context.Context, limit int) ([]models.Score, error) {
	m.topCalls++
	m.lastLimit = limit
	if m.onTop != nil {
		defer m.onTop()
	}
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.scores) {
		return m.scores[:limit], nil
	}
	return m.scores, nil
}

func (m *mockScoreRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]any) (bool, error) {
	m.updateCalled = true
	m.lastDoc = fields
	if m.err != nil {
		return false, m.err
	}
	return m.changed, nil
}

func (m *mockScoreRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	return m.err
}

// mockLeaderboardCache is a mock implementation of LeaderboardCache
type mockLeaderboardCache struct {
	generation  int64
	cached      map[int64]map[int][]models.Score
	getErr      error
	genErr      error
	setCalls    int
	invalidated int
}

func (m *mockLeaderboardCache) Generation(ctx context.Context) (int64, error) {
	if m.genErr != nil {
		return 0, m.genErr
	}
	return m.generation, nil
}

func (m *mockLeaderboardCache) Get(ctx context.Context, generation int64, limit int) ([]models.Score, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	scores, ok := m.cached[generation][limit]
	return scores, ok, nil
}

func (m *mockLeaderboardCache) Set(ctx context.Context, generation int64, limit int, scores []models.Score) error {
	m.setCalls++
	if m.cached == nil {
		m.cached = make(map[int64]map[int][]models.Score)
	}
	if m.cached[generation] == nil {
		m.cached[generation] = make(map[int][]models.Score)
	}
	m.cached[generation][limit] = scores
	return nil
}

func (m *mockLeaderboardCache) Invalidate(ctx context.Context) error {
	m.invalidated++
	m.generation++
	return nil
}

func newTestScoreService(repo *mockScoreRepository, lc LeaderboardCache) *scoreService {
	logger, _ := zap.NewDevelopment()
	return NewScoreService(repo, lc, logger)
}

func TestScoreService_Create(t *testing.T) {
	insertedID := primitive.NewObjectID()

	tests := []struct {
		name             string
		input            models.ScoreInput
		mockRepo         *mockScoreRepository
		expectedName     string
		expectedKind     apperr.Kind
		expectedError    bool
		expectInvalidate int
	}{
		{
			name:             "success",
			input:            models.ScoreInput{PlayerName: "ace", Score: 100},
			mockRepo:         &mockScoreRepository{insertedID: insertedID},
			expectedName:     "ace",
			expectInvalidate: 1,
		},
		{
			name:             "player name sanitized",
			input:            models.ScoreInput{PlayerName: "$where: function(){}", Score: -5},
			mockRepo:         &mockScoreRepository{insertedID: insertedID},
			expectedName:     "where: ",
			expectInvalidate: 1,
		},
		{
			name:          "timeout",
			input:         models.ScoreInput{PlayerName: "ace", Score: 1},
			mockRepo:      &mockScoreRepository{err: apperr.Timeout("database operation timed out", context.DeadlineExceeded)},
			expectedError: true,
			expectedKind:  apperr.KindTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := &mockLeaderboardCache{}
			svc := newTestScoreService(tt.mockRepo, lc)

			id, err := svc.Create(context.Background(), tt.input)

			assert.Equal(t, tt.expectInvalidate, lc.invalidated)
			if tt.expectedError {
				require.Error(t, err)
				assert.Empty(t, id)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, insertedID.Hex(), id)
				assert.Equal(t, tt.expectedName, tt.mockRepo.lastDoc["player_name"])
				assert.Equal(t, tt.input.Score, tt.mockRepo.lastDoc["score"])
			}
		})
	}
}

func TestScoreService_GetByID(t *testing.T) {
	id, _ := primitive.ObjectIDFromHex(validID)
	score := &models.Score{ID: id, PlayerName: "ace", Score: 10}

	tests := []struct {
		name          string
		rawID         string
		mockRepo      *mockScoreRepository
		expectedKind  apperr.Kind
		expectedError bool
	}{
		{name: "success", rawID: validID, mockRepo: &mockScoreRepository{score: score}},
		{name: "malformed id", rawID: "not-an-id", mockRepo: &mockScoreRepository{}, expectedError: true, expectedKind: apperr.KindInvalid},
		{name: "not found", rawID: validID, mockRepo: &mockScoreRepository{err: apperr.NotFound("score not found")}, expectedError: true, expectedKind: apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestScoreService(tt.mockRepo, cache.NoopLeaderboard{})

			result, err := svc.GetByID(context.Background(), tt.rawID)

			if tt.expectedError {
				require.Error(t, err)
				assert.Nil(t, result)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, score, result)
			}
		})
	}
}

func TestScoreService_Search_SortsDescending(t *testing.T) {
	mockRepo := &mockScoreRepository{
		scores: []models.Score{
			{PlayerName: "A", Score: 10},
			{PlayerName: "B", Score: 30},
			{PlayerName: "C", Score: 20},
			{PlayerName: "D", Score: 30},
		},
	}
	svc := newTestScoreService(mockRepo, cache.NoopLeaderboard{})

	result, err := svc.Search(context.Background(), "")

	require.NoError(t, err)
	names := make([]string, 0, len(result))
	for _, s := range result {
		names = append(names, s.PlayerName)
	}
	assert.Equal(t, []string{"B", "D", "C", "A"}, names, "ties keep store order")
}

func TestScoreService_Search_Error(t *testing.T) {
	svc := newTestScoreService(&mockScoreRepository{err: errors.New("database error")}, cache.NoopLeaderboard{})

	result, err := svc.Search(context.Background(), "ace")

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestScoreService_TopScores(t *testing.T) {
	stored := []models.Score{
		{PlayerName: "B", Score: 30},
		{PlayerName: "C", Score: 20},
		{PlayerName: "A", Score: 10},
	}

	tests := []struct {
		name          string
		limit         int
		expected      []models.Score
		expectedError bool
	}{
		{name: "top two", limit: 2, expected: stored[:2]},
		{name: "limit above count", limit: 10, expected: stored},
		{name: "zero limit", limit: 0, expectedError: true},
		{name: "negative limit", limit: -3, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockScoreRepository{scores: stored}
			svc := newTestScoreService(mockRepo, cache.NoopLeaderboard{})

			result, err := svc.TopScores(context.Background(), tt.limit)

			if tt.expectedError {
				require.Error(t, err)
				assert.Nil(t, result)
				assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
				assert.Zero(t, mockRepo.topCalls)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
				assert.Equal(t, tt.limit, mockRepo.lastLimit)
			}
		})
	}
}

func TestScoreService_TopScores_Cache(t *testing.T) {
	mockRepo := &mockScoreRepository{
		scores:     []models.Score{{PlayerName: "B", Score: 30}, {PlayerName: "C", Score: 20}},
		insertedID: primitive.NewObjectID(),
	}
	lc := &mockLeaderboardCache{}
	svc := newTestScoreService(mockRepo, lc)
	ctx := context.Background()

	_, err := svc.TopScores(ctx, 2)
	require.NoError(t, err)
	_, err = svc.TopScores(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, mockRepo.topCalls, "second read is served from cache")

	_, err = svc.Create(ctx, models.ScoreInput{PlayerName: "E", Score: 50})
	require.NoError(t, err)
	_, err = svc.TopScores(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, mockRepo.topCalls, "writes invalidate the cache")
}

func TestScoreService_TopScores_CacheFailure(t *testing.T) {
	tests := []struct {
		name          string
		cache         *mockLeaderboardCache
		expectedWrite int
	}{
		{name: "get fails", cache: &mockLeaderboardCache{getErr: errors.New("redis down")}, expectedWrite: 1},
		{name: "generation fails", cache: &mockLeaderboardCache{genErr: errors.New("redis down")}, expectedWrite: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockScoreRepository{scores: []models.Score{{PlayerName: "B", Score: 30}}}
			svc := newTestScoreService(mockRepo, tt.cache)

			result, err := svc.TopScores(context.Background(), 1)

			require.NoError(t, err)
			assert.Len(t, result, 1)
			assert.Equal(t, 1, mockRepo.topCalls)
			assert.Equal(t, tt.expectedWrite, tt.cache.setCalls)
		})
	}
}

func TestScoreService_TopScores_WriteDuringRead(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	logger := zap.NewNop()

	mockRepo := &mockScoreRepository{
		scores:     []models.Score{{PlayerName: "A", Score: 10}},
		insertedID: primitive.NewObjectID(),
	}
	svc := NewScoreService(mockRepo, cache.NewRedisLeaderboard(client, time.Minute, logger), logger)
	ctx := context.Background()

	// a score write commits after the store read but before the result is cached
	mockRepo.onTop = func() {
		mockRepo.onTop = nil
		_, err := svc.Create(ctx, models.ScoreInput{PlayerName: "B", Score: 99})
		require.NoError(t, err)
		mockRepo.scores = []models.Score{{PlayerName: "B", Score: 99}, {PlayerName: "A", Score: 10}}
	}

	first, err := svc.TopScores(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := svc.TopScores(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, mockRepo.scores, second, "leaderboard read after a finished write reflects it")
	assert.Equal(t, 2, mockRepo.topCalls)

	third, err := svc.TopScores(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, second, third)
	assert.Equal(t, 2, mockRepo.topCalls, "fresh result is cached")
}

func TestScoreService_Update(t *testing.T) {
	tests := []struct {
		name             string
		rawID            string
		mockRepo         *mockScoreRepository
		expectedChanged  bool
		expectedKind     apperr.Kind
		expectedError    bool
		expectInvalidate int
	}{
		{
			name:             "updated",
			rawID:            validID,
			mockRepo:         &mockScoreRepository{exists: true, changed: true},
			expectedChanged:  true,
			expectInvalidate: 1,
		},
		{
			name:            "identical values",
			rawID:           validID,
			mockRepo:        &mockScoreRepository{exists: true, changed: false},
			expectedChanged: false,
		},
		{
			name:          "malformed id",
			rawID:         "xyz",
			mockRepo:      &mockScoreRepository{exists: true},
			expectedError: true,
			expectedKind:  apperr.KindInvalid,
		},
		{
			name:          "not found",
			rawID:         validID,
			mockRepo:      &mockScoreRepository{exists: false},
			expectedError: true,
			expectedKind:  apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := &mockLeaderboardCache{}
			svc := newTestScoreService(tt.mockRepo, lc)

			changed, err := svc.Update(context.Background(), tt.rawID, models.ScoreInput{PlayerName: "ace", Score: 100})

			assert.Equal(t, tt.expectInvalidate, lc.invalidated)
			if tt.expectedError {
				require.Error(t, err)
				assert.False(t, changed)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
				assert.False(t, tt.mockRepo.updateCalled)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedChanged, changed)
			}
		})
	}
}

func TestScoreService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		rawID         string
		mockRepo      *mockScoreRepository
		expectedKind  apperr.Kind
		expectedError bool
	}{
		{name: "success", rawID: validID, mockRepo: &mockScoreRepository{}},
		{name: "malformed id", rawID: "", mockRepo: &mockScoreRepository{}, expectedError: true, expectedKind: apperr.KindInvalid},
		{name: "not found", rawID: validID, mockRepo: &mockScoreRepository{err: apperr.NotFound("score not found")}, expectedError: true, expectedKind: apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestScoreService(tt.mockRepo, cache.NoopLeaderboard{})

			err := svc.Delete(context.Background(), tt.rawID)

			if tt.expectedError {
				require.Error(t, err)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

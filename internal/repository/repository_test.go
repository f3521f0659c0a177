package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/edgecast/internal/config"
	"github.com/yourusername/edgecast/internal/database"
	"github.com/yourusername/edgecast/internal/models"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newRecommendation(date, marketID string, stake float64) *models.StakeRecommendation {
	return &models.StakeRecommendation{
		ID:                          uuid.New(),
		Date:                        date,
		MarketID:                    marketID,
		Outcomes:                    models.Outcomes{"Yes", "No"},
		PredictedOutcome:            "Yes",
		ProbabilityOfOutcomeA:       0.7,
		MarketProbabilityOfOutcomeA: 0.4,
		Confidence:                  8,
		StakeFraction:               stake,
		CreatedAt:                   baseTime,
	}
}

func scoredFrom(rec *models.StakeRecommendation, correct bool) *models.ScoredPrediction {
	return &models.ScoredPrediction{
		StakeRecommendation: *rec,
		WasCorrect:          correct,
		CalibrationError:    0.09,
		RealizedReturn:      0.2,
		ResolvedAt:          baseTime.Add(24 * time.Hour),
	}
}

func newSQLiteRepo(t *testing.T) RecommendationRepository {
	t.Helper()
	repo, err := NewSQLiteRecommendationRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newPostgresRepo(t *testing.T) RecommendationRepository {
	t.Helper()
	db := database.SetupTestDB(t)
	t.Cleanup(func() { database.TeardownTestDB(t, db) })
	return NewPostgresRecommendationRepository(db)
}

func TestSQLiteRecommendationRepository(t *testing.T) {
	runRepositoryContract(t, newSQLiteRepo)
}

func TestPostgresRecommendationRepository(t *testing.T) {
	runRepositoryContract(t, newPostgresRepo)
}

func runRepositoryContract(t *testing.T, newRepo func(*testing.T) RecommendationRepository) {
	ctx := context.Background()

	t.Run("save and list by date", func(t *testing.T) {
		repo := newRepo(t)
		b := newRecommendation("2024-03-01", "b", 0.1)
		a := newRecommendation("2024-03-01", "a", 0)
		other := newRecommendation("2024-03-02", "a", 0.2)
		for _, rec := range []*models.StakeRecommendation{b, a, other} {
			require.NoError(t, repo.Save(ctx, rec))
		}

		recs, err := repo.ListByDate(ctx, "2024-03-01")
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, a, recs[0])
		assert.Equal(t, b, recs[1])
	})

	t.Run("save replaces same date and market", func(t *testing.T) {
		repo := newRepo(t)
		first := newRecommendation("2024-03-01", "m1", 0.1)
		second := newRecommendation("2024-03-01", "m1", 0.3)
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))

		recs, err := repo.ListByDate(ctx, "2024-03-01")
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, second.ID, recs[0].ID)
		assert.Equal(t, 0.3, recs[0].StakeFraction)
	})

	t.Run("save rejects incomplete recommendation", func(t *testing.T) {
		repo := newRepo(t)
		assert.Error(t, repo.Save(ctx, &models.StakeRecommendation{MarketID: "m1"}))
	})

	t.Run("pending excludes scored", func(t *testing.T) {
		repo := newRepo(t)
		r1 := newRecommendation("2024-03-01", "m1", 0.1)
		r2 := newRecommendation("2024-03-01", "m2", 0.1)
		require.NoError(t, repo.Save(ctx, r1))
		require.NoError(t, repo.Save(ctx, r2))
		require.NoError(t, repo.SaveScored(ctx, scoredFrom(r1, true)))

		pending, err := repo.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "m2", pending[0].MarketID)

		scored, err := repo.IsScored(ctx, r1.Date, r1.MarketID)
		require.NoError(t, err)
		assert.True(t, scored)

		scored, err = repo.IsScored(ctx, r2.Date, r2.MarketID)
		require.NoError(t, err)
		assert.False(t, scored)
	})

	t.Run("scored survives replaced recommendation", func(t *testing.T) {
		repo := newRepo(t)
		first := newRecommendation("2024-03-01", "m1", 0.1)
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.SaveScored(ctx, scoredFrom(first, true)))

		// a later cycle the same day stores a fresh id for the market
		second := newRecommendation("2024-03-01", "m1", 0.3)
		require.NoError(t, repo.Save(ctx, second))
		require.NotEqual(t, first.ID, second.ID)

		scored, err := repo.IsScored(ctx, second.Date, second.MarketID)
		require.NoError(t, err)
		assert.True(t, scored)

		pending, err := repo.ListPending(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("scored is insert only", func(t *testing.T) {
		repo := newRepo(t)
		rec := newRecommendation("2024-03-01", "m1", 0.1)
		require.NoError(t, repo.SaveScored(ctx, scoredFrom(rec, true)))

		err := repo.SaveScored(ctx, scoredFrom(rec, false))
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrDuplicateKey))

		got, err := repo.ListScored(ctx, "2024-03-01", "2024-03-01")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].WasCorrect)
	})

	t.Run("list scored window is inclusive", func(t *testing.T) {
		repo := newRepo(t)
		for _, date := range []string{"2024-02-28", "2024-03-01", "2024-03-05", "2024-03-06"} {
			require.NoError(t, repo.SaveScored(ctx, scoredFrom(newRecommendation(date, "m", 0.1), true)))
		}

		got, err := repo.ListScored(ctx, "2024-03-01", "2024-03-05")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "2024-03-01", got[0].Date)
		assert.Equal(t, "2024-03-05", got[1].Date)
		assert.Equal(t, baseTime.Add(24*time.Hour), got[0].ResolvedAt.UTC())
	})
}

func TestSQLiteRecommendationRepositoryPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edgecast.db")
	ctx := context.Background()

	repo, err := NewSQLiteRecommendationRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, newRecommendation("2024-03-01", "m1", 0.1)))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRecommendationRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	recs, err := reopened.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestNewUnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongo"}}
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "store.db"),
	}}
	repo, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, repo.Close())
}

package service

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/edgecast/internal/models"
	"github.com/yourusername/edgecast/internal/repository"
)

type mockMarketProvider struct {
	mock.Mock
}

func (m *mockMarketProvider) ActiveMarkets(ctx context.Context) ([]models.MarketQuote, error) {
	args := m.Called(ctx)
	quotes, _ := args.Get(0).([]models.MarketQuote)
	return quotes, args.Error(1)
}

type mockPredictor struct {
	mock.Mock
}

func (m *mockPredictor) Predict(ctx context.Context, quote models.MarketQuote) (models.ModelEstimate, error) {
	args := m.Called(ctx, quote)
	return args.Get(0).(models.ModelEstimate), args.Error(1)
}

type mockSettlementProvider struct {
	mock.Mock
}

func (m *mockSettlementProvider) Settlement(ctx context.Context, marketID string) (*models.SettlementRecord, error) {
	args := m.Called(ctx, marketID)
	record, _ := args.Get(0).(*models.SettlementRecord)
	return record, args.Error(1)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRepo(t *testing.T) repository.RecommendationRepository {
	t.Helper()
	repo, err := repository.NewSQLiteRecommendationRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func quote(id string, price float64) models.MarketQuote {
	return models.MarketQuote{
		MarketID:        id,
		Title:           "Market " + id,
		Outcomes:        models.Outcomes{"Yes", "No"},
		PriceOfOutcomeA: price,
		Volume:          1000,
	}
}

func marketID(id string) interface{} {
	return mock.MatchedBy(func(q models.MarketQuote) bool { return q.MarketID == id })
}

package backtest

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/edgecast/internal/models"
)

func scored(date, market string, probA float64, predicted string, correct bool, ret float64) models.ScoredPrediction {
	return models.ScoredPrediction{
		StakeRecommendation: models.StakeRecommendation{
			Date:                        date,
			MarketID:                    market,
			Outcomes:                    models.Outcomes{"Yes", "No"},
			PredictedOutcome:            predicted,
			ProbabilityOfOutcomeA:       probA,
			MarketProbabilityOfOutcomeA: 0.5,
			StakeFraction:               math.Abs(ret),
		},
		WasCorrect:     correct,
		RealizedReturn: ret,
	}
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.Accuracy)
	assert.Equal(t, 0.0, summary.BrierScore)
	assert.Equal(t, 0.0, summary.AvgBrierScore)
	assert.Equal(t, 0.0, summary.CompoundedROI)
	assert.Equal(t, 0.0, summary.WinRate)
	assert.Equal(t, 0.0, summary.MaxDrawdown)
	assert.NotNil(t, summary.TimeSeries)
	assert.Empty(t, summary.TimeSeries)
	assert.Empty(t, summary.EquityCurve)
}

func TestAggregateCompoundsInDateOrder(t *testing.T) {
	first := scored("2024-01-01", "a", 0.8, "Yes", true, 0.5)
	second := scored("2024-01-02", "b", 0.8, "Yes", false, -0.5)
	third := scored("2024-01-03", "c", 0.8, "Yes", true, 0.2)

	orders := map[string][]models.ScoredPrediction{
		"ascending":  {first, second, third},
		"descending": {third, second, first},
		"shuffled":   {second, third, first},
	}

	for name, input := range orders {
		t.Run(name, func(t *testing.T) {
			before := append([]models.ScoredPrediction(nil), input...)
			summary := Aggregate(input)

			// 1.5 * 0.5 * 1.2
			assert.InDelta(t, -0.10, summary.CompoundedROI, 1e-9)
			require.Len(t, summary.EquityCurve, 3)
			assert.Equal(t, "2024-01-01", summary.EquityCurve[0].Date)
			assert.InDelta(t, 1.5, summary.EquityCurve[0].Multiplier, 1e-9)
			assert.InDelta(t, 0.75, summary.EquityCurve[1].Multiplier, 1e-9)
			assert.InDelta(t, 0.9, summary.EquityCurve[2].Multiplier, 1e-9)
			assert.InDelta(t, 0.5, summary.MaxDrawdown, 1e-9)

			assert.Equal(t, before, input, "input must not be reordered")
		})
	}
}

func TestAggregateStatistics(t *testing.T) {
	predictions := []models.ScoredPrediction{
		// predicted Yes at 0.8, correct: (0.8-1)^2 = 0.04
		scored("2024-02-02", "a", 0.8, "Yes", true, 0.3),
		// predicted No at 0.7, wrong: 0.7^2 = 0.49
		scored("2024-02-01", "b", 0.3, "No", false, -0.2),
		// predicted Yes at 0.6, correct: 0.16
		scored("2024-02-02", "c", 0.6, "Yes", true, 0.1),
	}

	summary := Aggregate(predictions)

	assert.Equal(t, 3, summary.Total)
	assert.InDelta(t, 200.0/3, summary.Accuracy, 1e-9)
	assert.InDelta(t, 200.0/3, summary.WinRate, 1e-9)
	assert.InDelta(t, 0.69, summary.BrierScore, 1e-9)
	assert.InDelta(t, 0.23, summary.AvgBrierScore, 1e-9)
	assert.InDelta(t, 0.8*1.3*1.1-1, summary.CompoundedROI, 1e-9)
	assert.Equal(t, []models.DateCount{
		{Date: "2024-02-01", Count: 1},
		{Date: "2024-02-02", Count: 2},
	}, summary.TimeSeries)
}

func TestAggregateZeroStakeIsNotAWin(t *testing.T) {
	summary := Aggregate([]models.ScoredPrediction{
		scored("2024-03-01", "a", 0.9, "Yes", true, 0),
	})

	assert.Equal(t, 100.0, summary.Accuracy)
	assert.Equal(t, 0.0, summary.WinRate)
	assert.Equal(t, 0.0, summary.CompoundedROI)
}

func TestAggregateClampsReturns(t *testing.T) {
	summary := Aggregate([]models.ScoredPrediction{
		scored("2024-03-01", "a", 0.9, "Yes", false, -5),
		scored("2024-03-02", "b", 0.9, "Yes", true, math.Inf(1)),
	})

	// -5 floors at -0.99; +Inf coerces to 0
	assert.InDelta(t, 0.01-1, summary.CompoundedROI, 1e-9)
	assert.False(t, math.IsNaN(summary.CompoundedROI))
}

func TestAccumulatorMatchesAggregate(t *testing.T) {
	predictions := []models.ScoredPrediction{
		scored("2024-04-01", "a", 0.8, "Yes", true, 0.4),
		scored("2024-04-02", "b", 0.4, "No", false, -0.3),
		scored("2024-04-03", "c", 0.7, "Yes", true, 0.2),
		scored("2024-04-04", "d", 0.2, "No", true, 0.1),
		scored("2024-04-05", "e", 0.9, "Yes", false, -0.6),
	}

	acc := NewAccumulator()
	var wg sync.WaitGroup
	for _, p := range predictions {
		wg.Add(1)
		go func(p models.ScoredPrediction) {
			defer wg.Done()
			acc.Add(p)
		}(p)
	}
	wg.Wait()

	assert.Equal(t, len(predictions), acc.Len())
	assert.InDelta(t, 60.0, acc.Accuracy(), 1e-9)

	want := Aggregate(predictions)
	got := acc.Summary()
	assert.Equal(t, want.Total, got.Total)
	assert.InDelta(t, want.CompoundedROI, got.CompoundedROI, 1e-12)
	assert.InDelta(t, want.BrierScore, got.BrierScore, 1e-12)
	assert.Equal(t, want.TimeSeries, got.TimeSeries)
	assert.Equal(t, want.EquityCurve, got.EquityCurve)
}

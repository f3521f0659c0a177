package backtest

import (
	"sort"

	"github.com/yourusername/edgecast/internal/models"
)

// Aggregate folds scored predictions into a fresh summary. Every field except
// the compounded return is order independent; compounding runs in ascending date
// order. predictions is not modified.
func Aggregate(predictions []models.ScoredPrediction) models.BacktestSummary {
	summary := models.BacktestSummary{
		TimeSeries:  []models.DateCount{},
		EquityCurve: []models.EquityPoint{},
	}
	total := len(predictions)
	if total == 0 {
		return summary
	}

	correct := 0
	winners := 0
	brier := 0.0
	for i := range predictions {
		p := &predictions[i]
		if p.WasCorrect {
			correct++
		}
		if p.RealizedReturn > 0 {
			winners++
		}
		predicted, _ := PredictedProbability(p.StakeRecommendation)
		brier += CalibrationError(predicted, p.WasCorrect)
	}

	ordered := sortByDate(predictions)
	curve := buildEquityCurve(ordered)

	summary.Total = total
	summary.Accuracy = calculatePercent(correct, total)
	summary.WinRate = calculatePercent(winners, total)
	summary.BrierScore = brier
	summary.AvgBrierScore = brier / float64(total)
	summary.CompoundedROI = curve.FinalMultiplier() - 1
	summary.MaxDrawdown = curve.MaxDrawdown()
	summary.TimeSeries = calculateTimeSeries(ordered)
	summary.EquityCurve = curve
	return summary
}

// sortByDate returns a date-ascending copy; predictions on the same date keep
// their input order.
func sortByDate(predictions []models.ScoredPrediction) []models.ScoredPrediction {
	ordered := make([]models.ScoredPrediction, len(predictions))
	copy(ordered, predictions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})
	return ordered
}

func calculatePercent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(count) / float64(total)
}

// calculateTimeSeries expects date-ordered predictions
func calculateTimeSeries(ordered []models.ScoredPrediction) []models.DateCount {
	series := make([]models.DateCount, 0)
	for i := range ordered {
		date := ordered[i].Date
		if n := len(series); n > 0 && series[n-1].Date == date {
			series[n-1].Count++
			continue
		}
		series = append(series, models.DateCount{Date: date, Count: 1})
	}
	return series
}

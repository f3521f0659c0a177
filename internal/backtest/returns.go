// Package backtest scores resolved predictions and folds them into calibration and
// bankroll statistics.
package backtest

import (
	"math"
	"time"

	"github.com/yourusername/edgecast/internal/models"
	"github.com/yourusername/edgecast/internal/resolution"
	"github.com/yourusername/edgecast/internal/staking"
)

// Return model bounds
const (
	MinEntryPrice = 0.01
	MaxEntryPrice = 0.99
	// ReturnFloor keeps compounding products away from a zeroed bankroll
	ReturnFloor = -0.99
)

// RealizedReturn is the bankroll return of one unleveraged bet bought at
// entryPrice. A winning bet earns stakeFraction*(1-entry)/entry, a losing one
// loses the stake. The result is finite and never below ReturnFloor.
func RealizedReturn(wasCorrect bool, stakeFraction, entryPrice float64) float64 {
	stake := stakeFraction
	if math.IsNaN(stake) || stake < 0 {
		stake = 0
	}
	if stake > 1 {
		stake = 1
	}

	entry := entryPrice
	if math.IsNaN(entry) || entry < MinEntryPrice {
		entry = MinEntryPrice
	}
	if entry > MaxEntryPrice {
		entry = MaxEntryPrice
	}

	var ret float64
	if wasCorrect {
		ret = stake * (1 - entry) / entry
	} else {
		ret = -stake
	}
	return clampReturn(ret)
}

func clampReturn(ret float64) float64 {
	if math.IsNaN(ret) || math.IsInf(ret, 0) {
		return 0
	}
	if ret < ReturnFloor {
		return ReturnFloor
	}
	return ret
}

// PredictedProbability is the probability the model assigned to the outcome
// recorded as its prediction, together with the market price of that outcome.
func PredictedProbability(rec models.StakeRecommendation) (predicted, entry float64) {
	p := staking.Normalize(rec.Outcomes, rec.MarketProbabilityOfOutcomeA, rec.ProbabilityOfOutcomeA, rec.PredictedOutcome)
	return p.PredictedProb, p.MarketSideProb
}

// CalibrationError is the squared error between predicted and the realized
// indicator of the predicted outcome.
func CalibrationError(predicted float64, wasCorrect bool) float64 {
	indicator := 0.0
	if wasCorrect {
		indicator = 1
	}
	diff := predicted - indicator
	return diff * diff
}

// Score attaches correctness, calibration error and realized return to rec.
// It reports false when result is not resolved; unresolved recommendations never
// produce a scored prediction.
func Score(rec models.StakeRecommendation, result resolution.MatchResult, resolvedAt time.Time) (models.ScoredPrediction, bool) {
	if !result.IsResolved() || result.MarketID != rec.MarketID {
		return models.ScoredPrediction{}, false
	}

	predicted, entry := PredictedProbability(rec)
	return models.ScoredPrediction{
		StakeRecommendation: rec,
		WasCorrect:          result.WasCorrect,
		CalibrationError:    CalibrationError(predicted, result.WasCorrect),
		RealizedReturn:      RealizedReturn(result.WasCorrect, rec.StakeFraction, entry),
		ResolvedAt:          resolvedAt.UTC(),
	}, true
}

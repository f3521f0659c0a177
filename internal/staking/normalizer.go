// Package staking converts model probabilities and market prices into bounded
// bankroll stakes.
package staking

import (
	"math"

	"github.com/yourusername/edgecast/internal/models"
	"github.com/yourusername/edgecast/internal/resolution"
)

// Perspective is a market viewed from the side the model predicted
type Perspective struct {
	// Label is the recorded outcome label the perspective belongs to
	Label          string
	PredictedProb  float64
	MarketSideProb float64
	// Fallback is set when the predicted label matched neither outcome and the
	// model's favored side was used instead
	Fallback bool
}

// Edge is the signed difference between model and market for the predicted side
func (p Perspective) Edge() float64 {
	return p.PredictedProb - p.MarketSideProb
}

// IsOutcomeA reports whether the perspective is the first outcome's
func (p Perspective) IsOutcomeA(outcomes models.Outcomes) bool {
	return p.Label == outcomes[0]
}

// Normalize expresses probOfA and priceOfA from predicted's side of the market.
// It never fails: a predicted label that matches neither outcome falls back to
// whichever side the model favors.
func Normalize(outcomes models.Outcomes, priceOfA, probOfA float64, predicted string) Perspective {
	priceOfA = clamp01(priceOfA)
	probOfA = clamp01(probOfA)

	sideA := Perspective{Label: outcomes[0], PredictedProb: probOfA, MarketSideProb: priceOfA}
	sideB := Perspective{Label: outcomes[1], PredictedProb: 1 - probOfA, MarketSideProb: 1 - priceOfA}

	if label := resolution.NormalizeLabel(predicted); label != "" {
		switch label {
		case resolution.NormalizeLabel(outcomes[0]):
			return sideA
		case resolution.NormalizeLabel(outcomes[1]):
			return sideB
		}
	}

	if probOfA >= 1-probOfA {
		sideA.Fallback = true
		return sideA
	}
	sideB.Fallback = true
	return sideB
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

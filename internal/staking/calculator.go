package staking

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/edgecast/internal/metrics"
	"github.com/yourusername/edgecast/internal/models"
)

// Rejection reasons reported when a guardrail zeroes the stake
const (
	RejectLowConfidence  = "low_confidence"
	RejectExtremePrice   = "extreme_price"
	RejectLowEdge        = "low_edge"
	RejectInvalidOdds    = "invalid_odds"
	RejectNegativeKelly  = "negative_kelly"
	RejectBelowPrecision = "below_precision"
	RejectInvalidInput   = "invalid_input"
)

// Calculator sizes bankroll stakes with binary Kelly under guardrails.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	policy Policy
	logger *logrus.Logger
}

// NewCalculator creates a stake calculator for policy
func NewCalculator(policy Policy, logger *logrus.Logger) *Calculator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Calculator{
		policy: policy,
		logger: logger,
	}
}

// Policy returns the guardrails the calculator applies
func (c *Calculator) Policy() Policy {
	return c.policy
}

// ComputeStake returns the fraction of bankroll to stake on the predicted side.
// The result is always in [0, MaxStake]; every invalid input yields 0.
func (c *Calculator) ComputeStake(predictedProb, marketSideProb float64, confidence int) float64 {
	stake, reason := c.evaluate(predictedProb, marketSideProb, confidence)
	metrics.RecordStake(stake, reason)
	return stake
}

func (c *Calculator) evaluate(p, m float64, confidence int) (float64, string) {
	fields := logrus.Fields{
		"predicted_prob":   p,
		"market_side_prob": m,
		"confidence":       confidence,
	}

	if !isProbability(p) || !isProbability(m) {
		c.logger.WithFields(fields).Debug("Probability out of range, no stake recommended")
		return 0, RejectInvalidInput
	}

	if confidence < c.policy.MinConfidence {
		fields["min_confidence"] = c.policy.MinConfidence
		c.logger.WithFields(fields).Debug("Confidence below floor, no stake recommended")
		return 0, RejectLowConfidence
	}

	if m <= c.policy.ExtremeLow || m >= c.policy.ExtremeHigh {
		fields["extreme_low"] = c.policy.ExtremeLow
		fields["extreme_high"] = c.policy.ExtremeHigh
		c.logger.WithFields(fields).Debug("Market price in extreme band, no stake recommended")
		return 0, RejectExtremePrice
	}

	if math.Abs(p-m) < c.policy.MinEdge {
		fields["min_edge"] = c.policy.MinEdge
		c.logger.WithFields(fields).Debug("Edge below noise floor, no stake recommended")
		return 0, RejectLowEdge
	}

	// Kelly Criterion: f = (bp - q) / b
	// where b = decimal odds - 1 = 1/m - 1
	b := 1/m - 1
	if b <= 0 || math.IsInf(b, 0) || math.IsNaN(b) {
		c.logger.WithFields(fields).Debug("Non-positive odds, no stake recommended")
		return 0, RejectInvalidOdds
	}
	kelly := (b*p - (1 - p)) / b
	if math.IsNaN(kelly) || math.IsInf(kelly, 0) {
		c.logger.WithFields(fields).Debug("Non-finite Kelly fraction, no stake recommended")
		return 0, RejectInvalidOdds
	}

	fields["kelly_fraction"] = kelly
	if kelly <= 0 {
		c.logger.WithFields(fields).Debug("Negative Kelly fraction, no stake recommended")
		return 0, RejectNegativeKelly
	}

	stake := math.Min(kelly, 1)
	if c.policy.MaxStake > 0 && stake > c.policy.MaxStake {
		fields["max_stake"] = c.policy.MaxStake
		c.logger.WithFields(fields).Debug("Stake capped at maximum")
		stake = c.policy.MaxStake
	}

	stake = c.round(stake)
	if stake <= 0 {
		c.logger.WithFields(fields).Debug("Stake rounds to zero, no stake recommended")
		return 0, RejectBelowPrecision
	}

	fields["stake"] = stake
	c.logger.WithFields(fields).Debug("Stake calculated")
	return stake, ""
}

func (c *Calculator) round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(c.policy.Precision).Float64()
	return f
}

// Recommend normalizes estimate against quote and sizes the stake for the
// predicted side. An estimate that is not a probability yields a zero stake on
// the first outcome.
func (c *Calculator) Recommend(quote models.MarketQuote, estimate models.ModelEstimate, now time.Time) models.StakeRecommendation {
	rec := models.StakeRecommendation{
		ID:                          uuid.New(),
		Date:                        now.UTC().Format(models.DateLayout),
		MarketID:                    quote.MarketID,
		Outcomes:                    quote.Outcomes,
		PredictedOutcome:            quote.Outcomes[0],
		MarketProbabilityOfOutcomeA: clamp01(quote.PriceOfOutcomeA),
		Confidence:                  clampConfidence(estimate.Confidence),
		CreatedAt:                   now.UTC(),
	}

	if err := estimate.Validate(); err != nil {
		c.logger.WithFields(logrus.Fields{
			"market_id":   quote.MarketID,
			"probability": estimate.ProbabilityOfOutcomeA,
		}).Warn("Unusable model estimate, recording zero stake")
		metrics.RecordStake(0, RejectInvalidInput)
		return rec
	}

	perspective := Normalize(quote.Outcomes, quote.PriceOfOutcomeA, estimate.ProbabilityOfOutcomeA, estimate.PredictedOutcome)
	if perspective.Fallback {
		c.logger.WithFields(logrus.Fields{
			"market_id": quote.MarketID,
			"predicted": estimate.PredictedOutcome,
			"fallback":  perspective.Label,
		}).Warn("Predicted outcome matches neither label, using favored side")
	}

	rec.PredictedOutcome = perspective.Label
	rec.ProbabilityOfOutcomeA = clamp01(estimate.ProbabilityOfOutcomeA)
	rec.StakeFraction = c.ComputeStake(perspective.PredictedProb, perspective.MarketSideProb, estimate.Confidence)
	return rec
}

func isProbability(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func clampConfidence(c int) int {
	if c < 1 {
		return 1
	}
	if c > 10 {
		return 10
	}
	return c
}

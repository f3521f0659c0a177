package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout of recommendation dates
const DateLayout = "2006-01-02"

// StakeRecommendation is produced once per market per evaluation cycle and never
// modified afterwards.
type StakeRecommendation struct {
	ID                          uuid.UUID `db:"id" json:"id"`
	Date                        string    `db:"date" json:"date"`
	MarketID                    string    `db:"market_id" json:"market_id"`
	Outcomes                    Outcomes  `db:"outcomes" json:"outcomes"`
	PredictedOutcome            string    `db:"predicted_outcome" json:"predicted_outcome"`
	ProbabilityOfOutcomeA       float64   `db:"probability_of_outcome_a" json:"probability_of_outcome_a"`
	MarketProbabilityOfOutcomeA float64   `db:"market_probability_of_outcome_a" json:"market_probability_of_outcome_a"`
	Confidence                  int       `db:"confidence" json:"confidence"`
	StakeFraction               float64   `db:"stake_fraction" json:"stake_fraction"`
	CreatedAt                   time.Time `db:"created_at" json:"created_at"`
}

// HasStake reports whether the recommendation risks any bankroll
func (r *StakeRecommendation) HasStake() bool {
	return r.StakeFraction > 0
}

// MatchStatus is the resolution state of a recommendation
type MatchStatus string

const (
	StatusPending MatchStatus = "pending"
	StatusWon     MatchStatus = "won"
	StatusLost    MatchStatus = "lost"
)

// IsResolved reports whether the status is terminal
func (s MatchStatus) IsResolved() bool {
	return s == StatusWon || s == StatusLost
}

// ScoredPrediction is a recommendation that reached resolution
type ScoredPrediction struct {
	StakeRecommendation
	WasCorrect       bool      `db:"was_correct" json:"was_correct"`
	CalibrationError float64   `db:"calibration_error" json:"calibration_error"`
	RealizedReturn   float64   `db:"realized_return" json:"realized_return"`
	ResolvedAt       time.Time `db:"resolved_at" json:"resolved_at"`
}

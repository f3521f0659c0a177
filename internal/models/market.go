package models

import "math"

// Outcomes is the ordered label pair of a binary market. Index 0 is outcomeA and
// every probability in the system is expressed as the probability of outcomeA.
type Outcomes [2]string

// First returns outcomeA
func (o Outcomes) First() string {
	return o[0]
}

// Second returns outcomeB
func (o Outcomes) Second() string {
	return o[1]
}

// MarketQuote is a single market as seen in one refresh cycle
type MarketQuote struct {
	MarketID        string   `json:"market_id" validate:"required"`
	Title           string   `json:"title"`
	Outcomes        Outcomes `json:"outcomes"`
	PriceOfOutcomeA float64  `json:"price_of_outcome_a" validate:"gt=0,lt=1"`
	Volume          float64  `json:"volume" validate:"gte=0"`
}

// Validate reports whether the quote can be evaluated
func (q MarketQuote) Validate() error {
	if q.MarketID == "" {
		return ErrInvalidQuote
	}
	if q.Outcomes[0] == "" || q.Outcomes[1] == "" {
		return ErrInvalidQuote
	}
	if math.IsNaN(q.PriceOfOutcomeA) || q.PriceOfOutcomeA <= 0 || q.PriceOfOutcomeA >= 1 {
		return ErrInvalidQuote
	}
	return nil
}

// ModelEstimate is the inference provider's view of a market
type ModelEstimate struct {
	ProbabilityOfOutcomeA float64 `json:"probability_of_outcome_a" validate:"gte=0,lte=1"`
	PredictedOutcome      string  `json:"predicted_outcome"`
	Confidence            int     `json:"confidence" validate:"gte=1,lte=10"`
}

// Validate rejects estimates that cannot be interpreted as a probability
func (e ModelEstimate) Validate() error {
	p := e.ProbabilityOfOutcomeA
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
		return ErrInvalidEstimate
	}
	return nil
}

// SettlementRecord is the settlement feed's answer for a closed market.
// WinningOutcomeLabel is not guaranteed to match the recorded label byte for byte.
type SettlementRecord struct {
	MarketID            string `json:"market_id"`
	WinningOutcomeLabel string `json:"winning_outcome_label"`
}

package resolution

import (
	"github.com/yourusername/edgecast/internal/models"
)

// MatchResult is the verdict for one prediction against the settlement feed
type MatchResult struct {
	MarketID   string             `json:"market_id"`
	Status     models.MatchStatus `json:"status"`
	WasCorrect bool               `json:"was_correct"`
	Winner     string             `json:"winner,omitempty"`
}

// IsResolved reports whether the match reached a terminal state
func (r MatchResult) IsResolved() bool {
	return r.Status.IsResolved()
}

// Match decides whether prediction was correct given settlement. A nil settlement,
// an empty winning label or a settlement for another market leave the prediction
// pending, as does a prediction with a blank predicted label or outcome.
func Match(prediction models.StakeRecommendation, settlement *models.SettlementRecord) MatchResult {
	result := MatchResult{
		MarketID: prediction.MarketID,
		Status:   models.StatusPending,
	}
	if settlement == nil {
		return result
	}
	if settlement.MarketID != "" && settlement.MarketID != prediction.MarketID {
		return result
	}

	winner := NormalizeLabel(settlement.WinningOutcomeLabel)
	if winner == "" {
		return result
	}
	predicted := NormalizeLabel(prediction.PredictedOutcome)
	first := NormalizeLabel(prediction.Outcomes[0])
	if predicted == "" || first == "" || NormalizeLabel(prediction.Outcomes[1]) == "" {
		return result
	}

	var correct bool
	if predicted == OtherSentinel && first != OtherSentinel {
		// "other" wins whenever the named first option does not.
		correct = winner != first
	} else {
		correct = predicted == winner
	}

	result.Winner = winner
	result.WasCorrect = correct
	if correct {
		result.Status = models.StatusWon
	} else {
		result.Status = models.StatusLost
	}
	return result
}

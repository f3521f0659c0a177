package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/edgecast/internal/models"
)

func recommendation(outcomes models.Outcomes, predicted string) models.StakeRecommendation {
	return models.StakeRecommendation{
		MarketID:         "mkt-1",
		Outcomes:         outcomes,
		PredictedOutcome: predicted,
	}
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "yes", NormalizeLabel("  YES \t"))
	assert.Equal(t, "", NormalizeLabel("   "))
	// decomposed e + combining acute composes to the same label
	assert.Equal(t, NormalizeLabel("Jos\u00e9"), NormalizeLabel("Jose\u0301"))
	assert.True(t, SameLabel("No", " no"))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		outcomes   models.Outcomes
		predicted  string
		winner     string
		wantStatus models.MatchStatus
		wantOK     bool
	}{
		{"exact winner", models.Outcomes{"Yes", "No"}, "Yes", "Yes", models.StatusWon, true},
		{"case and whitespace drift", models.Outcomes{"Yes", "No"}, "Yes", " yes ", models.StatusWon, true},
		{"wrong side", models.Outcomes{"Yes", "No"}, "Yes", "No", models.StatusLost, false},
		{"other beats unnamed option", models.Outcomes{"CandidateX", "Other"}, "Other", "CandidateY", models.StatusWon, true},
		{"other loses to named option", models.Outcomes{"CandidateX", "Other"}, "other", " candidatex", models.StatusLost, false},
		{"named option wins", models.Outcomes{"CandidateX", "Other"}, "CandidateX", "CANDIDATEX", models.StatusWon, true},
		{"other listed first compares strictly", models.Outcomes{"Other", "CandidateX"}, "Other", "other", models.StatusWon, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recommendation(tt.outcomes, tt.predicted)
			result := Match(rec, &models.SettlementRecord{MarketID: "mkt-1", WinningOutcomeLabel: tt.winner})
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantOK, result.WasCorrect)
			assert.True(t, result.IsResolved())
		})
	}
}

func TestMatchUnresolved(t *testing.T) {
	rec := recommendation(models.Outcomes{"Yes", "No"}, "Yes")

	t.Run("no settlement", func(t *testing.T) {
		result := Match(rec, nil)
		assert.Equal(t, models.StatusPending, result.Status)
		assert.False(t, result.IsResolved())
		assert.False(t, result.WasCorrect)
	})

	t.Run("blank winner", func(t *testing.T) {
		result := Match(rec, &models.SettlementRecord{MarketID: "mkt-1", WinningOutcomeLabel: "  "})
		assert.Equal(t, models.StatusPending, result.Status)
	})

	t.Run("settlement for another market", func(t *testing.T) {
		result := Match(rec, &models.SettlementRecord{MarketID: "mkt-2", WinningOutcomeLabel: "Yes"})
		assert.Equal(t, models.StatusPending, result.Status)
	})

	t.Run("blank predicted outcome", func(t *testing.T) {
		blank := recommendation(models.Outcomes{"Yes", "No"}, "   ")
		result := Match(blank, &models.SettlementRecord{MarketID: "mkt-1", WinningOutcomeLabel: "Yes"})
		assert.Equal(t, models.StatusPending, result.Status)
		assert.False(t, result.WasCorrect)
	})

	t.Run("other with blank outcomes", func(t *testing.T) {
		blank := recommendation(models.Outcomes{"", ""}, "Other")
		result := Match(blank, &models.SettlementRecord{MarketID: "mkt-1", WinningOutcomeLabel: "Yes"})
		assert.Equal(t, models.StatusPending, result.Status)
		assert.False(t, result.WasCorrect)
	})

	t.Run("blank second outcome", func(t *testing.T) {
		blank := recommendation(models.Outcomes{"CandidateX", " "}, "Other")
		result := Match(blank, &models.SettlementRecord{MarketID: "mkt-1", WinningOutcomeLabel: "CandidateY"})
		assert.Equal(t, models.StatusPending, result.Status)
	})
}

func TestMatchSymmetricOrdering(t *testing.T) {
	// The same belief recorded with the labels in either order must score alike.
	forward := recommendation(models.Outcomes{"Yes", "No"}, "Yes")
	forward.ProbabilityOfOutcomeA = 0.8
	reversed := recommendation(models.Outcomes{"No", "Yes"}, "Yes")
	reversed.ProbabilityOfOutcomeA = 0.2

	for _, winner := range []string{"Yes", "no", " NO "} {
		settlement := &models.SettlementRecord{MarketID: "mkt-1", WinningOutcomeLabel: winner}
		assert.Equal(t, Match(forward, settlement).WasCorrect, Match(reversed, settlement).WasCorrect, winner)
	}
}

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/edgecast/internal/models"
)

func TestKeyDeterministic(t *testing.T) {
	assert.Equal(t, Key("a", 1, 0.5), Key("a", 1, 0.5))
	assert.NotEqual(t, Key("a", 1, 0.5), Key("a", 1, 0.25))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.Len(t, Key("x"), 64)
}

func TestMarketKey(t *testing.T) {
	outcomes := models.Outcomes{"Yes", "No"}
	base := MarketKey("Will it rain?", outcomes, 0.701, 10250.4)

	tests := []struct {
		name   string
		key    string
		reused bool
	}{
		{name: "identical", key: MarketKey("Will it rain?", outcomes, 0.701, 10250.4), reused: true},
		{name: "probability within rounding", key: MarketKey("Will it rain?", outcomes, 0.704, 10250.4), reused: true},
		{name: "volume within rounding", key: MarketKey("Will it rain?", outcomes, 0.701, 10250.1), reused: true},
		{name: "label casing drift", key: MarketKey(" Will it rain? ", models.Outcomes{"yes", " NO"}, 0.701, 10250.4), reused: true},
		{name: "probability moved", key: MarketKey("Will it rain?", outcomes, 0.72, 10250.4)},
		{name: "volume moved", key: MarketKey("Will it rain?", outcomes, 0.701, 10300)},
		{name: "outcomes swapped", key: MarketKey("Will it rain?", models.Outcomes{"No", "Yes"}, 0.701, 10250.4)},
		{name: "other market", key: MarketKey("Will it snow?", outcomes, 0.701, 10250.4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.reused {
				assert.Equal(t, base, tt.key)
			} else {
				assert.NotEqual(t, base, tt.key)
			}
		})
	}
}

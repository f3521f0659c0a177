// Package cache provides TTL memoization of upstream calls and a sliding window
// request limiter.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yourusername/edgecast/internal/models"
	"github.com/yourusername/edgecast/internal/resolution"
)

const keySeparator = "\x1f"

// Key hashes parts into a deterministic cache key. Floats render in their
// shortest exact form, so callers round before passing them in.
func Key(parts ...any) string {
	rendered := make([]string, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case float64:
			rendered = append(rendered, strconv.FormatFloat(v, 'f', -1, 64))
		case string:
			rendered = append(rendered, v)
		default:
			rendered = append(rendered, fmt.Sprint(v))
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(rendered, keySeparator)))
	return hex.EncodeToString(sum[:])
}

// MarketKey is the key of an analysis of a market snapshot. The probability is
// rounded to two decimals and the volume to a whole unit so that an unchanged
// market reuses its cached analysis.
func MarketKey(title string, outcomes models.Outcomes, probability, volume float64) string {
	return Key(
		strings.TrimSpace(title),
		resolution.NormalizeLabel(outcomes[0]),
		resolution.NormalizeLabel(outcomes[1]),
		roundTo(probability, 2),
		roundTo(volume, 0),
	)
}

func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

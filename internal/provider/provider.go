// Package provider adapts the market snapshot, model inference and settlement
// upstreams to the evaluation core.
package provider

import (
	"context"

	"github.com/yourusername/edgecast/internal/models"
)

// MarketProvider lists the markets open for evaluation
type MarketProvider interface {
	// ActiveMarkets returns the current snapshot. Quotes that fail validation are dropped.
	ActiveMarkets(ctx context.Context) ([]models.MarketQuote, error)
}

// Predictor returns a model estimate for one market
type Predictor interface {
	Predict(ctx context.Context, quote models.MarketQuote) (models.ModelEstimate, error)
}

// SettlementProvider reports how a market settled
type SettlementProvider interface {
	// Settlement returns nil with no error while the market is unresolved
	Settlement(ctx context.Context, marketID string) (*models.SettlementRecord, error)
}

package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/edgecast/internal/cache"
	"github.com/yourusername/edgecast/internal/models"
)

// RateLimitError wraps models.ErrRateLimited with the limiter's retry hint
type RateLimitError struct {
	Identity   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: identity %s, retry after %s", models.ErrRateLimited, e.Identity, e.RetryAfter)
}

// Unwrap allows errors.Is(err, models.ErrRateLimited)
func (e *RateLimitError) Unwrap() error {
	return models.ErrRateLimited
}

// CachedPredictor answers repeated estimates for an unchanged market from the
// cache. Only misses reach the limiter and then the inference upstream.
type CachedPredictor struct {
	next     Predictor
	cache    *cache.AnalysisCache[models.ModelEstimate]
	limiter  cache.Limiter
	identity string
}

// NewCachedPredictor wraps next. limiter may be nil.
func NewCachedPredictor(next Predictor, c *cache.AnalysisCache[models.ModelEstimate], limiter cache.Limiter, identity string) *CachedPredictor {
	return &CachedPredictor{
		next:     next,
		cache:    c,
		limiter:  limiter,
		identity: identity,
	}
}

// Predict implements Predictor
func (p *CachedPredictor) Predict(ctx context.Context, quote models.MarketQuote) (models.ModelEstimate, error) {
	key := cache.MarketKey(quote.Title, quote.Outcomes, quote.PriceOfOutcomeA, quote.Volume)

	return p.cache.GetOrLoad(ctx, key, func(ctx context.Context) (models.ModelEstimate, error) {
		if p.limiter != nil {
			decision, err := p.limiter.CheckLimit(ctx, p.identity)
			if err != nil {
				return models.ModelEstimate{}, err
			}
			if !decision.Allowed {
				return models.ModelEstimate{}, &RateLimitError{Identity: p.identity, RetryAfter: decision.RetryAfter}
			}
		}
		return p.next.Predict(ctx, quote)
	})
}

// CachedMarketProvider reuses the last snapshot for the cache TTL
type CachedMarketProvider struct {
	next  MarketProvider
	cache *cache.AnalysisCache[[]models.MarketQuote]
}

const snapshotKey = "active"

// NewCachedMarketProvider wraps next
func NewCachedMarketProvider(next MarketProvider, c *cache.AnalysisCache[[]models.MarketQuote]) *CachedMarketProvider {
	return &CachedMarketProvider{next: next, cache: c}
}

// ActiveMarkets implements MarketProvider
func (p *CachedMarketProvider) ActiveMarkets(ctx context.Context) ([]models.MarketQuote, error) {
	return p.cache.GetOrLoad(ctx, snapshotKey, p.next.ActiveMarkets)
}

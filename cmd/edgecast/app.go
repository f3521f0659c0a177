package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/edgecast/internal/cache"
	"github.com/yourusername/edgecast/internal/config"
	"github.com/yourusername/edgecast/internal/health"
	"github.com/yourusername/edgecast/internal/logger"
	"github.com/yourusername/edgecast/internal/models"
	"github.com/yourusername/edgecast/internal/provider"
	"github.com/yourusername/edgecast/internal/repository"
	"github.com/yourusername/edgecast/internal/service"
	"github.com/yourusername/edgecast/internal/staking"
	"github.com/yourusername/edgecast/internal/upstream"
)

// app holds the wired pipeline for one process
type app struct {
	repo           repository.RecommendationRepository
	redis          *redis.Client
	clients        []*upstream.Client
	evaluation     *service.EvaluationService
	reconciliation *service.ReconciliationService
	log            *logrus.Logger
}

func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	a := &app{log: log}

	repo, err := repository.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.repo = repo

	if cfg.Cache.Backend == "redis" || cfg.RateLimit.Backend == "redis" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = rdb
	}

	policy, err := staking.FromConfig(&cfg.Staking)
	if err != nil {
		a.Close()
		return nil, err
	}
	calculator := staking.NewCalculator(policy, log)

	marketClient := upstream.NewClient(upstream.FromConfig("market_data", cfg.MarketData), log)
	inferenceClient := upstream.NewClient(upstream.FromConfig("inference", cfg.Inference), log)
	settlementClient := upstream.NewClient(upstream.FromConfig("settlement", cfg.Settlement), log)
	a.clients = []*upstream.Client{marketClient, inferenceClient, settlementClient}

	markets := provider.NewCachedMarketProvider(
		provider.NewHTTPMarketProvider(marketClient, log),
		cache.NewAnalysisCache[[]models.MarketQuote]("markets", a.cacheStore(cfg), cfg.Cache.MarketTTL()),
	)
	predictor := provider.NewCachedPredictor(
		provider.NewHTTPPredictor(inferenceClient),
		cache.NewAnalysisCache[models.ModelEstimate]("inference", a.cacheStore(cfg), cfg.Cache.InferenceTTL()),
		a.limiter(cfg),
		cfg.RateLimit.Identity,
	)

	a.evaluation = service.NewEvaluationService(
		markets,
		predictor,
		calculator,
		repo,
		cfg.Evaluation,
		logger.NewEvaluationLogger(log),
	)
	a.reconciliation = service.NewReconciliationService(
		provider.NewHTTPSettlementProvider(settlementClient),
		repo,
		logger.NewReconciliationLogger(log),
	)
	return a, nil
}

func (a *app) cacheStore(cfg *config.Config) cache.Store {
	if cfg.Cache.Backend == "redis" {
		return cache.NewRedisStore(a.redis, cfg.Redis.KeyPrefix)
	}
	return cache.NewMemoryStore(cfg.Cache.CleanupInterval())
}

func (a *app) limiter(cfg *config.Config) cache.Limiter {
	if cfg.RateLimit.Backend == "redis" {
		return cache.NewRedisLimiter("inference", a.redis, cfg.Redis.KeyPrefix, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
	}
	return cache.NewSlidingWindowLimiter("inference", cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
}

// checks returns the readiness probes for serve
func (a *app) checks() map[string]health.Checker {
	checks := map[string]health.Checker{
		"storage": health.CheckFunc(a.repo.Ping),
	}
	if a.redis != nil {
		checks["redis"] = health.CheckFunc(func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}
	return checks
}

func (a *app) Close() {
	for _, c := range a.clients {
		_ = c.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis client")
		}
	}
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close storage")
		}
	}
}

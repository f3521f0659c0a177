package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/edgecast/internal/cache"
	"github.com/yourusername/edgecast/internal/config"
	"github.com/yourusername/edgecast/internal/logger"
	"github.com/yourusername/edgecast/internal/metrics"
	"github.com/yourusername/edgecast/internal/models"
	"github.com/yourusername/edgecast/internal/provider"
	"github.com/yourusername/edgecast/internal/repository"
	"github.com/yourusername/edgecast/internal/staking"
	"golang.org/x/sync/errgroup"
)

// Evaluation stages reported in ItemFailure
const (
	StagePredict = "predict"
	StageSave    = "save"
)

// ItemFailure is a market dropped from a cycle
type ItemFailure struct {
	MarketID string
	Stage    string
	Err      error
}

// CycleReport describes one evaluation cycle
type CycleReport struct {
	RunID           string
	Markets         int
	Recommendations []models.StakeRecommendation
	Failures        []ItemFailure
	Duration        time.Duration
}

// Staked counts recommendations with a positive stake
func (r *CycleReport) Staked() int {
	n := 0
	for i := range r.Recommendations {
		if r.Recommendations[i].HasStake() {
			n++
		}
	}
	return n
}

// EvaluationService turns the current market snapshot into persisted recommendations
type EvaluationService struct {
	markets    provider.MarketProvider
	predictor  provider.Predictor
	calculator *staking.Calculator
	repo       repository.RecommendationRepository
	cfg        config.EvaluationConfig
	logger     *logger.EvaluationLogger
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(
	markets provider.MarketProvider,
	predictor provider.Predictor,
	calculator *staking.Calculator,
	repo repository.RecommendationRepository,
	cfg config.EvaluationConfig,
	log *logger.EvaluationLogger,
) *EvaluationService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}

	return &EvaluationService{
		markets:    markets,
		predictor:  predictor,
		calculator: calculator,
		repo:       repo,
		cfg:        cfg,
		logger:     log,
		now:        time.Now,
		sleep:      sleepContext,
	}
}

type itemResult struct {
	rec     *models.StakeRecommendation
	failure *ItemFailure
}

// RunCycle evaluates every active market in bounded parallel batches. A failing
// market is reported and skipped; only a lost cache or limiter backend aborts
// the cycle.
func (s *EvaluationService) RunCycle(ctx context.Context) (*CycleReport, error) {
	start := time.Now()
	report := &CycleReport{RunID: uuid.NewString()}
	defer func() {
		report.Duration = time.Since(start)
		metrics.RecordEvaluationCycle(report.Duration.Seconds())
	}()

	quotes, err := s.markets.ActiveMarkets(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to fetch markets: %w", err)
	}
	if s.cfg.MaxMarkets > 0 && len(quotes) > s.cfg.MaxMarkets {
		quotes = quotes[:s.cfg.MaxMarkets]
	}
	report.Markets = len(quotes)
	s.logger.LogCycleStarted(report.RunID, len(quotes), s.cfg.BatchSize)

	batchNum := 0
	for i := 0; i < len(quotes); i += s.cfg.BatchSize {
		end := i + s.cfg.BatchSize
		if end > len(quotes) {
			end = len(quotes)
		}

		if i > 0 && s.cfg.BatchDelay() > 0 {
			if err := s.sleep(ctx, s.cfg.BatchDelay()); err != nil {
				return report, err
			}
		}

		batchNum++
		results, err := s.runBatch(ctx, report.RunID, quotes[i:end])
		if err != nil {
			return report, fmt.Errorf("evaluation cycle aborted: %w", err)
		}

		evaluated, failed := 0, 0
		for _, res := range results {
			if res.failure != nil {
				report.Failures = append(report.Failures, *res.failure)
				failed++
				continue
			}
			report.Recommendations = append(report.Recommendations, *res.rec)
			evaluated++
		}
		s.logger.LogBatchCompleted(report.RunID, batchNum, evaluated, failed)
	}

	s.logger.LogCycleCompleted(report.RunID, len(report.Recommendations), len(report.Failures), report.Staked(), time.Since(start))
	return report, nil
}

// runBatch evaluates quotes concurrently. Results keep the input order.
func (s *EvaluationService) runBatch(ctx context.Context, runID string, quotes []models.MarketQuote) ([]itemResult, error) {
	results := make([]itemResult, len(quotes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchSize)

	for i, quote := range quotes {
		g.Go(func() error {
			rec, stage, err := s.evaluate(gctx, quote)
			if err != nil {
				if errors.Is(err, cache.ErrBackendUnavailable) {
					return err
				}
				s.logger.LogItemFailed(runID, quote.MarketID, stage, err)
				results[i] = itemResult{failure: &ItemFailure{MarketID: quote.MarketID, Stage: stage, Err: err}}
				return nil
			}
			s.logger.LogRecommendation(runID, rec.MarketID, rec.PredictedOutcome, rec.StakeFraction)
			results[i] = itemResult{rec: rec}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *EvaluationService) evaluate(ctx context.Context, quote models.MarketQuote) (*models.StakeRecommendation, string, error) {
	if timeout := s.cfg.ItemTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	estimate, err := s.predictor.Predict(ctx, quote)
	if err != nil {
		return nil, StagePredict, err
	}

	rec := s.calculator.Recommend(quote, estimate, s.now())
	if err := s.repo.Save(ctx, &rec); err != nil {
		return nil, StageSave, err
	}
	metrics.RecordRecommendationSaved()
	return &rec, "", nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

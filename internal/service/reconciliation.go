package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/edgecast/internal/backtest"
	"github.com/yourusername/edgecast/internal/logger"
	"github.com/yourusername/edgecast/internal/metrics"
	"github.com/yourusername/edgecast/internal/models"
	"github.com/yourusername/edgecast/internal/provider"
	"github.com/yourusername/edgecast/internal/repository"
	"github.com/yourusername/edgecast/internal/resolution"
)

// ReconcileReport counts the outcome of one reconciliation pass
type ReconcileReport struct {
	Checked         int
	Resolved        int
	Pending         int
	AlreadyResolved int
	Failed          int
	// Accuracy of the predictions resolved in this pass, in percent
	Accuracy float64
}

// ReconciliationService scores pending recommendations once their markets settle
type ReconciliationService struct {
	settlements provider.SettlementProvider
	repo        repository.RecommendationRepository
	logger      *logger.ReconciliationLogger
	now         func() time.Time
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	settlements provider.SettlementProvider,
	repo repository.RecommendationRepository,
	log *logger.ReconciliationLogger,
) *ReconciliationService {
	return &ReconciliationService{
		settlements: settlements,
		repo:        repo,
		logger:      log,
		now:         time.Now,
	}
}

// Reconcile checks every pending recommendation against the settlement feed.
// A recommendation is scored at most once.
func (s *ReconciliationService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending recommendations: %w", err)
	}

	report := &ReconcileReport{}
	acc := backtest.NewAccumulator()

	for _, rec := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++

		settlement, err := s.settlements.Settlement(ctx, rec.MarketID)
		if err != nil {
			report.Failed++
			s.logger.LogSettlementFailed(rec.MarketID, err)
			continue
		}

		result := resolution.Match(*rec, settlement)
		scored, ok := backtest.Score(*rec, result, s.now())
		if !ok {
			report.Pending++
			continue
		}

		if err := s.repo.SaveScored(ctx, &scored); err != nil {
			if errors.Is(err, models.ErrDuplicateKey) {
				report.AlreadyResolved++
				s.logger.LogAlreadyResolved(rec.ID.String(), rec.MarketID)
				continue
			}
			report.Failed++
			s.logger.LogSettlementFailed(rec.MarketID, err)
			continue
		}

		report.Resolved++
		acc.Add(scored)
		metrics.RecordResolution(string(result.Status))
		s.logger.LogPredictionResolved(rec.ID.String(), rec.MarketID, string(result.Status), scored.RealizedReturn, scored.CalibrationError)
	}

	report.Accuracy = acc.Accuracy()
	s.logger.LogReconcileCompleted(report.Checked, report.Resolved, report.Pending, report.Failed)
	return report, nil
}

// Summary aggregates the scored predictions dated inside window
func (s *ReconciliationService) Summary(ctx context.Context, window backtest.Window) (models.BacktestSummary, error) {
	if err := window.Validate(); err != nil {
		return models.BacktestSummary{}, err
	}

	scored, err := s.repo.ListScored(ctx, window.From, window.To)
	if err != nil {
		return models.BacktestSummary{}, fmt.Errorf("failed to list scored predictions: %w", err)
	}

	summary := backtest.Aggregate(scored)
	metrics.UpdateSummary(summary.AvgBrierScore, summary.CompoundedROI, summary.Accuracy)
	return summary, nil
}

package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EvaluationLogger provides dedicated logging for evaluation cycles.
type EvaluationLogger struct {
	*logrus.Entry
}

// NewEvaluationLogger creates a new evaluation logger.
func NewEvaluationLogger(baseLogger *logrus.Logger) *EvaluationLogger {
	return &EvaluationLogger{
		Entry: baseLogger.WithField("component", "evaluation"),
	}
}

// LogCycleStarted logs the start of an evaluation cycle.
func (el *EvaluationLogger) LogCycleStarted(runID string, markets, batchSize int) {
	el.WithFields(logrus.Fields{
		"run_id":     runID,
		"markets":    markets,
		"batch_size": batchSize,
	}).Info("Evaluation cycle started")
}

// LogBatchCompleted logs one completed batch.
func (el *EvaluationLogger) LogBatchCompleted(runID string, batch, evaluated, failed int) {
	el.WithFields(logrus.Fields{
		"run_id":    runID,
		"batch":     batch,
		"evaluated": evaluated,
		"failed":    failed,
	}).Debug("Evaluation batch completed")
}

// LogItemFailed logs a market that was dropped from the cycle.
func (el *EvaluationLogger) LogItemFailed(runID, marketID, stage string, err error) {
	el.WithFields(logrus.Fields{
		"run_id":    runID,
		"market_id": marketID,
		"stage":     stage,
	}).WithError(err).Warn("Market evaluation failed")
}

// LogRecommendation logs a persisted recommendation.
func (el *EvaluationLogger) LogRecommendation(runID, marketID, predicted string, stake float64) {
	el.WithFields(logrus.Fields{
		"run_id":         runID,
		"market_id":      marketID,
		"predicted":      predicted,
		"stake_fraction": stake,
	}).Debug("Recommendation recorded")
}

// LogCycleCompleted logs the end of an evaluation cycle.
func (el *EvaluationLogger) LogCycleCompleted(runID string, evaluated, failed, staked int, duration time.Duration) {
	el.WithFields(logrus.Fields{
		"run_id":      runID,
		"evaluated":   evaluated,
		"failed":      failed,
		"staked":      staked,
		"duration_ms": duration.Milliseconds(),
	}).Info("Evaluation cycle completed")
}

package logger

import (
	"github.com/sirupsen/logrus"
)

// ReconciliationLogger provides the audit trail of prediction resolution.
type ReconciliationLogger struct {
	*logrus.Entry
}

// NewReconciliationLogger creates a new reconciliation logger.
func NewReconciliationLogger(baseLogger *logrus.Logger) *ReconciliationLogger {
	return &ReconciliationLogger{
		Entry: baseLogger.WithField("component", "reconciliation"),
	}
}

// LogPredictionResolved logs a prediction's terminal state.
func (rl *ReconciliationLogger) LogPredictionResolved(recommendationID, marketID, status string, realizedReturn, calibrationError float64) {
	rl.WithFields(logrus.Fields{
		"recommendation_id": recommendationID,
		"market_id":         marketID,
		"status":            status,
		"realized_return":   realizedReturn,
		"calibration_error": calibrationError,
	}).Info("Prediction resolved")
}

// LogAlreadyResolved logs a prediction skipped because it was scored before.
func (rl *ReconciliationLogger) LogAlreadyResolved(recommendationID, marketID string) {
	rl.WithFields(logrus.Fields{
		"recommendation_id": recommendationID,
		"market_id":         marketID,
	}).Debug("Prediction already resolved, skipping")
}

// LogSettlementFailed logs a settlement lookup that failed.
func (rl *ReconciliationLogger) LogSettlementFailed(marketID string, err error) {
	rl.WithField("market_id", marketID).WithError(err).Warn("Settlement lookup failed")
}

// LogReconcileCompleted logs the counts of one reconciliation pass.
func (rl *ReconciliationLogger) LogReconcileCompleted(checked, resolved, pending, failed int) {
	rl.WithFields(logrus.Fields{
		"checked":  checked,
		"resolved": resolved,
		"pending":  pending,
		"failed":   failed,
	}).Info("Reconciliation completed")
}

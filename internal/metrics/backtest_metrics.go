// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Resolution counter vectors
var (
	PredictionsResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgecast",
		Name:      "predictions_resolved_total",
		Help:      "Total number of predictions reconciled by match status",
	}, []string{"status"})
)

// Backtest summary gauges
var (
	BacktestBrierScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "edgecast",
		Name:      "backtest_avg_brier_score",
		Help:      "Average Brier score of the latest backtest summary",
	})
	BacktestCompoundedROI = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "edgecast",
		Name:      "backtest_compounded_roi",
		Help:      "Compounded bankroll return of the latest backtest summary",
	})
	BacktestAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "edgecast",
		Name:      "backtest_accuracy_percent",
		Help:      "Accuracy in percent of the latest backtest summary",
	})
)

// RecordResolution records a reconciled prediction.
// status should be one of: "won", "lost", "pending"
func RecordResolution(status string) {
	PredictionsResolvedTotal.WithLabelValues(status).Inc()
}

// UpdateSummary updates the summary gauges from the latest backtest fold.
func UpdateSummary(avgBrier, compoundedROI, accuracy float64) {
	BacktestBrierScore.Set(avgBrier)
	BacktestCompoundedROI.Set(compoundedROI)
	BacktestAccuracy.Set(accuracy)
}

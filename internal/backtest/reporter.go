package backtest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/yourusername/edgecast/internal/models"
)

// WriteReport renders the summary metrics and the per-date series as tables
func WriteReport(w io.Writer, summary models.BacktestSummary) error {
	metrics := tablewriter.NewWriter(w)
	metrics.Header("Metric", "Value")
	rows := [][]string{
		{"Predictions", fmt.Sprintf("%d", summary.Total)},
		{"Accuracy", fmt.Sprintf("%.2f%%", summary.Accuracy)},
		{"Brier Score", fmt.Sprintf("%.4f", summary.BrierScore)},
		{"Avg Brier Score", fmt.Sprintf("%.4f", summary.AvgBrierScore)},
		{"Compounded ROI", fmt.Sprintf("%.2f%%", summary.CompoundedROI*100)},
		{"Win Rate", fmt.Sprintf("%.2f%%", summary.WinRate)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", summary.MaxDrawdown*100)},
	}
	for _, row := range rows {
		if err := metrics.Append(row); err != nil {
			return err
		}
	}
	if err := metrics.Render(); err != nil {
		return err
	}

	if len(summary.TimeSeries) == 0 {
		return nil
	}

	series := tablewriter.NewWriter(w)
	series.Header("Date", "Predictions")
	for _, point := range summary.TimeSeries {
		if err := series.Append([]string{point.Date, fmt.Sprintf("%d", point.Count)}); err != nil {
			return err
		}
	}
	return series.Render()
}

// GenerateCSVExport writes summary metrics and the equity curve under dir
func GenerateCSVExport(summary models.BacktestSummary, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("total,%d\n", summary.Total) +
		fmt.Sprintf("accuracy,%.4f\n", summary.Accuracy) +
		fmt.Sprintf("brier_score,%.4f\n", summary.BrierScore) +
		fmt.Sprintf("avg_brier_score,%.4f\n", summary.AvgBrierScore) +
		fmt.Sprintf("compounded_roi,%.4f\n", summary.CompoundedROI) +
		fmt.Sprintf("win_rate,%.4f\n", summary.WinRate) +
		fmt.Sprintf("max_drawdown,%.4f\n", summary.MaxDrawdown)
	if err := os.WriteFile(filepath.Join(dir, "summary.csv"), []byte(csv), 0o644); err != nil {
		return err
	}
	curve := EquityCurve(summary.EquityCurve)
	return os.WriteFile(filepath.Join(dir, "equity_curve.csv"), []byte(curve.ToCSV()), 0o644)
}

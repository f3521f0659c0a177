package backtest

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/yourusername/edgecast/internal/models"
)

// EquityCurve is the bankroll multiplier after each prediction in date order
type EquityCurve []models.EquityPoint

func buildEquityCurve(ordered []models.ScoredPrediction) EquityCurve {
	curve := make(EquityCurve, 0, len(ordered))
	multiplier := 1.0
	peak := 1.0
	for i := range ordered {
		ret := clampReturn(ordered[i].RealizedReturn)
		multiplier *= 1 + ret
		if multiplier > peak {
			peak = multiplier
		}
		drawdown := 0.0
		if peak > 0 {
			drawdown = (peak - multiplier) / peak
		}
		curve = append(curve, models.EquityPoint{
			Date:       ordered[i].Date,
			MarketID:   ordered[i].MarketID,
			Return:     ret,
			Multiplier: multiplier,
			Drawdown:   drawdown,
		})
	}
	return curve
}

// FinalMultiplier returns the last bankroll multiplier, 1 for an empty curve
func (e EquityCurve) FinalMultiplier() float64 {
	if len(e) == 0 {
		return 1
	}
	return e[len(e)-1].Multiplier
}

// MaxDrawdown returns the deepest peak-to-trough fall as a fraction of the peak
func (e EquityCurve) MaxDrawdown() float64 {
	maxDrawdown := 0.0
	for _, point := range e {
		if point.Drawdown > maxDrawdown {
			maxDrawdown = point.Drawdown
		}
	}
	return maxDrawdown
}

// GetReturns returns the per-step returns applied to the bankroll
func (e EquityCurve) GetReturns() []float64 {
	returns := make([]float64, 0, len(e))
	for _, point := range e {
		returns = append(returns, point.Return)
	}
	return returns
}

// ToCSV exports equity curve to CSV string
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("date,market_id,return,multiplier,drawdown\n")
	for _, point := range e {
		buf.WriteString(point.Date)
		buf.WriteString(",")
		buf.WriteString(point.MarketID)
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Return))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Multiplier))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Drawdown))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports equity curve to JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

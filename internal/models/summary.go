package models

// DateCount is one point of the per-date prediction count series
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// EquityPoint is the bankroll multiplier after applying one prediction
type EquityPoint struct {
	Date       string  `json:"date"`
	MarketID   string  `json:"market_id"`
	Return     float64 `json:"return"`
	Multiplier float64 `json:"multiplier"`
	Drawdown   float64 `json:"drawdown"`
}

// BacktestSummary is a fresh fold over a set of scored predictions
type BacktestSummary struct {
	Total         int           `json:"total"`
	Accuracy      float64       `json:"accuracy"`
	BrierScore    float64       `json:"brier_score"`
	AvgBrierScore float64       `json:"avg_brier_score"`
	CompoundedROI float64       `json:"compounded_roi"`
	WinRate       float64       `json:"win_rate"`
	MaxDrawdown   float64       `json:"max_drawdown"`
	TimeSeries    []DateCount   `json:"time_series"`
	EquityCurve   []EquityPoint `json:"equity_curve"`
}

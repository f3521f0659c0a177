package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/edgecast/internal/config"
	"github.com/yourusername/edgecast/internal/models"
)

// Window is an inclusive range of recommendation dates
type Window struct {
	From string
	To   string
}

// ParseWindow validates from and to as recommendation dates
func ParseWindow(from, to string) (Window, error) {
	start, err := time.Parse(models.DateLayout, from)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(models.DateLayout, to)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date: %w", err)
	}
	w := Window{From: start.Format(models.DateLayout), To: end.Format(models.DateLayout)}
	return w, w.Validate()
}

// WindowFromConfig returns the lookback window ending on now's date
func WindowFromConfig(cfg *config.BacktestConfig, now time.Time) (Window, error) {
	if cfg == nil {
		return Window{}, fmt.Errorf("backtest config is required")
	}
	if cfg.LookbackDays <= 0 {
		return Window{}, fmt.Errorf("lookback days must be positive")
	}
	end := now.UTC()
	start := end.AddDate(0, 0, -(cfg.LookbackDays - 1))
	return Window{From: start.Format(models.DateLayout), To: end.Format(models.DateLayout)}, nil
}

// Validate validates window bounds
func (w Window) Validate() error {
	if w.From > w.To {
		return fmt.Errorf("start date must not be after end date")
	}
	return nil
}

// Contains reports whether date falls inside the window
func (w Window) Contains(date string) bool {
	return date >= w.From && date <= w.To
}

package backtest

import (
	"sync"

	"github.com/yourusername/edgecast/internal/models"
)

// Accumulator collects scored predictions one at a time and produces the same
// summary Aggregate would for the collected set. It is safe for concurrent use.
type Accumulator struct {
	mu          sync.Mutex
	predictions []models.ScoredPrediction
	correct     int
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add records one scored prediction
func (a *Accumulator) Add(p models.ScoredPrediction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.predictions = append(a.predictions, p)
	if p.WasCorrect {
		a.correct++
	}
}

// Len returns the number of predictions collected
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.predictions)
}

// Accuracy returns the running accuracy in percent
func (a *Accumulator) Accuracy() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return calculatePercent(a.correct, len(a.predictions))
}

// Summary folds everything collected so far
func (a *Accumulator) Summary() models.BacktestSummary {
	a.mu.Lock()
	snapshot := make([]models.ScoredPrediction, len(a.predictions))
	copy(snapshot, a.predictions)
	a.mu.Unlock()
	return Aggregate(snapshot)
}

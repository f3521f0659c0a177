package staking

import (
	"fmt"

	"github.com/yourusername/edgecast/internal/config"
)

// Policy holds the stake sizing guardrails
type Policy struct {
	MinConfidence int
	ExtremeLow    float64
	ExtremeHigh   float64
	MinEdge       float64
	// MaxStake is an optional product-level cap applied after the [0,1] clamp
	MaxStake  float64
	Precision int32
}

// DefaultPolicy returns the empirically chosen thresholds
func DefaultPolicy() Policy {
	return Policy{
		MinConfidence: 4,
		ExtremeLow:    0.05,
		ExtremeHigh:   0.95,
		MinEdge:       0.02,
		MaxStake:      1.0,
		Precision:     2,
	}
}

// FromConfig converts app config to a staking policy
func FromConfig(cfg *config.StakingConfig) (Policy, error) {
	if cfg == nil {
		return Policy{}, fmt.Errorf("staking config is required")
	}
	p := Policy{
		MinConfidence: cfg.MinConfidence,
		ExtremeLow:    cfg.ExtremeLow,
		ExtremeHigh:   cfg.ExtremeHigh,
		MinEdge:       cfg.MinEdge,
		MaxStake:      cfg.MaxStake,
		Precision:     int32(cfg.Precision),
	}
	return p, p.Validate()
}

// Validate validates policy parameters
func (p Policy) Validate() error {
	if p.MinConfidence < 1 || p.MinConfidence > 10 {
		return fmt.Errorf("min confidence must be between 1 and 10")
	}
	if p.ExtremeLow < 0 || p.ExtremeHigh > 1 || p.ExtremeLow >= p.ExtremeHigh {
		return fmt.Errorf("extreme band must satisfy 0 <= low < high <= 1")
	}
	if p.MinEdge < 0 {
		return fmt.Errorf("min edge cannot be negative")
	}
	if p.MaxStake <= 0 || p.MaxStake > 1 {
		return fmt.Errorf("max stake must be in (0, 1]")
	}
	if p.Precision < 0 || p.Precision > 8 {
		return fmt.Errorf("precision must be between 0 and 8")
	}
	return nil
}

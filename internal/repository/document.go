package repository

import (
	"encoding/json"
	"fmt"

	"github.com/yourusername/edgecast/internal/models"
)

func encodeRecommendation(rec *models.StakeRecommendation) ([]byte, error) {
	if rec == nil || rec.MarketID == "" || rec.Date == "" {
		return nil, fmt.Errorf("recommendation requires date and market id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendation: %w", err)
	}
	return data, nil
}

func decodeRecommendation(data []byte) (*models.StakeRecommendation, error) {
	rec := &models.StakeRecommendation{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation: %w", err)
	}
	return rec, nil
}

func encodeScored(scored *models.ScoredPrediction) ([]byte, error) {
	if scored == nil || scored.MarketID == "" || scored.Date == "" {
		return nil, fmt.Errorf("scored prediction requires date and market id")
	}
	data, err := json.Marshal(scored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scored prediction: %w", err)
	}
	return data, nil
}

func decodeScored(data []byte) (models.ScoredPrediction, error) {
	var scored models.ScoredPrediction
	if err := json.Unmarshal(data, &scored); err != nil {
		return scored, fmt.Errorf("failed to decode scored prediction: %w", err)
	}
	return scored, nil
}

package repository

import (
	"context"

	"github.com/yourusername/edgecast/internal/models"
)

// RecommendationRepository stores recommendations and their scored outcomes as
// documents keyed by date and market id
type RecommendationRepository interface {
	// Save stores rec, replacing an earlier recommendation for the same date and market
	Save(ctx context.Context, rec *models.StakeRecommendation) error
	ListByDate(ctx context.Context, date string) ([]*models.StakeRecommendation, error)
	// ListPending returns recommendations that have no scored prediction yet
	ListPending(ctx context.Context) ([]*models.StakeRecommendation, error)
	// SaveScored is insert-only and returns models.ErrDuplicateKey for a resolved key
	SaveScored(ctx context.Context, scored *models.ScoredPrediction) error
	// ListScored returns scored predictions dated within [from, to]
	ListScored(ctx context.Context, from, to string) ([]models.ScoredPrediction, error)
	// IsScored reports whether the (date, market) key already has a scored prediction
	IsScored(ctx context.Context, date, marketID string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

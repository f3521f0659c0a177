package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/edgecast/internal/config"
	"github.com/yourusername/edgecast/internal/database"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	_ RecommendationRepository = (*PostgresRecommendationRepository)(nil)
	_ RecommendationRepository = (*SQLiteRecommendationRepository)(nil)
)

// New opens the recommendation store selected by storage.driver
func New(ctx context.Context, cfg *config.Config) (RecommendationRepository, error) {
	switch cfg.Storage.Driver {
	case DriverPostgres:
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresRecommendationRepository(db), nil
	case DriverSQLite:
		return NewSQLiteRecommendationRepository(cfg.Storage.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

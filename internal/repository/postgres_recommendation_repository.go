package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/edgecast/internal/database"
	"github.com/yourusername/edgecast/internal/models"
)

// PostgresRecommendationRepository implements RecommendationRepository for PostgreSQL
type PostgresRecommendationRepository struct {
	db *database.DB
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(db *database.DB) *PostgresRecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

// Save upserts a recommendation
func (r *PostgresRecommendationRepository) Save(ctx context.Context, rec *models.StakeRecommendation) error {
	doc, err := encodeRecommendation(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO recommendations (date, market_id, id, document, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date, market_id) DO UPDATE SET
			id = EXCLUDED.id,
			document = EXCLUDED.document,
			created_at = EXCLUDED.created_at
	`
	if _, err := r.db.GetPool().Exec(ctx, query, rec.Date, rec.MarketID, rec.ID, doc, rec.CreatedAt); err != nil {
		return fmt.Errorf("failed to save recommendation: %w", err)
	}
	return nil
}

// ListByDate retrieves the recommendations made on date
func (r *PostgresRecommendationRepository) ListByDate(ctx context.Context, date string) ([]*models.StakeRecommendation, error) {
	query := `SELECT document FROM recommendations WHERE date = $1 ORDER BY market_id`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations by date: %w", err)
	}
	return scanRecommendations(rows)
}

// ListPending retrieves recommendations without a scored prediction
func (r *PostgresRecommendationRepository) ListPending(ctx context.Context) ([]*models.StakeRecommendation, error) {
	query := `
		SELECT r.document
		FROM recommendations r
		LEFT JOIN scored_predictions s ON s.date = r.date AND s.market_id = r.market_id
		WHERE s.market_id IS NULL
		ORDER BY r.date, r.market_id
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending recommendations: %w", err)
	}
	return scanRecommendations(rows)
}

// SaveScored inserts a scored prediction once
func (r *PostgresRecommendationRepository) SaveScored(ctx context.Context, scored *models.ScoredPrediction) error {
	doc, err := encodeScored(scored)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO scored_predictions (date, market_id, id, document, resolved_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`
	tag, err := r.db.GetPool().Exec(ctx, query, scored.Date, scored.MarketID, scored.ID, doc, scored.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to save scored prediction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scored prediction %s/%s: %w", scored.Date, scored.MarketID, models.ErrDuplicateKey)
	}
	return nil
}

// ListScored retrieves scored predictions dated within [from, to]
func (r *PostgresRecommendationRepository) ListScored(ctx context.Context, from, to string) ([]models.ScoredPrediction, error) {
	query := `
		SELECT document FROM scored_predictions
		WHERE date >= $1 AND date <= $2
		ORDER BY date, market_id
	`

	rows, err := r.db.GetPool().Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query scored predictions: %w", err)
	}
	defer rows.Close()

	var scored []models.ScoredPrediction
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan scored prediction: %w", err)
		}
		s, err := decodeScored(doc)
		if err != nil {
			return nil, err
		}
		scored = append(scored, s)
	}
	return scored, rows.Err()
}

// IsScored reports whether the market has been resolved for date
func (r *PostgresRecommendationRepository) IsScored(ctx context.Context, date, marketID string) (bool, error) {
	var exists bool
	err := r.db.GetPool().QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM scored_predictions WHERE date = $1 AND market_id = $2)`,
		date, marketID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check scored prediction: %w", err)
	}
	return exists, nil
}

// Ping verifies database connectivity
func (r *PostgresRecommendationRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close closes the underlying pool
func (r *PostgresRecommendationRepository) Close() error {
	return r.db.Close()
}

func scanRecommendations(rows pgx.Rows) ([]*models.StakeRecommendation, error) {
	defer rows.Close()

	var recs []*models.StakeRecommendation
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec, err := decodeRecommendation(doc)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

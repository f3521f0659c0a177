package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yourusername/edgecast/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS recommendations (
    date       TEXT     NOT NULL,
    market_id  TEXT     NOT NULL,
    id         TEXT     NOT NULL UNIQUE,
    document   TEXT     NOT NULL,
    created_at DATETIME NOT NULL,
    PRIMARY KEY (date, market_id)
);

CREATE TABLE IF NOT EXISTS scored_predictions (
    date        TEXT     NOT NULL,
    market_id   TEXT     NOT NULL,
    id          TEXT     NOT NULL UNIQUE,
    document    TEXT     NOT NULL,
    resolved_at DATETIME NOT NULL,
    PRIMARY KEY (date, market_id)
);

CREATE INDEX IF NOT EXISTS idx_scored_date ON scored_predictions(date);
`

// SQLiteRecommendationRepository implements RecommendationRepository on a local
// SQLite file (pure Go, no CGo)
type SQLiteRecommendationRepository struct {
	db *sql.DB
}

// NewSQLiteRecommendationRepository opens or creates the database at path.
// ":memory:" gives a private in-memory store.
func NewSQLiteRecommendationRepository(path string) (*SQLiteRecommendationRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	// SQLite is single-writer; one connection also keeps ":memory:" shared
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return &SQLiteRecommendationRepository{db: db}, nil
}

// Save upserts a recommendation
func (r *SQLiteRecommendationRepository) Save(ctx context.Context, rec *models.StakeRecommendation) error {
	doc, err := encodeRecommendation(rec)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO recommendations (date, market_id, id, document, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, market_id) DO UPDATE SET
			id = excluded.id,
			document = excluded.document,
			created_at = excluded.created_at`,
		rec.Date, rec.MarketID, rec.ID.String(), string(doc), rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save recommendation: %w", err)
	}
	return nil
}

// ListByDate retrieves the recommendations made on date
func (r *SQLiteRecommendationRepository) ListByDate(ctx context.Context, date string) ([]*models.StakeRecommendation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT document FROM recommendations WHERE date = ? ORDER BY market_id`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations by date: %w", err)
	}
	return scanSQLiteRecommendations(rows)
}

// ListPending retrieves recommendations without a scored prediction
func (r *SQLiteRecommendationRepository) ListPending(ctx context.Context) ([]*models.StakeRecommendation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.document
		FROM recommendations r
		LEFT JOIN scored_predictions s ON s.date = r.date AND s.market_id = r.market_id
		WHERE s.market_id IS NULL
		ORDER BY r.date, r.market_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending recommendations: %w", err)
	}
	return scanSQLiteRecommendations(rows)
}

// SaveScored inserts a scored prediction once
func (r *SQLiteRecommendationRepository) SaveScored(ctx context.Context, scored *models.ScoredPrediction) error {
	doc, err := encodeScored(scored)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO scored_predictions (date, market_id, id, document, resolved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		scored.Date, scored.MarketID, scored.ID.String(), string(doc), scored.ResolvedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save scored prediction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save scored prediction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("scored prediction %s/%s: %w", scored.Date, scored.MarketID, models.ErrDuplicateKey)
	}
	return nil
}

// ListScored retrieves scored predictions dated within [from, to]
func (r *SQLiteRecommendationRepository) ListScored(ctx context.Context, from, to string) ([]models.ScoredPrediction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT document FROM scored_predictions
		WHERE date >= ? AND date <= ?
		ORDER BY date, market_id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query scored predictions: %w", err)
	}
	defer rows.Close()

	var scored []models.ScoredPrediction
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan scored prediction: %w", err)
		}
		s, err := decodeScored([]byte(doc))
		if err != nil {
			return nil, err
		}
		scored = append(scored, s)
	}
	return scored, rows.Err()
}

// IsScored reports whether the market has been resolved for date
func (r *SQLiteRecommendationRepository) IsScored(ctx context.Context, date, marketID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scored_predictions WHERE date = ? AND market_id = ?`, date, marketID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check scored prediction: %w", err)
	}
	return count > 0, nil
}

// Ping verifies the database is open
func (r *SQLiteRecommendationRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database
func (r *SQLiteRecommendationRepository) Close() error {
	return r.db.Close()
}

func scanSQLiteRecommendations(rows *sql.Rows) ([]*models.StakeRecommendation, error) {
	defer rows.Close()

	var recs []*models.StakeRecommendation
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec, err := decodeRecommendation([]byte(doc))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

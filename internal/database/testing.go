package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDatabaseURLEnv names the variable holding an integration test database URL
const TestDatabaseURLEnv = "EDGECAST_TEST_DATABASE_URL"

// SetupTestDB connects to the integration database, skipping the test when none is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv(TestDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set", TestDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDBFromURL(ctx, url)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	if _, err := db.pool.Exec(ctx, "TRUNCATE recommendations, scored_predictions"); err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}
	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	if err := db.Close(); err != nil {
		t.Logf("warning: failed to close test database: %v", err)
	}
}

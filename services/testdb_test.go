package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ecoHabitsAPI/internal/challenge"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL and makes
// sure the schema exists. Tests that need a database are skipped when the
// variable is not set.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	schema, err := os.ReadFile("../scripts/schema.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// truncateAll wipes the tables the participation and aggregation tests
// assert whole-table counts against.
func truncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE progress_logs, user_challenges, challenges, tips, events, users,
			notifications, device_tokens
	`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

func testChallengeRequest(title string) *challenge.CreateChallengeRequest {
	now := time.Now()
	return &challenge.CreateChallengeRequest{
		Title:        title,
		Category:     "waste",
		Description:  "Skip single-use plastic for a month",
		DurationDays: 30,
		Target:       30,
		TargetUnit:   "days",
		StartDate:    now,
		EndDate:      now.AddDate(0, 1, 0),
	}
}

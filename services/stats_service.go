package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"ecoHabitsAPI/internal/enrollment"
	"ecoHabitsAPI/internal/stats"
)

type StatsService struct {
	db *pgxpool.Pool
}

func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// ComputeStats derives the platform-wide numbers in one pass. Everything is
// a point-in-time read; an empty database yields all zeros.
func (s *StatsService) ComputeStats(ctx context.Context) (*stats.PlatformStats, error) {
	result := &stats.PlatformStats{}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM challenges`, &result.TotalChallenges},
		{`SELECT COUNT(*) FROM tips`, &result.TotalTips},
		{`SELECT COUNT(*) FROM events`, &result.TotalEvents},
		{`SELECT COUNT(*) FROM users`, &result.TotalUsers},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count entities: %w", err)
		}
	}

	// A user enrolled in several ongoing challenges counts once.
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM user_challenges WHERE status = $1`,
		enrollment.StatusOngoing,
	).Scan(&result.ActiveParticipants)
	if err != nil {
		return nil, fmt.Errorf("failed to count active participants: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(value), 0) FROM progress_logs`,
	).Scan(&result.TotalLoggedQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to sum logged quantity: %w", err)
	}

	return result, nil
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoHabitsAPI/internal/enrollment"
	"ecoHabitsAPI/internal/event"
	"ecoHabitsAPI/internal/tip"
	"ecoHabitsAPI/internal/user"
)

func TestComputeStatsEmptyCorpus(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)

	statsService := NewStatsService(pool)

	result, err := statsService.ComputeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalChallenges)
	assert.Equal(t, 0, result.TotalTips)
	assert.Equal(t, 0, result.TotalEvents)
	assert.Equal(t, 0, result.TotalUsers)
	assert.Equal(t, 0, result.ActiveParticipants)
	assert.Equal(t, float64(0), result.TotalLoggedQuantity)
}

func TestComputeStatsAggregation(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)
	ctx := context.Background()

	challengeService := NewChallengeService(pool)
	participationService := NewParticipationService(pool, nil)
	statsService := NewStatsService(pool)

	c1, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("Challenge one"))
	require.NoError(t, err)
	c2, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("Challenge two"))
	require.NoError(t, err)

	// u1 ongoing in c1 with logs [5,3], u1 ongoing in c2 with no logs,
	// u2 finished in c1 with log [10].
	e1, _, err := participationService.Join(ctx, c1.ID, "u1")
	require.NoError(t, err)
	_, _, err = participationService.Join(ctx, c2.ID, "u1")
	require.NoError(t, err)
	e3, _, err := participationService.Join(ctx, c1.ID, "u2")
	require.NoError(t, err)

	for _, v := range []float64{5, 3} {
		_, err = participationService.UpdateProgress(ctx, e1.ID, "u1", &enrollment.UpdateProgressRequest{
			AddLogValue: floatPtr(v),
		})
		require.NoError(t, err)
	}

	_, err = participationService.UpdateProgress(ctx, e3.ID, "u2", &enrollment.UpdateProgressRequest{
		Progress:    intPtr(100),
		AddLogValue: floatPtr(10),
	})
	require.NoError(t, err)

	result, err := statsService.ComputeStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalChallenges)
	assert.Equal(t, 1, result.ActiveParticipants, "u1 counts once despite two ongoing enrollments; u2 is finished")
	assert.Equal(t, float64(18), result.TotalLoggedQuantity)
}

func TestComputeStatsPassThroughCounts(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)
	ctx := context.Background()

	tipService := NewTipService(pool)
	eventService := NewEventService(pool)
	userService := NewUserService(pool)
	statsService := NewStatsService(pool)

	_, err := tipService.Create(ctx, &tip.CreateTipRequest{Title: "Bring a bag", Content: "Reusable beats disposable"})
	require.NoError(t, err)

	req := testChallengeRequest("ignored")
	_, err = eventService.Create(ctx, "user_creator", &event.CreateEventRequest{
		Title:     "Beach cleanup",
		Location:  "Varna",
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	require.NoError(t, err)

	_, err = userService.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID:  "user_stats",
		Email:    "stats@example.com",
		Username: "statsuser",
	})
	require.NoError(t, err)

	result, err := statsService.ComputeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalTips)
	assert.Equal(t, 1, result.TotalEvents)
	assert.Equal(t, 1, result.TotalUsers)
}

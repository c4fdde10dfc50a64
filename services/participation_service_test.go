package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoHabitsAPI/internal/enrollment"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestJoinIsIdempotent(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)
	ctx := context.Background()

	challengeService := NewChallengeService(pool)
	participationService := NewParticipationService(pool, nil)

	c, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("No plastic month"))
	require.NoError(t, err)

	enr1, created, err := participationService.Join(ctx, c.ID, "user_a")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, enrollment.StatusOngoing, enr1.Status)
	assert.Equal(t, 0, enr1.Progress)

	enr2, created, err := participationService.Join(ctx, c.ID, "user_a")
	require.NoError(t, err)
	assert.False(t, created, "second join must report already joined")
	assert.Equal(t, enr1.ID, enr2.ID, "second join must return the same enrollment")

	reloaded, err := challengeService.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Participants, "counter must be bumped exactly once")
}

func TestJoinUnknownChallenge(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)

	participationService := NewParticipationService(pool, nil)

	_, _, err := participationService.Join(context.Background(), uuid.New(), "user_a")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestLeaveCounterNeverNegative(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)
	ctx := context.Background()

	challengeService := NewChallengeService(pool)
	participationService := NewParticipationService(pool, nil)

	c, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("Bike to work"))
	require.NoError(t, err)

	enr, _, err := participationService.Join(ctx, c.ID, "user_a")
	require.NoError(t, err)

	require.NoError(t, participationService.Leave(ctx, enr.ID, "user_a"))

	reloaded, err := challengeService.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Participants)

	// Leaving again hits a missing enrollment, not a negative counter.
	err = participationService.Leave(ctx, enr.ID, "user_a")
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)

	reloaded, err = challengeService.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Participants)
}

func TestUpdateProgressOwnership(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)
	ctx := context.Background()

	challengeService := NewChallengeService(pool)
	participationService := NewParticipationService(pool, nil)

	c, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("Meatless week"))
	require.NoError(t, err)

	enr, _, err := participationService.Join(ctx, c.ID, "user_a")
	require.NoError(t, err)

	_, err = participationService.UpdateProgress(ctx, enr.ID, "user_b", &enrollment.UpdateProgressRequest{
		Progress: intPtr(50),
	})
	assert.ErrorIs(t, err, ErrNotOwner)

	err = participationService.Leave(ctx, enr.ID, "user_b")
	assert.ErrorIs(t, err, ErrNotOwner)

	// Nothing changed for the owner.
	current, err := participationService.Get(ctx, enr.ID, "user_a")
	require.NoError(t, err)
	assert.Equal(t, 0, current.Progress)
	assert.Equal(t, enrollment.StatusOngoing, current.Status)
}

func TestUpdateProgressClampAndStatus(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)
	ctx := context.Background()

	challengeService := NewChallengeService(pool)
	participationService := NewParticipationService(pool, nil)

	c, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("Zero waste"))
	require.NoError(t, err)

	enr, _, err := participationService.Join(ctx, c.ID, "user_a")
	require.NoError(t, err)

	updated, err := participationService.UpdateProgress(ctx, enr.ID, "user_a", &enrollment.UpdateProgressRequest{
		Progress: intPtr(150),
	})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, enrollment.StatusFinished, updated.Status)

	updated, err = participationService.UpdateProgress(ctx, enr.ID, "user_a", &enrollment.UpdateProgressRequest{
		Progress: intPtr(-5),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Progress)
	assert.Equal(t, enrollment.StatusOngoing, updated.Status)
}

func TestUpdateProgressRequiresInput(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)

	participationService := NewParticipationService(pool, nil)

	_, err := participationService.UpdateProgress(context.Background(), uuid.New(), "user_a", &enrollment.UpdateProgressRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProgressLogsAppendOnly(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)
	ctx := context.Background()

	challengeService := NewChallengeService(pool)
	participationService := NewParticipationService(pool, nil)

	c, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("Plastic diary"))
	require.NoError(t, err)

	enr, _, err := participationService.Join(ctx, c.ID, "user_a")
	require.NoError(t, err)

	values := []float64{2.5, 1, 4}
	var last *enrollment.Enrollment
	for _, v := range values {
		last, err = participationService.UpdateProgress(ctx, enr.ID, "user_a", &enrollment.UpdateProgressRequest{
			AddLogValue: floatPtr(v),
		})
		require.NoError(t, err)
	}

	require.Len(t, last.ProgressLogs, len(values))
	for i, v := range values {
		assert.Equal(t, v, last.ProgressLogs[i].Value, "log values must keep call order")
	}
	assert.Equal(t, 0, last.Progress, "logging values must not move the percentage")
	assert.Equal(t, enrollment.StatusOngoing, last.Status)
}

func TestListMineToleratesMissingChallenge(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)
	ctx := context.Background()

	challengeService := NewChallengeService(pool)
	participationService := NewParticipationService(pool, nil)

	kept, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("Keep me"))
	require.NoError(t, err)
	doomed, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("Delete me"))
	require.NoError(t, err)

	_, _, err = participationService.Join(ctx, kept.ID, "user_a")
	require.NoError(t, err)
	_, _, err = participationService.Join(ctx, doomed.ID, "user_a")
	require.NoError(t, err)

	require.NoError(t, challengeService.Delete(ctx, doomed.ID, "user_creator"))

	mine, err := participationService.ListMine(ctx, "user_a")
	require.NoError(t, err)
	require.Len(t, mine, 2)

	var withChallenge, orphaned int
	for _, item := range mine {
		if item.Challenge != nil {
			withChallenge++
			assert.Equal(t, kept.ID, item.Challenge.ID)
		} else {
			orphaned++
		}
	}
	assert.Equal(t, 1, withChallenge)
	assert.Equal(t, 1, orphaned, "missing challenge must surface as nil, not an error")
}

// The scenario from the product side: join, rejoin, leave, leave again.
func TestJoinLeaveScenario(t *testing.T) {
	pool := setupTestDB(t)
	truncateAll(t, pool)
	ctx := context.Background()

	challengeService := NewChallengeService(pool)
	participationService := NewParticipationService(pool, nil)

	c, err := challengeService.Create(ctx, "user_creator", testChallengeRequest("Scenario"))
	require.NoError(t, err)

	enr, created, err := participationService.Join(ctx, c.ID, "user_a")
	require.NoError(t, err)
	assert.True(t, created)
	reloaded, _ := challengeService.Get(ctx, c.ID)
	assert.Equal(t, 1, reloaded.Participants)

	_, created, err = participationService.Join(ctx, c.ID, "user_a")
	require.NoError(t, err)
	assert.False(t, created)
	reloaded, _ = challengeService.Get(ctx, c.ID)
	assert.Equal(t, 1, reloaded.Participants)

	require.NoError(t, participationService.Leave(ctx, enr.ID, "user_a"))
	reloaded, _ = challengeService.Get(ctx, c.ID)
	assert.Equal(t, 0, reloaded.Participants)

	assert.ErrorIs(t, participationService.Leave(ctx, enr.ID, "user_a"), ErrEnrollmentNotFound)
	reloaded, _ = challengeService.Get(ctx, c.ID)
	assert.Equal(t, 0, reloaded.Participants)
}

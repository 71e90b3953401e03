package challenges

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testChallenge(target float64, maxParticipants int) *Challenge {
	return &Challenge{
		ID:              primitive.NewObjectID(),
		Title:           "Bike to Work Week",
		Goal:            Goal{Target: target, Unit: "km"},
		Status:          StatusActive,
		MaxParticipants: maxParticipants,
	}
}

func TestJoin(t *testing.T) {
	c := testChallenge(100, 0)
	userID := primitive.NewObjectID()
	now := time.Now()

	require.NoError(t, c.Join(userID, now))
	assert.Equal(t, 1, c.CurrentParticipants)
	participant := c.FindParticipant(userID)
	require.NotNil(t, participant)
	assert.Equal(t, 0.0, participant.Progress.Current)
	assert.False(t, participant.Progress.Completed)
}

func TestJoinTwiceIsIdempotent(t *testing.T) {
	c := testChallenge(100, 0)
	userID := primitive.NewObjectID()

	require.NoError(t, c.Join(userID, time.Now()))
	err := c.Join(userID, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.Equal(t, 1, c.CurrentParticipants)
	assert.Len(t, c.Participants, 1)
}

func TestJoinFullChallenge(t *testing.T) {
	c := testChallenge(100, 1)
	require.NoError(t, c.Join(primitive.NewObjectID(), time.Now()))

	err := c.Join(primitive.NewObjectID(), time.Now())
	assert.ErrorIs(t, err, ErrChallengeFull)
	assert.Equal(t, 1, c.CurrentParticipants)
}

func TestJoinFullChallengeExistingMemberStillNoOp(t *testing.T) {
	c := testChallenge(100, 1)
	userID := primitive.NewObjectID()
	require.NoError(t, c.Join(userID, time.Now()))

	// A repeat join by the sole member reports AlreadyJoined, not full.
	assert.ErrorIs(t, c.Join(userID, time.Now()), ErrAlreadyJoined)
}

func TestUpdateProgress(t *testing.T) {
	c := testChallenge(200, 0)
	userID := primitive.NewObjectID()
	require.NoError(t, c.Join(userID, time.Now()))

	require.NoError(t, c.UpdateProgress(userID, 50, time.Now()))
	participant := c.FindParticipant(userID)
	assert.Equal(t, 50.0, participant.Progress.Current)
	assert.Equal(t, 25.0, participant.Progress.Percentage)
	assert.False(t, participant.Progress.Completed)
}

func TestUpdateProgressNotParticipant(t *testing.T) {
	c := testChallenge(200, 0)
	err := c.UpdateProgress(primitive.NewObjectID(), 10, time.Now())
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestUpdateProgressPercentageCapped(t *testing.T) {
	c := testChallenge(100, 0)
	userID := primitive.NewObjectID()
	require.NoError(t, c.Join(userID, time.Now()))

	require.NoError(t, c.UpdateProgress(userID, 250, time.Now()))
	assert.Equal(t, 100.0, c.FindParticipant(userID).Progress.Percentage)
}

func TestUpdateProgressZeroTarget(t *testing.T) {
	c := testChallenge(0, 0)
	userID := primitive.NewObjectID()
	require.NoError(t, c.Join(userID, time.Now()))

	// No progress yet keeps the participant at zero.
	require.NoError(t, c.UpdateProgress(userID, 0, time.Now()))
	participant := c.FindParticipant(userID)
	assert.Equal(t, 0.0, participant.Progress.Percentage)
	assert.False(t, participant.Progress.Completed)

	// A zero target is trivially met the moment any progress lands.
	require.NoError(t, c.UpdateProgress(userID, 5, time.Now()))
	assert.Equal(t, 100.0, participant.Progress.Percentage)
	assert.True(t, participant.Progress.Completed)
	require.NotNil(t, participant.Progress.CompletedAt)
}

func TestCompletionIsOneWay(t *testing.T) {
	c := testChallenge(100, 0)
	userID := primitive.NewObjectID()
	require.NoError(t, c.Join(userID, time.Now()))

	completedAtTime := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.UpdateProgress(userID, 100, completedAtTime))
	participant := c.FindParticipant(userID)
	require.True(t, participant.Progress.Completed)
	require.NotNil(t, participant.Progress.CompletedAt)
	assert.Equal(t, completedAtTime, *participant.Progress.CompletedAt)

	// A later, lower progress value must not clear completion or its stamp.
	require.NoError(t, c.UpdateProgress(userID, 20, completedAtTime.Add(time.Hour)))
	participant = c.FindParticipant(userID)
	assert.True(t, participant.Progress.Completed)
	assert.Equal(t, completedAtTime, *participant.Progress.CompletedAt)
	assert.Equal(t, 20.0, participant.Progress.Percentage)
}

func TestRecomputeLeaderboardDenseRanks(t *testing.T) {
	c := testChallenge(100, 0)
	a, b, d := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	for _, id := range []primitive.ObjectID{a, b, d} {
		require.NoError(t, c.Join(id, time.Now()))
	}
	require.NoError(t, c.UpdateProgress(a, 30, time.Now()))
	require.NoError(t, c.UpdateProgress(b, 10, time.Now()))
	require.NoError(t, c.UpdateProgress(d, 30, time.Now()))

	c.RecomputeLeaderboard(time.Now())
	require.Len(t, c.Leaderboard, 3)

	// Scores [30, 10, 30] in join order: the first 30 outranks the second
	// because the sort is stable, and ties get distinct consecutive ranks.
	assert.Equal(t, a, c.Leaderboard[0].User)
	assert.Equal(t, 1, c.Leaderboard[0].Rank)
	assert.Equal(t, d, c.Leaderboard[1].User)
	assert.Equal(t, 2, c.Leaderboard[1].Rank)
	assert.Equal(t, b, c.Leaderboard[2].User)
	assert.Equal(t, 3, c.Leaderboard[2].Rank)
}

func TestRecomputeLeaderboardStable(t *testing.T) {
	c := testChallenge(100, 0)
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	scores := []float64{30, 10, 30}
	for i, id := range ids {
		require.NoError(t, c.Join(id, time.Now()))
		require.NoError(t, c.UpdateProgress(id, scores[i], time.Now()))
	}

	c.RecomputeLeaderboard(time.Now())
	first := make([]LeaderboardEntry, len(c.Leaderboard))
	copy(first, c.Leaderboard)

	// Unchanged scores must produce the identical ordering on every recompute.
	for i := 0; i < 5; i++ {
		c.RecomputeLeaderboard(time.Now())
		for j := range first {
			assert.Equal(t, first[j].User, c.Leaderboard[j].User)
			assert.Equal(t, first[j].Rank, c.Leaderboard[j].Rank)
		}
	}
}

func TestRecomputeLeaderboardStampsLastUpdated(t *testing.T) {
	c := testChallenge(100, 0)
	require.NoError(t, c.Join(primitive.NewObjectID(), time.Now()))
	stamp := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	c.RecomputeLeaderboard(stamp)
	require.Len(t, c.Leaderboard, 1)
	assert.Equal(t, stamp, c.Leaderboard[0].LastUpdated)
}

func TestLeave(t *testing.T) {
	c := testChallenge(100, 0)
	stay, leave := primitive.NewObjectID(), primitive.NewObjectID()
	require.NoError(t, c.Join(stay, time.Now()))
	require.NoError(t, c.Join(leave, time.Now()))
	c.RecomputeLeaderboard(time.Now())

	require.NoError(t, c.Leave(leave))
	assert.Equal(t, 1, c.CurrentParticipants)
	assert.Nil(t, c.FindParticipant(leave))
	require.Len(t, c.Leaderboard, 1)
	assert.Equal(t, stay, c.Leaderboard[0].User)

	assert.ErrorIs(t, c.Leave(leave), ErrNotParticipant)
}

package challenges

import (
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrChallengeFull means the participant cap has been reached.
	ErrChallengeFull = errors.New("challenge is full")
	// ErrAlreadyJoined means the user already has a participant record. It is
	// an idempotent no-op, surfaced to callers as success.
	ErrAlreadyJoined = errors.New("already joined this challenge")
	// ErrNotParticipant means the user has no participant record.
	ErrNotParticipant = errors.New("not participating in this challenge")
)

// Join appends a participant with zero progress. Returns ErrChallengeFull when
// a cap is set and reached, ErrAlreadyJoined when the user is already in.
func (c *Challenge) Join(userID primitive.ObjectID, now time.Time) error {
	if c.FindParticipant(userID) != nil {
		return ErrAlreadyJoined
	}
	if c.MaxParticipants > 0 && c.CurrentParticipants >= c.MaxParticipants {
		return ErrChallengeFull
	}
	c.Participants = append(c.Participants, Participant{
		User:     userID,
		JoinedAt: now,
	})
	c.CurrentParticipants++
	return nil
}

// UpdateProgress sets the participant's current progress and recomputes the
// percentage against the goal target. Completion is a one-way transition: the
// first time percentage reaches 100, completed and completedAt are set and
// never cleared by later updates.
func (c *Challenge) UpdateProgress(userID primitive.ObjectID, newCurrent float64, now time.Time) error {
	participant := c.FindParticipant(userID)
	if participant == nil {
		return ErrNotParticipant
	}

	participant.Progress.Current = newCurrent
	percentage := 0.0
	switch {
	case c.Goal.Target > 0:
		percentage = newCurrent / c.Goal.Target * 100
	case newCurrent > 0:
		// A zero target is trivially met by any progress at all.
		percentage = 100
	}
	if percentage > 100 {
		percentage = 100
	}
	participant.Progress.Percentage = percentage

	if percentage >= 100 && !participant.Progress.Completed {
		participant.Progress.Completed = true
		completedAt := now
		participant.Progress.CompletedAt = &completedAt
	}
	return nil
}

// Leave removes the user's participant record along with their leaderboard
// entry and decrements the participant count.
func (c *Challenge) Leave(userID primitive.ObjectID) error {
	if c.FindParticipant(userID) == nil {
		return ErrNotParticipant
	}
	kept := c.Participants[:0]
	for _, p := range c.Participants {
		if p.User != userID {
			kept = append(kept, p)
		}
	}
	c.Participants = kept
	c.CurrentParticipants = len(kept)

	entries := c.Leaderboard[:0]
	for _, e := range c.Leaderboard {
		if e.User != userID {
			entries = append(entries, e)
		}
	}
	c.Leaderboard = entries
	return nil
}

// RecomputeLeaderboard rebuilds the leaderboard from participant progress.
// Score is the participant's current progress; entries are sorted descending
// by score with a stable sort, so tied scores keep their participant order and
// receive distinct consecutive ranks.
func (c *Challenge) RecomputeLeaderboard(now time.Time) {
	entries := make([]LeaderboardEntry, 0, len(c.Participants))
	for _, p := range c.Participants {
		entries = append(entries, LeaderboardEntry{
			User:        p.User,
			Score:       p.Progress.Current,
			LastUpdated: now,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	c.Leaderboard = entries
}

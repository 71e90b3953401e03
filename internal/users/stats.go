package users

import (
	"math"
	"time"
)

// ApplyDelta adjusts the running totals by the given deltas and recomputes net
// emissions. Deltas may be negative (activity edits and deletions); totals are
// deliberately not clamped so that the sum of every delta ever applied always
// equals the sum of the user's live activities.
func ApplyDelta(stats *Stats, emissionsDelta, offsetDelta float64) {
	stats.TotalEmissions += emissionsDelta
	stats.TotalOffset += offsetDelta
	stats.NetEmissions = stats.TotalEmissions - stats.TotalOffset
}

// Touch records an activity occurrence at now and updates the streak. An
// activity on the calendar day after the last one extends the streak, a longer
// gap restarts it at 1, and further activity on the same day leaves it
// unchanged. Only activity creation calls Touch; edits and deletes adjust
// totals without touching the streak.
func Touch(stats *Stats, now time.Time) {
	if stats.LastActivityDate.IsZero() {
		stats.StreakDays = 1
		stats.LastActivityDate = now
		return
	}

	diffDays := calendarDaysBetween(stats.LastActivityDate, now)
	switch {
	case diffDays == 1:
		stats.StreakDays++
	case diffDays > 1:
		stats.StreakDays = 1
	}
	stats.LastActivityDate = now
}

func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(math.Abs(end.Sub(start).Hours() / 24))
}

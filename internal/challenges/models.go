package challenges

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status of a challenge's lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Goal is the target a participant works toward.
type Goal struct {
	Target      float64 `bson:"target" json:"target"`
	Unit        string  `bson:"unit" json:"unit"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}

// Duration is the challenge's time window.
type Duration struct {
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
}

// Progress tracks how far a participant has come. Completed is monotonic: once
// true it never reverts, even if a later progress update drops below target.
type Progress struct {
	Current     float64    `bson:"current" json:"current"`
	Percentage  float64    `bson:"percentage" json:"percentage"`
	Completed   bool       `bson:"completed" json:"completed"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// Participant is one user's membership in a challenge.
type Participant struct {
	User     primitive.ObjectID `bson:"user" json:"user"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
	Progress Progress           `bson:"progress" json:"progress"`
}

// LeaderboardEntry is one ranked row of a challenge leaderboard. Ranks are
// dense and 1-based; tied scores keep distinct consecutive ranks in stable
// input order.
type LeaderboardEntry struct {
	User        primitive.ObjectID `bson:"user" json:"user"`
	Score       float64            `bson:"score" json:"score"`
	Rank        int                `bson:"rank" json:"rank"`
	LastUpdated time.Time          `bson:"lastUpdated" json:"lastUpdated"`
}

// Challenge owns its participants and leaderboard; neither has a lifecycle of
// its own outside the challenge document.
type Challenge struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title               string             `bson:"title" json:"title"`
	Description         string             `bson:"description" json:"description"`
	Category            string             `bson:"category,omitempty" json:"category,omitempty"`
	Difficulty          string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Type                string             `bson:"type,omitempty" json:"type,omitempty"`
	Goal                Goal               `bson:"goal" json:"goal"`
	Duration            Duration           `bson:"duration" json:"duration"`
	Participants        []Participant      `bson:"participants" json:"participants"`
	Leaderboard         []LeaderboardEntry `bson:"leaderboard" json:"leaderboard"`
	Status              Status             `bson:"status" json:"status"`
	Tags                []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	MaxParticipants     int                `bson:"maxParticipants" json:"maxParticipants"` // 0 means unlimited
	CurrentParticipants int                `bson:"currentParticipants" json:"currentParticipants"`
	CreatedBy           primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindParticipant returns the participant record for a user, or nil.
func (c *Challenge) FindParticipant(userID primitive.ObjectID) *Participant {
	for i := range c.Participants {
		if c.Participants[i].User == userID {
			return &c.Participants[i]
		}
	}
	return nil
}

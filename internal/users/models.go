package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role controls access to admin surfaces.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdmin reports whether the role grants admin access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Stats are the user's running emission totals and activity streak. They are
// maintained incrementally: every activity create/update/delete applies a
// delta, never a full recount.
type Stats struct {
	TotalEmissions   float64   `bson:"totalEmissions" json:"totalEmissions"`
	TotalOffset      float64   `bson:"totalOffset" json:"totalOffset"`
	NetEmissions     float64   `bson:"netEmissions" json:"netEmissions"`
	StreakDays       int       `bson:"streakDays" json:"streakDays"`
	LastActivityDate time.Time `bson:"lastActivityDate,omitempty" json:"lastActivityDate"`
}

// Location of a user, used to prefer regional emission factors.
type Location struct {
	Country  string `bson:"country,omitempty" json:"country,omitempty"`
	City     string `bson:"city,omitempty" json:"city,omitempty"`
	Timezone string `bson:"timezone,omitempty" json:"timezone,omitempty"`
}

// Preferences are per-user display settings.
type Preferences struct {
	Units string `bson:"units,omitempty" json:"units,omitempty"` // metric or imperial
}

// Profile holds the user's public-facing fields.
type Profile struct {
	FirstName   string      `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName    string      `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Avatar      string      `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Location    *Location   `bson:"location,omitempty" json:"location,omitempty"`
	Preferences Preferences `bson:"preferences,omitempty" json:"preferences,omitempty"`
}

// User is one account with its embedded stats.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username      string             `bson:"username" json:"username"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"`
	Role          Role               `bson:"role" json:"role"`
	Profile       Profile            `bson:"profile,omitempty" json:"profile"`
	Stats         Stats              `bson:"stats" json:"stats"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	EmailVerified bool               `bson:"emailVerified" json:"emailVerified"`
	LastLogin     time.Time          `bson:"lastLogin,omitempty" json:"lastLogin"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LeaderboardRow is one entry of the global low-emissions leaderboard.
type LeaderboardRow struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Username       string             `bson:"username" json:"username"`
	TotalEmissions float64            `bson:"totalEmissions" json:"totalEmissions"`
	StreakDays     int                `bson:"streakDays" json:"streakDays"`
}

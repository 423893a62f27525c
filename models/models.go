package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Default goal values applied when a user never set their own.
const (
	DefaultStepsGoal    = 10000
	DefaultDistanceGoal = 8.0
	DefaultMinutesGoal  = 60
	DefaultCaloriesGoal = 650
)

type User struct {
	Email          string    `gorm:"primaryKey;size:255" json:"email"`
	PasswordHash   string    `gorm:"column:password" json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	DateOfBirth    string    `gorm:"size:10" json:"date_of_birth"`
	StepsGoal      int       `gorm:"default:10000" json:"steps_goal"`
	DistanceGoalKm float64   `gorm:"default:8" json:"distance_goal_km"`
	MinutesGoal    int       `gorm:"default:60" json:"minutes_goal"`
	CaloriesGoal   int       `gorm:"default:650" json:"calories_goal"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Friendship is a directed request edge. At most one record exists per
// unordered pair; status flips pending -> accepted in place. The unique index
// sits on the sorted pair columns, so two concurrent requests in opposite
// directions still collapse to a single edge.
type Friendship struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserEmail   string    `gorm:"size:255;index" json:"user_email"`
	FriendEmail string    `gorm:"size:255;index" json:"friend_email"`
	PairLow     string    `gorm:"size:255;uniqueIndex:idx_friend_pair" json:"-"`
	PairHigh    string    `gorm:"size:255;uniqueIndex:idx_friend_pair" json:"-"`
	RequestedBy string    `gorm:"size:255" json:"requested_by"`
	Status      string    `gorm:"size:20;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *Friendship) BeforeCreate(*gorm.DB) error {
	f.PairLow, f.PairHigh = f.UserEmail, f.FriendEmail
	if f.PairLow > f.PairHigh {
		f.PairLow, f.PairHigh = f.PairHigh, f.PairLow
	}
	return nil
}

// DailyActivity holds the manual per-day values. One row per (user, day),
// created lazily on first touch and overwritten in place afterwards.
type DailyActivity struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	UserEmail  string  `gorm:"size:255;uniqueIndex:idx_activity_user_day" json:"user_email"`
	Day        string  `gorm:"size:10;uniqueIndex:idx_activity_user_day" json:"day"`
	Steps      int     `gorm:"default:0" json:"steps"`
	DistanceKm float64 `gorm:"default:0" json:"distance_km"`
	Minutes    int     `gorm:"default:0" json:"minutes"`
	Calories   int     `gorm:"default:0" json:"calories"`
}

func (DailyActivity) TableName() string { return "daily_activity" }

// DailyCarbon holds per-day human-powered travel hours plus the derived
// totals. Totals are recomputed from the hours on every save.
type DailyCarbon struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	UserEmail  string  `gorm:"size:255;uniqueIndex:idx_carbon_user_day" json:"user_email"`
	Day        string  `gorm:"size:10;uniqueIndex:idx_carbon_user_day" json:"day"`
	WalkHours  float64 `gorm:"default:0" json:"walk_hours"`
	RunHours   float64 `gorm:"default:0" json:"run_hours"`
	CycleHours float64 `gorm:"default:0" json:"cycle_hours"`
	HikeHours  float64 `gorm:"default:0" json:"hike_hours"`
	SwimHours  float64 `gorm:"default:0" json:"swim_hours"`
	TotalKm    float64 `gorm:"default:0" json:"total_km"`
	TotalCO2   float64 `gorm:"column:total_co2;default:0" json:"total_co2"`
}

func (DailyCarbon) TableName() string { return "daily_carbon" }

// Badge is a static catalog entry; awarding creates a UserBadge row.
type Badge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"size:50;unique" json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `gorm:"size:50" json:"category"`
	Icon        string `gorm:"size:50" json:"icon"`
}

type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserEmail string    `gorm:"size:255;uniqueIndex:idx_user_badge" json:"user_email"`
	BadgeID   uint      `gorm:"uniqueIndex:idx_user_badge" json:"badge_id"`
	EarnedAt  time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

// UserSettings carries no column defaults: the save handler materializes the
// full document before persisting, and a gorm default would silently drop
// explicitly-sent zero values (false, 0) from the insert.
type UserSettings struct {
	UserEmail            string    `gorm:"primaryKey;size:255" json:"user_email"`
	Theme                string    `gorm:"size:20" json:"theme" validate:"oneof=light dark auto"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	EmailNotifications   bool      `json:"email_notifications"`
	ActivityPrivacy      string    `gorm:"size:20" json:"activity_privacy" validate:"oneof=public friends private"`
	Units                string    `gorm:"size:20" json:"units" validate:"oneof=metric imperial"`
	Timezone             string    `gorm:"size:50" json:"timezone"`
	Language             string    `gorm:"size:10" json:"language"`
	WeeklyGoalSteps      int       `json:"weekly_goal_steps" validate:"min=0"`
	WeeklyGoalDistance   float64   `json:"weekly_goal_distance" validate:"min=0"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserSettings) TableName() string { return "user_settings" }

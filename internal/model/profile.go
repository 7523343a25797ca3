package model

import "time"

// Profile is the per-user record with preference flags and denormalized
// counters. The counters are a cache: the progress package recomputes the
// authoritative values from task history.
type Profile struct {
	ID                  string     `gorm:"primaryKey" json:"id"`
	UserID              string     `gorm:"uniqueIndex" json:"user_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	AvatarURL           string     `json:"avatar_url"`
	NotificationEnabled bool       `gorm:"default:true" json:"notification_enabled"`
	DarkModeEnabled     bool       `gorm:"default:false" json:"dark_mode_enabled"`
	CurrentStreak       int        `json:"current_streak"`
	TotalGoalsCompleted int        `json:"total_goals_completed"`
	TotalTasksCompleted int        `json:"total_tasks_completed"`
	LanguagePreference  string     `json:"language_preference"`
	MemberSince         *time.Time `json:"member_since"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

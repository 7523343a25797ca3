package model

import "time"

// Goal statuses.
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusArchived  = "archived"
)

// Goal is a user-defined objective with a target date and derived progress.
type Goal struct {
	ID                 string      `gorm:"primaryKey" json:"id"`
	UserID             string      `gorm:"index" json:"user_id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Category           string      `json:"category"`
	TargetDate         *time.Time  `json:"target_date"`
	ImportanceLevel    int         `json:"importance_level"`
	EffortEstimated    int         `json:"effort_estimated"`
	Status             string      `gorm:"default:active" json:"status"`
	ProgressPercentage int         `json:"progress_percentage"` // cached, recomputed from tasks on read
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	Tasks              []Task      `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"-"`
	Milestones         []Milestone `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"-"`
}

// ValidGoalStatus reports whether s is one of the known goal statuses.
func ValidGoalStatus(s string) bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusArchived:
		return true
	}
	return false
}

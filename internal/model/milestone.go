package model

import "time"

// Milestone is an ordered checkpoint within a goal's task sequence.
type Milestone struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	UserID             string    `gorm:"index" json:"user_id"`
	GoalID             *string   `gorm:"index" json:"goal_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	OrderSequence      int       `json:"order_sequence"`
	Status             string    `gorm:"default:pending" json:"status"`
	ProgressPercentage int       `json:"progress_percentage"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

package model

import "time"

// Task statuses.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task is an actionable unit of work, optionally linked to a goal.
type Task struct {
	ID                string     `gorm:"primaryKey" json:"id"`
	UserID            string     `gorm:"index" json:"user_id"`
	GoalID            *string    `gorm:"index" json:"goal_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Status            string     `gorm:"default:pending" json:"status"`
	Priority          string     `gorm:"default:medium" json:"priority"`
	EstimatedDuration int        `json:"estimated_duration"` // minutes
	ActualDuration    int        `json:"actual_duration"`    // minutes
	DueDate           *time.Time `json:"due_date"`
	Prerequisites     []string   `gorm:"serializer:json" json:"prerequisites"`
	IsAIGenerated     bool       `gorm:"default:false" json:"is_ai_generated"`
	OrderSequence     int        `json:"order_sequence"`
	CompletedAt       *time.Time `json:"completed_at"` // set iff Status == TaskStatusCompleted
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Completed reports whether the task counts toward progress.
func (t Task) Completed() bool {
	return t.Status == TaskStatusCompleted
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

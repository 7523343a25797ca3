package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"goal-planner/internal/model"
)

// MilestoneRepository handles CRUD for milestones.
type MilestoneRepository struct {
	db *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) Create(ctx context.Context, milestone *model.Milestone) error {
	if err := r.db.WithContext(ctx).Create(milestone).Error; err != nil {
		return fmt.Errorf("create milestone: %w", err)
	}
	return nil
}

func (r *MilestoneRepository) ListByGoal(ctx context.Context, userID, goalID string) ([]model.Milestone, error) {
	var milestones []model.Milestone
	if err := r.db.WithContext(ctx).Where("user_id = ? AND goal_id = ?", userID, goalID).
		Order("order_sequence ASC").
		Find(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}

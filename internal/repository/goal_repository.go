package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"goal-planner/internal/model"
)

// GoalRepository handles CRUD for goals. Every query is scoped by the owning
// user id.
type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) FindByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	var goal model.Goal
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, goalID).First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *GoalRepository) ListByStatus(ctx context.Context, userID, status string, limit int) ([]model.Goal, error) {
	var goals []model.Goal
	q := r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *GoalRepository) UpdateStatus(ctx context.Context, goal *model.Goal, status string) error {
	goal.Status = status
	if err := r.db.WithContext(ctx).Save(goal).Error; err != nil {
		return fmt.Errorf("update goal status: %w", err)
	}
	return nil
}

// UpdateProgress writes the cached progress percentage. The value is derived
// from tasks and never a source of truth.
func (r *GoalRepository) UpdateProgress(ctx context.Context, userID, goalID string, percentage int) error {
	if err := r.db.WithContext(ctx).Model(&model.Goal{}).
		Where("user_id = ? AND id = ?", userID, goalID).
		Update("progress_percentage", percentage).Error; err != nil {
		return fmt.Errorf("update goal progress: %w", err)
	}
	return nil
}

func (r *GoalRepository) CountByStatus(ctx context.Context, userID, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Goal{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return count, nil
}

// Delete removes the goal row. Deleting a missing goal is a no-op.
func (r *GoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, goalID).
		Delete(&model.Goal{}).Error; err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// DeleteWithChildren removes the goal together with its tasks and milestones
// in a single transaction, children first so no reader ever observes orphans.
// Deleting a missing goal is a no-op.
func (r *GoalRepository) DeleteWithChildren(ctx context.Context, userID, goalID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND goal_id = ?", userID, goalID).
			Delete(&model.Task{}).Error; err != nil {
			return fmt.Errorf("delete goal tasks: %w", err)
		}
		if err := tx.Where("user_id = ? AND goal_id = ?", userID, goalID).
			Delete(&model.Milestone{}).Error; err != nil {
			return fmt.Errorf("delete goal milestones: %w", err)
		}
		if err := tx.Where("user_id = ? AND id = ?", userID, goalID).
			Delete(&model.Goal{}).Error; err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		return nil
	})
	return err
}

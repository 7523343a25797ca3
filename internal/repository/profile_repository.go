package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goal-planner/internal/model"
)

// ProfileRepository handles the per-user profile record.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetOrCreate finds the profile for the user, creating a default one on first
// access.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ?", userID).First(&profile).Error
	switch {
	case err == nil:
		return &profile, nil
	case err == gorm.ErrRecordNotFound:
		now := time.Now()
		profile = model.Profile{
			ID:                  uuid.NewString(),
			UserID:              userID,
			NotificationEnabled: true,
			MemberSince:         &now,
		}
		if err := db.Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		return &profile, nil
	default:
		return nil, fmt.Errorf("find profile: %w", err)
	}
}

// Update applies the given column updates to the user's profile.
func (r *ProfileRepository) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// IncrementGoalsCompleted bumps the denormalized completed-goals counter.
func (r *ProfileRepository) IncrementGoalsCompleted(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", userID).
		UpdateColumn("total_goals_completed", gorm.Expr("total_goals_completed + ?", 1)).Error; err != nil {
		return fmt.Errorf("increment goals completed: %w", err)
	}
	return nil
}

func (r *ProfileRepository) ListAll(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := r.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

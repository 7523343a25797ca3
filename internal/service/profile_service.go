package service

import (
	"context"
	"fmt"
	"time"

	"goal-planner/internal/apperr"
	"goal-planner/internal/model"
	"goal-planner/internal/progress"
	"goal-planner/internal/repository"
)

// SettingsInput carries partial profile updates; nil fields are left as-is.
type SettingsInput struct {
	Name                *string
	NotificationEnabled *bool
	DarkModeEnabled     *bool
	LanguagePreference  *string
}

// ProfileService manages the per-user profile and its denormalized summary
// counters. The counters are a cache of what the progress package computes
// from task history.
type ProfileService struct {
	profileRepo *repository.ProfileRepository
	taskRepo    *repository.TaskRepository
	goalRepo    *repository.GoalRepository
}

func NewProfileService(
	profileRepo *repository.ProfileRepository,
	taskRepo *repository.TaskRepository,
	goalRepo *repository.GoalRepository,
) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, taskRepo: taskRepo, goalRepo: goalRepo}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return profile, nil
}

// UpdateSettings applies the non-nil fields and returns the updated profile.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID string, input SettingsInput) (*model.Profile, error) {
	if input.LanguagePreference != nil {
		lang := *input.LanguagePreference
		if lang != "pt" && lang != "en" {
			return nil, &apperr.ValidationError{Message: fmt.Sprintf("unsupported language %q", lang)}
		}
	}

	if _, err := s.profileRepo.GetOrCreate(ctx, userID); err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.NotificationEnabled != nil {
		updates["notification_enabled"] = *input.NotificationEnabled
	}
	if input.DarkModeEnabled != nil {
		updates["dark_mode_enabled"] = *input.DarkModeEnabled
	}
	if input.LanguagePreference != nil {
		updates["language_preference"] = *input.LanguagePreference
	}
	if len(updates) > 0 {
		if err := s.profileRepo.Update(ctx, userID, updates); err != nil {
			return nil, &apperr.PersistenceError{Err: err}
		}
	}

	return s.Get(ctx, userID)
}

// RefreshSummary recomputes the cached counters from task and goal history.
func (s *ProfileService) RefreshSummary(ctx context.Context, userID string, now time.Time) (*model.Profile, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	completedGoals, err := s.goalRepo.CountByStatus(ctx, userID, model.GoalStatusCompleted)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	stats := progress.GlobalStats(tasks)
	updates := map[string]interface{}{
		"total_tasks_completed": stats.CompletedTasks,
		"total_goals_completed": int(completedGoals),
		"current_streak":        progress.CurrentStreak(tasks, now),
	}

	if _, err := s.profileRepo.GetOrCreate(ctx, userID); err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	if err := s.profileRepo.Update(ctx, userID, updates); err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return s.Get(ctx, userID)
}

// RefreshAll recomputes the summary for every profile. Used by the periodic
// refresh job.
func (s *ProfileService) RefreshAll(ctx context.Context, now time.Time) error {
	profiles, err := s.profileRepo.ListAll(ctx)
	if err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	for _, profile := range profiles {
		if _, err := s.RefreshSummary(ctx, profile.UserID, now); err != nil {
			return fmt.Errorf("refresh profile %s: %w", profile.UserID, err)
		}
	}
	return nil
}

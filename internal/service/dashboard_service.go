package service

import (
	"context"
	"time"

	"goal-planner/internal/apperr"
	"goal-planner/internal/model"
	"goal-planner/internal/progress"
	"goal-planner/internal/repository"
)

// activeGoalLimit caps how many goals the dashboard shows.
const activeGoalLimit = 3

// Summary is the dashboard snapshot: global counts plus the most recent
// active goals with their derived progress.
type Summary struct {
	TotalTasks        int                `json:"total_tasks"`
	CompletedTasks    int                `json:"completed_tasks"`
	OverallProgress   int                `json:"overall_progress"`
	CurrentStreak     int                `json:"current_streak"`
	WeeklyConsistency []bool             `json:"weekly_consistency"`
	ActiveGoals       []GoalWithProgress `json:"active_goals"`
}

// DashboardService assembles the summary from a single point-in-time read.
type DashboardService struct {
	goalRepo *repository.GoalRepository
	taskRepo *repository.TaskRepository
}

func NewDashboardService(goalRepo *repository.GoalRepository, taskRepo *repository.TaskRepository) *DashboardService {
	return &DashboardService{goalRepo: goalRepo, taskRepo: taskRepo}
}

func (s *DashboardService) Summary(ctx context.Context, userID string, now time.Time) (*Summary, error) {
	goals, err := s.goalRepo.ListByStatus(ctx, userID, model.GoalStatusActive, activeGoalLimit)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	stats := progress.GlobalStats(tasks)
	return &Summary{
		TotalTasks:        stats.TotalTasks,
		CompletedTasks:    stats.CompletedTasks,
		OverallProgress:   stats.Percentage(),
		CurrentStreak:     progress.CurrentStreak(tasks, now),
		WeeklyConsistency: progress.WeeklyConsistency(tasks, now),
		ActiveGoals:       annotateGoals(goals, tasks),
	}, nil
}

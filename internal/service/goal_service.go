package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"goal-planner/internal/apperr"
	"goal-planner/internal/breakdown"
	"goal-planner/internal/model"
	"goal-planner/internal/progress"
	"goal-planner/internal/repository"
)

// GoalInput carries the attributes required to create a goal. Bounds mirror
// the persisted schema constraints.
type GoalInput struct {
	Title           string     `validate:"required,min=3,max=100"`
	Description     string     `validate:"max=500"`
	Category        string     `validate:"required"`
	TargetDate      *time.Time `validate:"required"`
	ImportanceLevel int        `validate:"required,min=1,max=5"`
	EffortEstimated int        `validate:"required,min=1,max=5"`
}

// GoalWithProgress pairs a goal with counts derived from its current tasks.
type GoalWithProgress struct {
	model.Goal
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	Progress       int `json:"progress"`
}

// GoalDetails is a full read of one goal with its children and fresh progress.
type GoalDetails struct {
	Goal       model.Goal
	Tasks      []model.Task
	Milestones []model.Milestone
	Progress   int
}

// GoalService is the goal lifecycle manager: it creates goals, hands freshly
// persisted ones to the breakdown orchestrator, and deletes a goal together
// with its dependent tasks and milestones.
type GoalService struct {
	goalRepo      *repository.GoalRepository
	taskRepo      *repository.TaskRepository
	milestoneRepo *repository.MilestoneRepository
	profileRepo   *repository.ProfileRepository
	orchestrator  *breakdown.Orchestrator
	validate      *validator.Validate
	defaultLang   string
}

func NewGoalService(
	goalRepo *repository.GoalRepository,
	taskRepo *repository.TaskRepository,
	milestoneRepo *repository.MilestoneRepository,
	profileRepo *repository.ProfileRepository,
	orchestrator *breakdown.Orchestrator,
	defaultLang string,
) *GoalService {
	return &GoalService{
		goalRepo:      goalRepo,
		taskRepo:      taskRepo,
		milestoneRepo: milestoneRepo,
		profileRepo:   profileRepo,
		orchestrator:  orchestrator,
		validate:      validator.New(),
		defaultLang:   defaultLang,
	}
}

// Create validates the input, persists the goal with status=active and then
// launches the breakdown request in the background. It returns as soon as the
// goal row is durable; the caller never waits for the generation service.
func (s *GoalService) Create(ctx context.Context, userID string, input GoalInput) (*model.Goal, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, &apperr.ValidationError{Message: validationMessage(err)}
	}
	if !input.TargetDate.After(time.Now()) {
		return nil, &apperr.ValidationError{Message: "target date must be in the future"}
	}

	goal := model.Goal{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		TargetDate:      input.TargetDate,
		ImportanceLevel: input.ImportanceLevel,
		EffortEstimated: input.EffortEstimated,
		Status:          model.GoalStatusActive,
	}
	if err := s.goalRepo.Create(ctx, &goal); err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	// The row is durable; the breakdown is best-effort from here on.
	s.orchestrator.Launch(goal, s.language(ctx, userID))

	return &goal, nil
}

// Get reads one goal with its tasks and milestones, recomputing the cached
// progress percentage when it drifted from the tasks.
func (s *GoalService) Get(ctx context.Context, userID, goalID string) (*GoalDetails, error) {
	goal, err := s.goalRepo.FindByID(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "goal", ID: goalID}
		}
		return nil, &apperr.PersistenceError{Err: err}
	}

	tasks, err := s.taskRepo.ListByGoal(ctx, userID, goalID)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	milestones, err := s.milestoneRepo.ListByGoal(ctx, userID, goalID)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	pct := progress.GoalProgress(tasks)
	if pct != goal.ProgressPercentage {
		if err := s.goalRepo.UpdateProgress(ctx, userID, goalID, pct); err != nil {
			return nil, &apperr.PersistenceError{Err: err}
		}
		goal.ProgressPercentage = pct
	}

	return &GoalDetails{Goal: *goal, Tasks: tasks, Milestones: milestones, Progress: pct}, nil
}

// ListActive returns the user's active goals annotated with fresh per-goal
// progress.
func (s *GoalService) ListActive(ctx context.Context, userID string) ([]GoalWithProgress, error) {
	goals, err := s.goalRepo.ListByStatus(ctx, userID, model.GoalStatusActive, 0)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return annotateGoals(goals, tasks), nil
}

// UpdateStatus moves a goal between active, completed and archived. The first
// transition into completed bumps the profile's completed-goals counter.
func (s *GoalService) UpdateStatus(ctx context.Context, userID, goalID, status string) (*model.Goal, error) {
	if !model.ValidGoalStatus(status) {
		return nil, &apperr.ValidationError{Message: fmt.Sprintf("unknown goal status %q", status)}
	}

	goal, err := s.goalRepo.FindByID(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "goal", ID: goalID}
		}
		return nil, &apperr.PersistenceError{Err: err}
	}

	completing := status == model.GoalStatusCompleted && goal.Status != model.GoalStatusCompleted
	if err := s.goalRepo.UpdateStatus(ctx, goal, status); err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	if completing {
		// Counter drift is repaired by the periodic summary refresh.
		if _, err := s.profileRepo.GetOrCreate(ctx, userID); err != nil {
			log.Printf("load profile for %s: %v", userID, err)
		} else if err := s.profileRepo.IncrementGoalsCompleted(ctx, userID); err != nil {
			log.Printf("increment completed goals for %s: %v", userID, err)
		}
	}

	return goal, nil
}

// Delete removes a goal and everything that references it in one transaction.
// Deleting an absent or already-deleted goal succeeds as a no-op.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	if err := s.goalRepo.DeleteWithChildren(ctx, userID, goalID); err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	s.orchestrator.Forget(goalID)
	return nil
}

// BreakdownStatus exposes the orchestrator's tracked attempt state for a goal.
func (s *GoalService) BreakdownStatus(goalID string) (breakdown.Status, error) {
	status := s.orchestrator.Status(goalID)
	return status, s.orchestrator.Warning(goalID)
}

func (s *GoalService) language(ctx context.Context, userID string) string {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err == nil && profile.LanguagePreference != "" {
		return profile.LanguagePreference
	}
	return s.defaultLang
}

func annotateGoals(goals []model.Goal, tasks []model.Task) []GoalWithProgress {
	byGoal := progress.ByGoal(tasks)
	annotated := make([]GoalWithProgress, 0, len(goals))
	for _, goal := range goals {
		goalTasks := byGoal[goal.ID]
		stats := progress.GlobalStats(goalTasks)
		annotated = append(annotated, GoalWithProgress{
			Goal:           goal,
			TotalTasks:     stats.TotalTasks,
			CompletedTasks: stats.CompletedTasks,
			Progress:       progress.GoalProgress(goalTasks),
		})
	}
	return annotated
}

// validationMessage flattens the first validator violation into a
// human-readable message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("%s fails %s=%s constraint", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s is %s", fe.Field(), fe.Tag())
	}
	return err.Error()
}

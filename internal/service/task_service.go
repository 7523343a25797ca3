package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"goal-planner/internal/apperr"
	"goal-planner/internal/model"
	"goal-planner/internal/repository"
)

// TaskInput represents data required to create a task. A task may exist
// without a goal.
type TaskInput struct {
	GoalID            *string
	Title             string `validate:"required,min=3,max=100"`
	Description       string `validate:"max=500"`
	Priority          string `validate:"omitempty,oneof=high medium low"`
	EstimatedDuration int    `validate:"omitempty,min=5,max=480"`
	DueDate           *time.Time
	Prerequisites     []string
	OrderSequence     int
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	goalRepo *repository.GoalRepository
	validate *validator.Validate
}

func NewTaskService(taskRepo *repository.TaskRepository, goalRepo *repository.GoalRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, goalRepo: goalRepo, validate: validator.New()}
}

func (s *TaskService) Create(ctx context.Context, userID string, input TaskInput) (*model.Task, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, &apperr.ValidationError{Message: validationMessage(err)}
	}

	if input.GoalID != nil {
		if _, err := s.goalRepo.FindByID(ctx, userID, *input.GoalID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &apperr.NotFoundError{Resource: "goal", ID: *input.GoalID}
			}
			return nil, &apperr.PersistenceError{Err: err}
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	task := model.Task{
		ID:                uuid.NewString(),
		UserID:            userID,
		GoalID:            input.GoalID,
		Title:             input.Title,
		Description:       input.Description,
		Status:            model.TaskStatusPending,
		Priority:          priority,
		EstimatedDuration: input.EstimatedDuration,
		DueDate:           input.DueDate,
		Prerequisites:     input.Prerequisites,
		OrderSequence:     input.OrderSequence,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, userID string) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return tasks, nil
}

func (s *TaskService) ListByGoal(ctx context.Context, userID, goalID string) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByGoal(ctx, userID, goalID)
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return tasks, nil
}

// ToggleComplete flips a task between pending and completed. Completing sets
// the completion timestamp, reopening clears it, so completed_at is set
// exactly when the status is completed.
func (s *TaskService) ToggleComplete(ctx context.Context, userID, taskID string, now time.Time) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "task", ID: taskID}
		}
		return nil, &apperr.PersistenceError{Err: err}
	}

	if task.Completed() {
		err = s.taskRepo.MarkPending(ctx, task)
	} else {
		err = s.taskRepo.MarkCompleted(ctx, task, now)
	}
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	return nil
}

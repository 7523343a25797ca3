package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goal-planner/internal/apperr"
	"goal-planner/internal/service"
)

const dateLayout = "2006-01-02"

type createGoalRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	TargetDate      string `json:"target_date"` // YYYY-MM-DD
	ImportanceLevel int    `json:"importance_level"`
	EffortEstimated int    `json:"effort_estimated"`
}

func (s *Server) createGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &apperr.ValidationError{Message: "invalid request body: " + err.Error()})
		return
	}

	input := service.GoalInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		ImportanceLevel: req.ImportanceLevel,
		EffortEstimated: req.EffortEstimated,
	}
	if req.TargetDate != "" {
		target, err := time.ParseInLocation(dateLayout, req.TargetDate, time.Local)
		if err != nil {
			writeError(c, &apperr.ValidationError{Message: "target_date must be formatted as YYYY-MM-DD"})
			return
		}
		// Local midnight, so today's date fails the future check.
		input.TargetDate = &target
	}

	goal, err := s.goals.Create(c.Request.Context(), currentUser(c), input)
	if err != nil {
		writeError(c, err)
		return
	}

	status, warn := s.goals.BreakdownStatus(goal.ID)
	resp := gin.H{"goal": goal, "breakdown_status": status}
	if warn != nil {
		resp["warning"] = warn.Error()
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) listGoals(c *gin.Context) {
	goals, err := s.goals.ListActive(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

func (s *Server) getGoal(c *gin.Context) {
	details, err := s.goals.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"goal":       details.Goal,
		"tasks":      details.Tasks,
		"milestones": details.Milestones,
		"progress":   details.Progress,
	})
}

type updateGoalStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateGoalStatus(c *gin.Context) {
	var req updateGoalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &apperr.ValidationError{Message: "invalid request body: " + err.Error()})
		return
	}

	goal, err := s.goals.UpdateStatus(c.Request.Context(), currentUser(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

func (s *Server) deleteGoal(c *gin.Context) {
	if err := s.goals.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) breakdownStatus(c *gin.Context) {
	// The attempt state lives on the orchestrator; the goal read first makes
	// sure the caller owns the goal.
	if _, err := s.goals.Get(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	status, warn := s.goals.BreakdownStatus(c.Param("id"))
	resp := gin.H{"status": status}
	if warn != nil {
		resp["warning"] = warn.Error()
	}
	c.JSON(http.StatusOK, resp)
}

type createTaskRequest struct {
	GoalID            *string  `json:"goal_id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Priority          string   `json:"priority"`
	EstimatedDuration int      `json:"estimated_duration"`
	DueDate           string   `json:"due_date"` // YYYY-MM-DD, optional
	Prerequisites     []string `json:"prerequisites"`
	OrderSequence     int      `json:"order_sequence"`
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &apperr.ValidationError{Message: "invalid request body: " + err.Error()})
		return
	}

	input := service.TaskInput{
		GoalID:            req.GoalID,
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		EstimatedDuration: req.EstimatedDuration,
		Prerequisites:     req.Prerequisites,
		OrderSequence:     req.OrderSequence,
	}
	if req.DueDate != "" {
		due, err := time.ParseInLocation(dateLayout, req.DueDate, time.Local)
		if err != nil {
			writeError(c, &apperr.ValidationError{Message: "due_date must be formatted as YYYY-MM-DD"})
			return
		}
		input.DueDate = &due
	}

	task, err := s.tasks.Create(c.Request.Context(), currentUser(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (s *Server) listTasks(c *gin.Context) {
	user := currentUser(c)

	if goalID := c.Query("goal_id"); goalID != "" {
		tasks, err := s.tasks.ListByGoal(c.Request.Context(), user, goalID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
		return
	}

	tasks, err := s.tasks.List(c.Request.Context(), user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) toggleTask(c *gin.Context) {
	task, err := s.tasks.ToggleComplete(c.Request.Context(), currentUser(c), c.Param("id"), time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.tasks.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getDashboard(c *gin.Context) {
	summary, err := s.dashboard.Summary(c.Request.Context(), currentUser(c), time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.profiles.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type updateProfileRequest struct {
	Name                *string `json:"name"`
	NotificationEnabled *bool   `json:"notification_enabled"`
	DarkModeEnabled     *bool   `json:"dark_mode_enabled"`
	LanguagePreference  *string `json:"language_preference"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, &apperr.ValidationError{Message: "invalid request body: " + err.Error()})
		return
	}

	profile, err := s.profiles.UpdateSettings(c.Request.Context(), currentUser(c), service.SettingsInput{
		Name:                req.Name,
		NotificationEnabled: req.NotificationEnabled,
		DarkModeEnabled:     req.DarkModeEnabled,
		LanguagePreference:  req.LanguagePreference,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

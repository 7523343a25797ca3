// Package server exposes the goal planner over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goal-planner/internal/apperr"
	"goal-planner/internal/service"
)

// userIDHeader carries the authenticated principal. Session handling lives in
// front of this service; the header is its request-scoped hand-off.
const userIDHeader = "X-User-ID"

// Server hosts the HTTP API.
type Server struct {
	engine    *gin.Engine
	goals     *service.GoalService
	tasks     *service.TaskService
	profiles  *service.ProfileService
	dashboard *service.DashboardService
}

func New(
	goals *service.GoalService,
	tasks *service.TaskService,
	profiles *service.ProfileService,
	dashboard *service.DashboardService,
) *Server {
	s := &Server{
		engine:    gin.New(),
		goals:     goals,
		tasks:     tasks,
		profiles:  profiles,
		dashboard: dashboard,
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

// Handler returns the root http.Handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	api := s.engine.Group("/api", requireUser)

	api.POST("/goals", s.createGoal)
	api.GET("/goals", s.listGoals)
	api.GET("/goals/:id", s.getGoal)
	api.PATCH("/goals/:id/status", s.updateGoalStatus)
	api.DELETE("/goals/:id", s.deleteGoal)
	api.GET("/goals/:id/breakdown", s.breakdownStatus)

	api.POST("/tasks", s.createTask)
	api.GET("/tasks", s.listTasks)
	api.POST("/tasks/:id/toggle", s.toggleTask)
	api.DELETE("/tasks/:id", s.deleteTask)

	api.GET("/dashboard", s.getDashboard)
	api.GET("/profile", s.getProfile)
	api.PATCH("/profile", s.updateProfile)
}

// requireUser rejects requests without a principal and stashes the user id in
// the gin context.
func requireUser(c *gin.Context) {
	userID := c.GetHeader(userIDHeader)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + userIDHeader + " header"})
		return
	}
	c.Set("userID", userID)
	c.Next()
}

func currentUser(c *gin.Context) string {
	return c.GetString("userID")
}

// writeError maps the apperr taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goal-planner/internal/breakdown"
	"goal-planner/internal/repository"
	"goal-planner/internal/service"
)

type fakeGenerator struct {
	mu  sync.Mutex
	err error
}

func (g *fakeGenerator) Generate(context.Context, breakdown.Request) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

type testAPI struct {
	srv  *Server
	orch *breakdown.Orchestrator
	gen  *fakeGenerator
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewDB("file::memory:")
	require.NoError(t, err)

	goalRepo := repository.NewGoalRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	gen := &fakeGenerator{}
	orch := breakdown.NewOrchestrator(gen, time.Second)
	t.Cleanup(orch.Wait)

	goals := service.NewGoalService(goalRepo, taskRepo, milestoneRepo, profileRepo, orch, "pt")
	tasks := service.NewTaskService(taskRepo, goalRepo)
	profiles := service.NewProfileService(profileRepo, taskRepo, goalRepo)
	dashboard := service.NewDashboardService(goalRepo, taskRepo)

	return &testAPI{srv: New(goals, tasks, profiles, dashboard), orch: orch, gen: gen}
}

func (a *testAPI) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set(userIDHeader, user)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	a.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func goalBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":            title,
		"description":      "created through the API",
		"category":         "education",
		"target_date":      time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		"importance_level": 4,
		"effort_estimated": 2,
	}
}

func TestMissingUserHeader(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateGoalEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/goals", "user-1", goalBody("Learn X"))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	goal := body["goal"].(map[string]interface{})
	assert.Equal(t, "Learn X", goal["title"])
	assert.Equal(t, "active", goal["status"])
	assert.NotEmpty(t, goal["id"])
	assert.Contains(t, []interface{}{"requested", "succeeded"}, body["breakdown_status"])
}

func TestCreateGoalValidationError(t *testing.T) {
	api := newTestAPI(t)

	body := goalBody("ab") // too short
	rec := api.do(t, http.MethodPost, "/api/goals", "user-1", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = goalBody("Learn X")
	body["target_date"] = "01/02/2026"
	rec = api.do(t, http.MethodPost, "/api/goals", "user-1", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGoalRejectsTodayAsTargetDate(t *testing.T) {
	api := newTestAPI(t)

	body := goalBody("Learn X")
	body["target_date"] = time.Now().Format("2006-01-02")
	rec := api.do(t, http.MethodPost, "/api/goals", "user-1", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body["target_date"] = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	rec = api.do(t, http.MethodPost, "/api/goals", "user-1", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateGoalSurvivesBreakdownFailure(t *testing.T) {
	api := newTestAPI(t)
	api.gen.err = errors.New("generation service down")

	rec := api.do(t, http.MethodPost, "/api/goals", "user-1", goalBody("Learn X"))
	require.Equal(t, http.StatusCreated, rec.Code)
	goalID := decode(t, rec)["goal"].(map[string]interface{})["id"].(string)

	api.orch.Wait()

	// The goal is still retrievable and the attempt is observable as failed.
	rec = api.do(t, http.MethodGet, "/api/goals/"+goalID, "user-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/goals/"+goalID+"/breakdown", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode(t, rec)
	assert.Equal(t, "failed", status["status"])
	assert.Contains(t, status["warning"], "breakdown failed")
}

func TestGoalNotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/goals/missing", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteGoalEndpointIdempotent(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/goals", "user-1", goalBody("Learn X"))
	require.Equal(t, http.StatusCreated, rec.Code)
	goalID := decode(t, rec)["goal"].(map[string]interface{})["id"].(string)
	api.orch.Wait()

	rec = api.do(t, http.MethodDelete, "/api/goals/"+goalID, "user-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting again still succeeds.
	rec = api.do(t, http.MethodDelete, "/api/goals/"+goalID, "user-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/goals/"+goalID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskLifecycleEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/tasks", "user-1", map[string]interface{}{
		"title":    "write report",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID := decode(t, rec)["task"].(map[string]interface{})["id"].(string)

	rec = api.do(t, http.MethodPost, "/api/tasks/"+taskID+"/toggle", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	task := decode(t, rec)["task"].(map[string]interface{})
	assert.Equal(t, "completed", task["status"])
	assert.NotNil(t, task["completed_at"])

	rec = api.do(t, http.MethodGet, "/api/dashboard", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)
	assert.Equal(t, float64(1), summary["total_tasks"])
	assert.Equal(t, float64(1), summary["completed_tasks"])
	assert.Equal(t, float64(100), summary["overall_progress"])

	rec = api.do(t, http.MethodDelete, "/api/tasks/"+taskID, "user-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/profile", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode(t, rec)["profile"].(map[string]interface{})
	assert.Equal(t, "user-1", profile["user_id"])

	dark := true
	rec = api.do(t, http.MethodPatch, "/api/profile", "user-1", map[string]interface{}{
		"dark_mode_enabled":   dark,
		"language_preference": "en",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	profile = decode(t, rec)["profile"].(map[string]interface{})
	assert.Equal(t, true, profile["dark_mode_enabled"])
	assert.Equal(t, "en", profile["language_preference"])

	rec = api.do(t, http.MethodPatch, "/api/profile", "user-1", map[string]interface{}{
		"language_preference": "de",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"goal-planner/internal/breakdown"
	"goal-planner/internal/model"
	"goal-planner/internal/repository"
)

// fakeGenerator stands in for the external generation service.
type fakeGenerator struct {
	mu    sync.Mutex
	err   error
	calls []breakdown.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req breakdown.Request) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	return g.err
}

func (g *fakeGenerator) requests() []breakdown.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]breakdown.Request(nil), g.calls...)
}

type testEnv struct {
	db        *gorm.DB
	gen       *fakeGenerator
	orch      *breakdown.Orchestrator
	goals     *GoalService
	tasks     *TaskService
	profiles  *ProfileService
	dashboard *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB("file::memory:")
	require.NoError(t, err)

	goalRepo := repository.NewGoalRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	gen := &fakeGenerator{}
	orch := breakdown.NewOrchestrator(gen, time.Second)

	env := &testEnv{
		db:        db,
		gen:       gen,
		orch:      orch,
		goals:     NewGoalService(goalRepo, taskRepo, milestoneRepo, profileRepo, orch, "pt"),
		tasks:     NewTaskService(taskRepo, goalRepo),
		profiles:  NewProfileService(profileRepo, taskRepo, goalRepo),
		dashboard: NewDashboardService(goalRepo, taskRepo),
	}
	t.Cleanup(orch.Wait)
	return env
}

func futureDate(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}

func validGoalInput() GoalInput {
	return GoalInput{
		Title:           "Learn X",
		Description:     "A goal worth tracking",
		Category:        "education",
		TargetDate:      futureDate(30),
		ImportanceLevel: 4,
		EffortEstimated: 2,
	}
}

// mustCreateGoal creates a goal through the lifecycle manager and drains the
// breakdown attempt it launches.
func mustCreateGoal(t *testing.T, env *testEnv, userID string) *model.Goal {
	t.Helper()
	goal, err := env.goals.Create(context.Background(), userID, validGoalInput())
	require.NoError(t, err)
	env.orch.Wait()
	return goal
}

func mustCreateTask(t *testing.T, env *testEnv, userID string, goalID *string, title string) *model.Task {
	t.Helper()
	task, err := env.tasks.Create(context.Background(), userID, TaskInput{
		GoalID: goalID,
		Title:  title,
	})
	require.NoError(t, err)
	return task
}

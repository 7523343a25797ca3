package breakdown

import (
	"context"
	"log"
	"sync"
	"time"

	"goal-planner/internal/apperr"
	"goal-planner/internal/model"
)

// Status of the breakdown attempt for one goal.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusRequested  Status = "requested"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Generator abstracts the external service call.
type Generator interface {
	Generate(ctx context.Context, req Request) error
}

// Orchestrator fires one breakdown attempt per created goal and tracks its
// observable status. Attempts run in the background: goal creation never
// waits for, and never fails because of, the generation service. There is no
// retry; Failed is terminal.
type Orchestrator struct {
	generator Generator
	timeout   time.Duration

	mu       sync.Mutex
	statuses map[string]Status
	warnings map[string]error

	wg sync.WaitGroup
}

func NewOrchestrator(generator Generator, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{
		generator: generator,
		timeout:   timeout,
		statuses:  make(map[string]Status),
		warnings:  make(map[string]error),
	}
}

// Launch transitions the goal's attempt to Requested and fires the external
// call in the background. Call it only after the goal row is durably
// persisted: the service must always receive a valid goal id.
func (o *Orchestrator) Launch(goal model.Goal, language string) {
	o.set(goal.ID, StatusRequested, nil)

	req := Request{
		GoalID: goal.ID,
		Goal: GoalPayload{
			Title:           goal.Title,
			Description:     goal.Description,
			ImportanceLevel: goal.ImportanceLevel,
			EffortEstimated: goal.EffortEstimated,
		},
		Language: language,
	}
	if goal.TargetDate != nil {
		req.TargetDate = goal.TargetDate.Format("2006-01-02")
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		defer cancel()

		if err := o.generator.Generate(ctx, req); err != nil {
			warn := &apperr.PartialWorkflowFailure{GoalID: goal.ID, Err: err}
			log.Printf("breakdown: %v", warn)
			o.finish(goal.ID, StatusFailed, warn)
			return
		}
		o.finish(goal.ID, StatusSucceeded, nil)
	}()
}

// Status reports the attempt state for a goal. Goals for which no attempt was
// launched report NotStarted.
func (o *Orchestrator) Status(goalID string) Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.statuses[goalID]; ok {
		return s
	}
	return StatusNotStarted
}

// Warning returns the recorded failure for a goal, or nil.
func (o *Orchestrator) Warning(goalID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.warnings[goalID]
}

// Forget drops tracking state for a deleted goal.
func (o *Orchestrator) Forget(goalID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.statuses, goalID)
	delete(o.warnings, goalID)
}

// Wait blocks until all in-flight attempts have finished. Used on shutdown.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) set(goalID string, status Status, warning error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses[goalID] = status
	if warning != nil {
		o.warnings[goalID] = warning
	}
}

// finish records the attempt outcome unless the goal was forgotten while the
// attempt was in flight. Writing it back would resurrect tracking state for a
// deleted goal.
func (o *Orchestrator) finish(goalID string, status Status, warning error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.statuses[goalID]; !ok {
		return
	}
	o.statuses[goalID] = status
	if warning != nil {
		o.warnings[goalID] = warning
	}
}

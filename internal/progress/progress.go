// Package progress computes derived goal metrics from raw task records.
//
// All functions are pure: they operate on a point-in-time snapshot fetched by
// the caller and keep no state between calls. Callers that need to observe
// concurrent writes must re-fetch and recompute.
package progress

import (
	"math"
	"time"

	"goal-planner/internal/model"
)

// WindowDays is the length of the consistency series.
const WindowDays = 7

// Stats holds user-wide task counts.
type Stats struct {
	TotalTasks     int
	CompletedTasks int
}

// GoalProgress returns the completion percentage for a goal's tasks, rounded
// half-up. A goal with no tasks is 0%, never a division by zero.
func GoalProgress(tasks []model.Task) int {
	total := len(tasks)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Completed() {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// GlobalStats counts all tasks for a user regardless of goal assignment.
func GlobalStats(tasks []model.Task) Stats {
	stats := Stats{TotalTasks: len(tasks)}
	for _, t := range tasks {
		if t.Completed() {
			stats.CompletedTasks++
		}
	}
	return stats
}

// Percentage returns the overall completion percentage for the stats,
// rounded half-up.
func (s Stats) Percentage() int {
	if s.TotalTasks == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.CompletedTasks) / float64(s.TotalTasks)))
}

// WeeklyConsistency reports, for each of the WindowDays days ending at ref's
// day (oldest first), whether at least one task was completed that day. Days
// are bucketed midnight to midnight in ref's location.
func WeeklyConsistency(tasks []model.Task, ref time.Time) []bool {
	done := completedDates(tasks, ref.Location())
	days := make([]bool, WindowDays)
	day := midnight(ref).AddDate(0, 0, -(WindowDays - 1))
	for i := range days {
		days[i] = done[day]
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// CurrentStreak counts consecutive days with at least one completed task,
// anchored at today or, when nothing was completed yet today, at yesterday.
// Two consecutive empty days reset the streak to zero.
func CurrentStreak(tasks []model.Task, ref time.Time) int {
	done := completedDates(tasks, ref.Location())
	anchor := midnight(ref)
	if !done[anchor] {
		anchor = anchor.AddDate(0, 0, -1)
		if !done[anchor] {
			return 0
		}
	}
	streak := 0
	for day := anchor; done[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// ByGoal groups tasks by goal id. Unassigned tasks are skipped.
func ByGoal(tasks []model.Task) map[string][]model.Task {
	grouped := make(map[string][]model.Task)
	for _, t := range tasks {
		if t.GoalID == nil {
			continue
		}
		grouped[*t.GoalID] = append(grouped[*t.GoalID], t)
	}
	return grouped
}

// completedDates builds the set of distinct midnight-normalized dates with at
// least one completion. Tasks without a completion timestamp are ignored.
func completedDates(tasks []model.Task, loc *time.Location) map[time.Time]bool {
	dates := make(map[time.Time]bool)
	for _, t := range tasks {
		if !t.Completed() || t.CompletedAt == nil {
			continue
		}
		dates[midnight(t.CompletedAt.In(loc))] = true
	}
	return dates
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

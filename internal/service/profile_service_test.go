package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goal-planner/internal/apperr"
	"goal-planner/internal/model"
)

func TestProfileGetCreatesDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "user-1", profile.UserID)
	assert.True(t, profile.NotificationEnabled)
	assert.NotNil(t, profile.MemberSince)

	// Second read returns the same record.
	again, err := env.profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestProfileUpdateSettings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	name := "Ana"
	dark := true
	lang := "en"
	profile, err := env.profiles.UpdateSettings(ctx, "user-1", SettingsInput{
		Name:               &name,
		DarkModeEnabled:    &dark,
		LanguagePreference: &lang,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.Name)
	assert.True(t, profile.DarkModeEnabled)
	assert.Equal(t, "en", profile.LanguagePreference)
	// Untouched fields keep their defaults.
	assert.True(t, profile.NotificationEnabled)
}

func TestProfileUpdateSettingsUnsupportedLanguage(t *testing.T) {
	env := newTestEnv(t)

	lang := "fr"
	_, err := env.profiles.UpdateSettings(context.Background(), "user-1", SettingsInput{LanguagePreference: &lang})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestProfileRefreshSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	goal := mustCreateGoal(t, env, "user-1")
	for _, title := range []string{"first task", "second task"} {
		task := mustCreateTask(t, env, "user-1", &goal.ID, title)
		_, err := env.tasks.ToggleComplete(ctx, "user-1", task.ID, now)
		require.NoError(t, err)
	}
	mustCreateTask(t, env, "user-1", nil, "still open")

	_, err := env.goals.UpdateStatus(ctx, "user-1", goal.ID, model.GoalStatusCompleted)
	require.NoError(t, err)

	profile, err := env.profiles.RefreshSummary(ctx, "user-1", now)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.TotalTasksCompleted)
	assert.Equal(t, 1, profile.TotalGoalsCompleted)
	assert.Equal(t, 1, profile.CurrentStreak)
}

func TestProfileRefreshAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	for _, user := range []string{"user-a", "user-b"} {
		task := mustCreateTask(t, env, user, nil, "daily task")
		_, err := env.tasks.ToggleComplete(ctx, user, task.ID, now)
		require.NoError(t, err)
		_, err = env.profiles.Get(ctx, user)
		require.NoError(t, err)
	}

	require.NoError(t, env.profiles.RefreshAll(ctx, now))

	for _, user := range []string{"user-a", "user-b"} {
		profile, err := env.profiles.Get(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, 1, profile.TotalTasksCompleted, user)
		assert.Equal(t, 1, profile.CurrentStreak, user)
	}
}

package planner_test

import (
	"context"
	"testing"

	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/planner"
	"alcyxob/fitplan/internal/repository"
	"alcyxob/fitplan/internal/repository/local"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWorkout(t *testing.T, repo repository.WorkoutRepository) *domain.Workout {
	t.Helper()
	w := &domain.Workout{CoachName: "Sam", ClientName: "Alice", WorkoutType: "Strength", Duration: 8}
	require.NoError(t, repo.Create(context.Background(), w))
	return w
}

func TestSession_FlushPersistsOnlyWhenDirty(t *testing.T) {
	ctx := context.Background()
	repo := local.NewMemoryStore().Workouts()
	w := seedWorkout(t, repo)

	s, err := planner.OpenSession(ctx, repo, nil, w.ID)
	require.NoError(t, err)
	require.NoError(t, s.Flush(ctx))
	stored, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version, "clean flush writes nothing")

	require.NoError(t, s.Edit(func(w *domain.Workout, e *planner.Editor) error {
		week := e.AddWeek(w)
		day := &week.Days[0]
		ex := e.AddExercise(day)
		ex.Name, ex.Sets, ex.Reps = "Squat", "4", "8"
		return nil
	}))
	assert.True(t, s.Dirty())
	require.NoError(t, s.Flush(ctx))
	assert.False(t, s.Dirty())

	stored, err = repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	require.Len(t, stored.Weeks, 1)
	assert.Equal(t, "Squat", stored.Weeks[0].Days[0].Exercises[0].Name)

	// a second flush cycle keeps tracking the new version
	require.NoError(t, s.Edit(func(w *domain.Workout, e *planner.Editor) error {
		return planner.UpdateField(w, "description", "block one")
	}))
	require.NoError(t, s.Flush(ctx))
}

func TestSession_FlushRejectsInvalidTree(t *testing.T) {
	ctx := context.Background()
	repo := local.NewMemoryStore().Workouts()
	w := seedWorkout(t, repo)

	s, err := planner.OpenSession(ctx, repo, nil, w.ID)
	require.NoError(t, err)
	require.NoError(t, s.Edit(func(w *domain.Workout, e *planner.Editor) error {
		e.AddExercise(&e.AddWeek(w).Days[0])
		return nil
	}))

	err = s.Flush(ctx)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, s.Dirty())

	stored, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Weeks)
}

func TestSession_FlushDetectsConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	repo := local.NewMemoryStore().Workouts()
	w := seedWorkout(t, repo)

	s, err := planner.OpenSession(ctx, repo, nil, w.ID)
	require.NoError(t, err)

	other, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	other.Description = "someone else"
	require.NoError(t, repo.Update(ctx, other, 0))

	s.Workout().Description = "mine"
	s.MarkDirty()
	assert.ErrorIs(t, s.Flush(ctx), repository.ErrConflict)
}

func TestOpenSession_Missing(t *testing.T) {
	_, err := planner.OpenSession(context.Background(), local.NewMemoryStore().Workouts(), nil, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

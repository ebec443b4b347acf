package backup_test

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitplan/internal/backup"
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/planner"
	"alcyxob/fitplan/internal/repository/local"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importTime = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *local.Store {
	t.Helper()
	ctx := context.Background()
	store := local.NewMemoryStore()
	e := planner.NewEditor(nil)

	w := &domain.Workout{CoachName: "Sam", ClientName: "Alice", WorkoutType: "Strength", Duration: 8, Description: "block"}
	ex := e.AddExercise(&e.AddWeek(w).Days[0])
	ex.Name, ex.Sets, ex.Reps, ex.Notes = "Squat", "4", "8", "deep"
	e.AddWeek(w)
	require.NoError(t, store.Workouts().Create(ctx, w))
	require.NoError(t, store.Workouts().Create(ctx, &domain.Workout{CoachName: "Sam", ClientName: "Bob", WorkoutType: "Mass", Duration: 4}))
	require.NoError(t, store.Clients().Create(ctx, &domain.Client{Name: "Alice", Email: "alice@example.com"}))
	show := false
	require.NoError(t, store.CoachProfiles().Create(ctx, &domain.CoachProfile{Name: "Sam", Instagram: "sam", ShowWatermark: &show}))
	return store
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	before, err := store.Snapshot(ctx)
	require.NoError(t, err)

	codec := backup.NewCodec(store).WithClock(func() time.Time { return importTime })
	env, at, err := codec.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, importTime, at)
	data, err := backup.Encode(env)
	require.NoError(t, err)

	require.NoError(t, store.ClearAll(ctx))
	decoded, err := codec.DecodeNow(data)
	require.NoError(t, err)
	require.NoError(t, codec.Import(ctx, decoded))

	after, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	stats, err := codec.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WorkoutsCount)
	assert.Equal(t, 1, stats.ClientsCount)
	require.NotNil(t, stats.LastBackup)
	assert.True(t, importTime.Equal(*stats.LastBackup))
}

func TestImport_ReplacesEverythingIncludingProfile(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	codec := backup.NewCodec(store).WithClock(func() time.Time { return importTime })

	env, err := codec.DecodeNow([]byte(`{
		"workouts": [
			{"id": "a", "coachName": "Sam", "clientName": "Carla", "workoutType": "Cutting", "duration": 6, "weeks": []},
			{"id": "b", "coachName": "Sam", "clientName": "Dan", "workoutType": "Endurance", "duration": 3}
		],
		"clients": [{"id": "c", "name": "Carla"}]
	}`))
	require.NoError(t, err)
	require.NoError(t, codec.Import(ctx, env))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Workouts, 2)
	assert.Len(t, snap.Clients, 1)
	assert.Nil(t, snap.CoachProfile)

	// missing dates fall back to the import time
	w, err := store.Workouts().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, importTime.Equal(w.CreatedAt))
}

func TestDecode_ShapeChecks(t *testing.T) {
	cases := map[string]string{
		"array top level":     `[]`,
		"null top level":      `null`,
		"not json":            `{"workouts": [`,
		"workouts null":       `{"workouts": null}`,
		"workouts object":     `{"workouts": {}}`,
		"clients string":      `{"clients": "x"}`,
		"workout item scalar": `{"workouts": [1]}`,
		"profile array":       `{"coachProfile": [{"name": "Sam"}]}`,
		"profile string":      `{"coachProfile": "Sam"}`,
		"bad date":            `{"clients": [{"id": "c", "name": "C", "createdAt": "yesterday"}]}`,
		"wrong field type":    `{"workouts": [{"id": "a", "duration": "long"}]}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := backup.Decode([]byte(input), importTime)
			assert.ErrorIs(t, err, backup.ErrInvalidFormat)
		})
	}
}

func TestDecode_AcceptsEmptyAndNullProfile(t *testing.T) {
	env, err := backup.Decode([]byte(`{}`), importTime)
	require.NoError(t, err)
	assert.Empty(t, env.Workouts)
	assert.Nil(t, env.CoachProfile)

	env, err = backup.Decode([]byte(`{"coachProfile": null, "clients": []}`), importTime)
	require.NoError(t, err)
	assert.Nil(t, env.CoachProfile)

	env, err = backup.Decode([]byte(`{"coachProfile": {"id": "p", "name": "Sam"}}`), importTime)
	require.NoError(t, err)
	require.NotNil(t, env.CoachProfile)
	assert.Equal(t, "Sam", env.CoachProfile.Name)
}

func TestDecode_DateForms(t *testing.T) {
	env, err := backup.Decode([]byte(`{"clients": [
		{"id": "1", "name": "A", "createdAt": "2024-03-01T10:15:00.000Z"},
		{"id": "2", "name": "B", "createdAt": "2024-03-01"},
		{"id": "3", "name": "C", "createdAt": 1709288100000},
		{"id": "4", "name": "D"}
	]}`), importTime)
	require.NoError(t, err)
	require.Len(t, env.Clients, 4)

	assert.True(t, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC).Equal(env.Clients[0].CreatedAt))
	assert.True(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Equal(env.Clients[1].CreatedAt))
	assert.True(t, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC).Equal(env.Clients[2].CreatedAt))
	assert.True(t, importTime.Equal(env.Clients[3].CreatedAt))
}

func TestDecode_MigratesLegacyWorkouts(t *testing.T) {
	env, err := backup.Decode([]byte(`{"workouts": [{
		"id": "w", "coachName": "Sam", "clientName": "Alice", "workoutType": "Strength", "duration": 2,
		"createdAt": "2023-05-01T00:00:00Z", "updatedAt": "2023-05-02T00:00:00Z",
		"weeks": [{"id": "wk", "number": 1, "exercises": [{"id": "e", "name": "Squat", "sets": "4", "reps": "8"}]}]
	}]}`), importTime)
	require.NoError(t, err)
	require.Len(t, env.Workouts, 1)
	week := env.Workouts[0].Weeks[0]
	require.Len(t, week.Days, 1)
	assert.Equal(t, "Day 1", week.Days[0].Name)
	assert.Equal(t, "Squat", week.Days[0].Exercises[0].Name)
	assert.NoError(t, domain.Validate(&env.Workouts[0]))
}

func TestEncodeAndFilename(t *testing.T) {
	data, err := backup.Encode(&backup.Envelope{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"workouts": [], "clients": [], "coachProfile": null}`, string(data))
	assert.Contains(t, string(data), "\n  \"workouts\"")
	assert.Equal(t, "backup-2026-10-18.json", backup.Filename(importTime))
}

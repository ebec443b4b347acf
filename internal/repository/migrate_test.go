package repository_test

import (
	"encoding/json"
	"testing"

	"alcyxob/fitplan/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyWorkout = `{
	"id": "w1",
	"coachName": "Sam",
	"clientName": "Alice",
	"workoutType": "Strength",
	"duration": 4,
	"weeks": [
		{"id": "wk1", "number": 1, "exercises": [
			{"id": "e1", "name": "Squat", "sets": "4", "reps": "8"},
			{"id": "e2", "name": "Bench", "sets": "3", "reps": "10", "rest": "90s"}
		]},
		{"id": "wk2", "number": 2, "notes": "deload", "days": [
			{"id": "d1", "name": "Day 1", "exercises": [{"id": "e3", "name": "Row", "sets": "3", "reps": "12"}]}
		]}
	]
}`

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestMigrateWorkoutDocument_WrapsLegacyExercises(t *testing.T) {
	doc := decode(t, legacyWorkout)
	changed := repository.MigrateWorkoutDocument(doc)
	require.True(t, changed)

	weeks := doc["weeks"].([]any)
	week1 := weeks[0].(map[string]any)
	_, stillHasExercises := week1["exercises"]
	assert.False(t, stillHasExercises)
	assert.Equal(t, "", week1["notes"])

	days := week1["days"].([]any)
	require.Len(t, days, 1)
	day := days[0].(map[string]any)
	assert.Equal(t, "Day 1", day["name"])
	assert.Equal(t, "", day["notes"])
	assert.NotEmpty(t, day["id"])

	exercises := day["exercises"].([]any)
	require.Len(t, exercises, 2)
	assert.Equal(t, "", exercises[0].(map[string]any)["rest"])
	assert.Equal(t, "90s", exercises[1].(map[string]any)["rest"])

	week2 := weeks[1].(map[string]any)
	assert.Equal(t, "deload", week2["notes"])
	day2 := week2["days"].([]any)[0].(map[string]any)
	assert.Equal(t, "", day2["notes"])
	assert.Equal(t, "", day2["exercises"].([]any)[0].(map[string]any)["rest"])
}

func TestMigrateWorkoutDocument_Idempotent(t *testing.T) {
	once := decode(t, legacyWorkout)
	repository.MigrateWorkoutDocument(once)
	onceBytes, err := json.Marshal(once)
	require.NoError(t, err)

	twice := decode(t, legacyWorkout)
	repository.MigrateWorkoutDocument(twice)
	assert.False(t, repository.MigrateWorkoutDocument(twice))
	twiceBytes, err := json.Marshal(twice)
	require.NoError(t, err)

	assert.Equal(t, string(onceBytes), string(twiceBytes))
}

func TestMigrateWorkoutDocument_CurrentShapeUntouched(t *testing.T) {
	doc := decode(t, `{"id":"w","weeks":[{"id":"wk","number":1,"notes":"","days":[{"id":"d","name":"Day 1","notes":"","exercises":[{"id":"e","name":"x","sets":"1","reps":"1","rest":""}]}]}]}`)
	assert.False(t, repository.MigrateWorkoutDocument(doc))
}

func TestMigrateWorkoutDocument_NoWeeks(t *testing.T) {
	doc := decode(t, `{"id":"w"}`)
	assert.False(t, repository.MigrateWorkoutDocument(doc))
}

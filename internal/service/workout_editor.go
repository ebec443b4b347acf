package service

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/planner"
	"context"
	"encoding/json"
	"fmt"
)

// edit runs one structural change inside a planner session and saves it.
// fn returns the id of the node it created, if any.
func (s *workoutService) edit(ctx context.Context, workoutID string, fn func(w *domain.Workout, e *planner.Editor) (string, error)) (*EditResult, error) {
	sess, err := planner.OpenSession(ctx, s.workoutRepo, s.editor, workoutID)
	if err != nil {
		return nil, mapRepoError(err, ErrWorkoutNotFound)
	}
	var nodeID string
	err = sess.Edit(func(w *domain.Workout, e *planner.Editor) error {
		id, err := fn(w, e)
		nodeID = id
		return err
	})
	if err != nil {
		return nil, mapEditError(err)
	}
	if err := sess.Flush(ctx); err != nil {
		return nil, mapRepoError(err, ErrWorkoutNotFound)
	}
	w := sess.Workout().Clone()
	return &EditResult{Workout: &w, NodeID: nodeID}, nil
}

func (s *workoutService) AddWeek(ctx context.Context, workoutID string) (*EditResult, error) {
	return s.edit(ctx, workoutID, func(w *domain.Workout, e *planner.Editor) (string, error) {
		return e.AddWeek(w).ID, nil
	})
}

func (s *workoutService) RemoveWeek(ctx context.Context, workoutID, weekID string) (*EditResult, error) {
	return s.edit(ctx, workoutID, func(w *domain.Workout, _ *planner.Editor) (string, error) {
		return "", planner.RemoveWeek(w, weekID)
	})
}

func (s *workoutService) AddDay(ctx context.Context, workoutID, weekID string) (*EditResult, error) {
	return s.edit(ctx, workoutID, func(w *domain.Workout, e *planner.Editor) (string, error) {
		week, err := planner.FindWeek(w, weekID)
		if err != nil {
			return "", err
		}
		return e.AddDay(week).ID, nil
	})
}

func (s *workoutService) RemoveDay(ctx context.Context, workoutID, weekID, dayID string) (*EditResult, error) {
	return s.edit(ctx, workoutID, func(w *domain.Workout, _ *planner.Editor) (string, error) {
		week, err := planner.FindWeek(w, weekID)
		if err != nil {
			return "", err
		}
		return "", planner.RemoveDay(week, dayID)
	})
}

// AddExercise appends an exercise and applies the initial field values to it.
// The saved plan must validate, so name, sets and reps are expected here.
func (s *workoutService) AddExercise(ctx context.Context, workoutID, weekID, dayID string, initial map[string]json.RawMessage) (*EditResult, error) {
	return s.edit(ctx, workoutID, func(w *domain.Workout, e *planner.Editor) (string, error) {
		day, err := findDay(w, weekID, dayID)
		if err != nil {
			return "", err
		}
		ex := e.AddExercise(day)
		for field, value := range initial {
			if err := planner.UpdateField(ex, field, value); err != nil {
				return "", err
			}
		}
		return ex.ID, nil
	})
}

func (s *workoutService) RemoveExercise(ctx context.Context, workoutID, weekID, dayID, exerciseID string) (*EditResult, error) {
	return s.edit(ctx, workoutID, func(w *domain.Workout, _ *planner.Editor) (string, error) {
		day, err := findDay(w, weekID, dayID)
		if err != nil {
			return "", err
		}
		return "", planner.RemoveExercise(day, exerciseID)
	})
}

// UpdateField sets one field on the workout or one of its nodes.
func (s *workoutService) UpdateField(ctx context.Context, workoutID string, update FieldUpdate) (*EditResult, error) {
	return s.edit(ctx, workoutID, func(w *domain.Workout, _ *planner.Editor) (string, error) {
		target, err := resolveTarget(w, update)
		if err != nil {
			return "", err
		}
		return "", planner.UpdateField(target, update.Field, update.Value)
	})
}

func resolveTarget(w *domain.Workout, update FieldUpdate) (any, error) {
	if update.Target == "workout" {
		return w, nil
	}
	week, err := planner.FindWeek(w, update.WeekID)
	if err != nil {
		return nil, err
	}
	switch update.Target {
	case "week":
		return week, nil
	case "day", "exercise":
		day, err := planner.FindDay(week, update.DayID)
		if err != nil {
			return nil, err
		}
		if update.Target == "day" {
			return day, nil
		}
		return planner.FindExercise(day, update.ExerciseID)
	default:
		return nil, fmt.Errorf("target %q: %w", update.Target, planner.ErrUnknownField)
	}
}

func findDay(w *domain.Workout, weekID, dayID string) (*domain.Day, error) {
	week, err := planner.FindWeek(w, weekID)
	if err != nil {
		return nil, err
	}
	return planner.FindDay(week, dayID)
}

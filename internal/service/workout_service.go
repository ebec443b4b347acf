package service

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/layout"
	"alcyxob/fitplan/internal/planner"
	"alcyxob/fitplan/internal/repository"
	"alcyxob/fitplan/internal/storage"
	"context"
	"encoding/json"
	"strings"

	log "github.com/sirupsen/logrus"
)

// WorkoutFilter narrows ListWorkouts. Empty fields match everything.
type WorkoutFilter struct {
	// Query is matched case-insensitively against name, client, coach and type.
	Query string
	Type  string
}

// FieldUpdate addresses one field of one node in a workout tree.
type FieldUpdate struct {
	Target     string `json:"target" binding:"required,oneof=workout week day exercise"`
	WeekID     string `json:"weekId"`
	DayID      string `json:"dayId"`
	ExerciseID string `json:"exerciseId"`
	Field      string `json:"field" binding:"required"`
	// Value is raw JSON; null clears the field.
	Value json.RawMessage `json:"value"`
}

// EditResult is the saved workout plus the id of the node an add created.
type EditResult struct {
	Workout *domain.Workout `json:"workout"`
	NodeID  string          `json:"nodeId,omitempty"`
}

type WorkoutService interface {
	ListWorkouts(ctx context.Context, filter WorkoutFilter) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, id string) (*domain.Workout, error)
	CreateWorkout(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, id string, patch domain.WorkoutPatch) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
	DuplicateWorkout(ctx context.Context, id string) (*domain.Workout, error)
	ListWorkoutsByClient(ctx context.Context, clientID string) ([]domain.Workout, error)

	// Plan editing. Every call loads the workout, applies one edit and saves it.
	AddWeek(ctx context.Context, workoutID string) (*EditResult, error)
	RemoveWeek(ctx context.Context, workoutID, weekID string) (*EditResult, error)
	AddDay(ctx context.Context, workoutID, weekID string) (*EditResult, error)
	RemoveDay(ctx context.Context, workoutID, weekID, dayID string) (*EditResult, error)
	AddExercise(ctx context.Context, workoutID, weekID, dayID string, initial map[string]json.RawMessage) (*EditResult, error)
	RemoveExercise(ctx context.Context, workoutID, weekID, dayID, exerciseID string) (*EditResult, error)
	UpdateField(ctx context.Context, workoutID string, update FieldUpdate) (*EditResult, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
	clientRepo  repository.ClientRepository
	editor      *planner.Editor
	archive     storage.FileStorage // optional
}

// NewWorkoutService creates a new instance of workoutService. archive may be nil.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	clientRepo repository.ClientRepository,
	editor *planner.Editor,
	archive storage.FileStorage,
) WorkoutService {
	if editor == nil {
		editor = planner.NewEditor(nil)
	}
	return &workoutService{
		workoutRepo: workoutRepo,
		clientRepo:  clientRepo,
		editor:      editor,
		archive:     archive,
	}
}

func (s *workoutService) ListWorkouts(ctx context.Context, filter WorkoutFilter) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]domain.Workout, 0, len(workouts))
	for _, w := range workouts {
		if filter.Type != "" && w.WorkoutType != filter.Type {
			continue
		}
		if query != "" && !matchesQuery(&w, query) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func matchesQuery(w *domain.Workout, query string) bool {
	for _, field := range []string{w.DisplayName(), w.ClientName, w.CoachName, w.WorkoutType} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (s *workoutService) GetWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	w, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, ErrWorkoutNotFound)
	}
	return w, nil
}

// CreateWorkout validates and stores a new plan. Nodes without ids get one
// and weeks are numbered by position.
func (s *workoutService) CreateWorkout(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	s.editor.AssignMissingIDs(workout)
	planner.RenumberWeeks(workout)
	if err := domain.Validate(workout); err != nil {
		return nil, err
	}
	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"workout": workout.ID, "client": workout.ClientName}).Info("workout created")
	return workout, nil
}

// UpdateWorkout merges patch onto the stored plan. A patch carrying a version
// is rejected when that version is stale.
func (s *workoutService) UpdateWorkout(ctx context.Context, id string, patch domain.WorkoutPatch) (*domain.Workout, error) {
	existing, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, ErrWorkoutNotFound)
	}
	var expected int64
	if patch.Version != nil {
		expected = *patch.Version
		if expected != existing.Version {
			return nil, ErrVersionConflict
		}
	}

	patch.Apply(existing)
	if patch.Weeks != nil {
		s.editor.AssignMissingIDs(existing)
		planner.RenumberWeeks(existing)
	}
	if err := domain.Validate(existing); err != nil {
		return nil, err
	}
	if err := s.workoutRepo.Update(ctx, existing, expected); err != nil {
		return nil, mapRepoError(err, ErrWorkoutNotFound)
	}
	return existing, nil
}

// DeleteWorkout removes the plan and, when archiving is on, its archived PDF.
func (s *workoutService) DeleteWorkout(ctx context.Context, id string) error {
	existing, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, ErrWorkoutNotFound)
	}
	deleted, err := s.workoutRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWorkoutNotFound
	}
	if s.archive != nil {
		key := storage.PlanKey(id, layout.Filename(existing.ClientName))
		if err := s.archive.DeleteObject(ctx, key); err != nil {
			// the plan is gone either way
			log.Warnf("workout %s deleted but archived PDF %s was not: %v", id, key, err)
		}
	}
	return nil
}

// DuplicateWorkout stores a deep copy with fresh ids and "(Copy)" appended to
// the client name. The source is left untouched.
func (s *workoutService) DuplicateWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	source, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, ErrWorkoutNotFound)
	}
	dup := s.editor.Duplicate(*source)
	if err := s.workoutRepo.Create(ctx, &dup); err != nil {
		return nil, err
	}
	return &dup, nil
}

// ListWorkoutsByClient matches on the client's current name; workouts only
// hold a soft reference to clients.
func (s *workoutService) ListWorkoutsByClient(ctx context.Context, clientID string) ([]domain.Workout, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, mapRepoError(err, ErrClientNotFound)
	}
	return s.workoutRepo.GetByClientName(ctx, client.Name)
}

package planner

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/repository"
	"context"
	"fmt"
)

// Session is a working copy of one stored workout. Edits mark it dirty and
// nothing reaches the store until Flush.
type Session struct {
	repo    repository.WorkoutRepository
	editor  *Editor
	workout domain.Workout
	version int64
	dirty   bool
}

// OpenSession loads the workout and pins the version it was read at.
func OpenSession(ctx context.Context, repo repository.WorkoutRepository, editor *Editor, workoutID string) (*Session, error) {
	w, err := repo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if editor == nil {
		editor = NewEditor(nil)
	}
	return &Session{repo: repo, editor: editor, workout: *w, version: w.Version}, nil
}

// Workout returns the working copy. Changes made through it directly must be
// followed by MarkDirty.
func (s *Session) Workout() *domain.Workout { return &s.workout }

func (s *Session) Editor() *Editor { return s.editor }

func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) MarkDirty() { s.dirty = true }

// Edit runs fn against the working copy and marks the session dirty when it succeeds.
func (s *Session) Edit(fn func(w *domain.Workout, e *Editor) error) error {
	if err := fn(&s.workout, s.editor); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Flush validates and persists the working copy if it changed. The write is
// rejected with repository.ErrConflict when someone else saved in between.
func (s *Session) Flush(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	if err := domain.Validate(&s.workout); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, &s.workout, s.version); err != nil {
		return fmt.Errorf("flush workout %s: %w", s.workout.ID, err)
	}
	s.version = s.workout.Version
	s.dirty = false
	return nil
}

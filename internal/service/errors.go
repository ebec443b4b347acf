package service

import (
	"alcyxob/fitplan/internal/planner"
	"alcyxob/fitplan/internal/repository"
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrClientNotFound       = errors.New("client not found")
	ErrCoachProfileNotFound = errors.New("coach profile not found")
	ErrNodeNotFound         = errors.New("week, day or exercise not found")
	ErrVersionConflict      = errors.New("workout was changed by someone else, reload and try again")
	ErrInvalidField         = errors.New("invalid field update")
)

// mapRepoError translates repository sentinels into service ones; notFound is
// the service error matching the entity being looked up.
func mapRepoError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrConflict):
		return ErrVersionConflict
	default:
		return err
	}
}

// mapEditError keeps the planner's detail message while exposing the service sentinel.
func mapEditError(err error) error {
	switch {
	case errors.Is(err, planner.ErrNodeNotFound):
		return fmt.Errorf("%w: %w", ErrNodeNotFound, err)
	case errors.Is(err, planner.ErrUnknownField), errors.Is(err, planner.ErrInvalidValue):
		return fmt.Errorf("%w: %w", ErrInvalidField, err)
	default:
		return err
	}
}

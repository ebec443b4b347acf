package repository

import (
	"alcyxob/fitplan/internal/domain" // Import our defined domain models
	"context"
	"time"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("version conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CurrentSchemaVersion is bumped whenever the stored document shape changes.
// Version 2 introduced Days between Weeks and Exercises.
const CurrentSchemaVersion = 2

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	// GetAll returns every workout, most recently updated first.
	GetAll(ctx context.Context) ([]domain.Workout, error)
	GetByID(ctx context.Context, id string) (*domain.Workout, error)
	GetByClientName(ctx context.Context, clientName string) ([]domain.Workout, error)
	// Create assigns the id, timestamps and version 1.
	Create(ctx context.Context, workout *domain.Workout) error
	// Update replaces the stored record, stamps UpdatedAt and bumps Version.
	// When expectedVersion > 0 and differs from the stored one, ErrConflict is returned.
	Update(ctx context.Context, workout *domain.Workout, expectedVersion int64) error
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// ClientRepository defines the interface for interacting with client data.
type ClientRepository interface {
	GetAll(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByName(ctx context.Context, name string) (*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CoachProfileRepository is a single-row table.
type CoachProfileRepository interface {
	// Get returns the current profile or ErrNotFound.
	Get(ctx context.Context) (*domain.CoachProfile, error)
	GetByID(ctx context.Context, id string) (*domain.CoachProfile, error)
	// Create clears the table and inserts profile with a fresh id.
	Create(ctx context.Context, profile *domain.CoachProfile) error
	Update(ctx context.Context, profile *domain.CoachProfile) error
}

// MigrationReport summarises a Migrate run.
type MigrationReport struct {
	FromVersion     int
	ToVersion       int
	WorkoutsChanged int
}

// DataStore covers whole-store operations.
type DataStore interface {
	Workouts() WorkoutRepository
	Clients() ClientRepository
	CoachProfiles() CoachProfileRepository

	Snapshot(ctx context.Context) (domain.Dataset, error)
	// ReplaceAll stages the dataset and swaps it in, replacing every table.
	ReplaceAll(ctx context.Context, data domain.Dataset) error
	ClearAll(ctx context.Context) error
	Migrate(ctx context.Context) (MigrationReport, error)

	LastBackupAt(ctx context.Context) (*time.Time, error)
	SetLastBackupAt(ctx context.Context, at time.Time) error

	Close(ctx context.Context) error
}

// Package local is the file-backed local store: three tables kept in memory and
// written to a single JSON snapshot after every committed change.
// An empty path keeps everything in memory only.
package local

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var _ repository.DataStore = (*Store)(nil)

// Store implements repository.DataStore.
type Store struct {
	mu   sync.RWMutex
	path string

	workouts     map[string]domain.Workout
	clients      map[string]domain.Client
	profile      *domain.CoachProfile
	lastBackupAt *time.Time

	schemaVersion int
	openMigration repository.MigrationReport

	now   func() time.Time
	newID func() string
}

// snapshotFile is the on-disk layout. Workouts stay raw until migrated.
type snapshotFile struct {
	SchemaVersion int                  `json:"schemaVersion"`
	Workouts      []json.RawMessage    `json:"workouts"`
	Clients       []domain.Client      `json:"clients"`
	CoachProfile  *domain.CoachProfile `json:"coachProfile"`
	LastBackupAt  *time.Time           `json:"lastBackupAt,omitempty"`
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewMemoryStore returns a store that never touches disk.
func NewMemoryStore(opts ...Option) *Store {
	s, _ := Open("", opts...)
	return s
}

// Open loads the snapshot at path (if it exists), migrating legacy workouts.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:          path,
		workouts:      map[string]domain.Workout{},
		clients:       map[string]domain.Client{},
		schemaVersion: repository.CurrentSchemaVersion,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.openMigration = repository.MigrationReport{
		FromVersion: repository.CurrentSchemaVersion,
		ToVersion:   repository.CurrentSchemaVersion,
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("local store: no snapshot at %s, starting empty", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if err := s.load(data); err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	if s.openMigration.WorkoutsChanged > 0 || s.openMigration.FromVersion < repository.CurrentSchemaVersion {
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		log.Infof("local store: migrated schema v%d -> v%d (%d workouts changed)",
			s.openMigration.FromVersion, s.openMigration.ToVersion, s.openMigration.WorkoutsChanged)
	}
	return s, nil
}

func (s *Store) load(data []byte) error {
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	// Files written before versioning existed carry no schemaVersion.
	from := snap.SchemaVersion
	if from == 0 {
		from = 1
	}
	s.openMigration.FromVersion = from

	for _, raw := range snap.Workouts {
		w, changed, err := decodeWorkout(raw, from < repository.CurrentSchemaVersion)
		if err != nil {
			return err
		}
		if changed {
			s.openMigration.WorkoutsChanged++
		}
		s.workouts[w.ID] = w
	}
	for _, c := range snap.Clients {
		s.clients[c.ID] = c
	}
	if snap.CoachProfile != nil {
		p := snap.CoachProfile.Clone()
		p.ApplyDefaults()
		s.profile = &p
	}
	s.lastBackupAt = snap.LastBackupAt
	s.schemaVersion = repository.CurrentSchemaVersion
	return nil
}

// decodeWorkout optionally runs the document migration before typed decoding.
func decodeWorkout(raw json.RawMessage, migrate bool) (domain.Workout, bool, error) {
	var w domain.Workout
	if !migrate {
		err := json.Unmarshal(raw, &w)
		return w, false, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return w, false, err
	}
	changed := repository.MigrateWorkoutDocument(doc)
	migrated, err := json.Marshal(doc)
	if err != nil {
		return w, false, err
	}
	err = json.Unmarshal(migrated, &w)
	return w, changed, err
}

// persistLocked writes the snapshot atomically. Callers hold s.mu.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	return writeSnapshot(s.path, s.schemaVersion, s.workouts, s.clients, s.profile, s.lastBackupAt)
}

func writeSnapshot(path string, version int, workouts map[string]domain.Workout, clients map[string]domain.Client, profile *domain.CoachProfile, lastBackupAt *time.Time) error {
	snap := snapshotFile{
		SchemaVersion: version,
		Workouts:      make([]json.RawMessage, 0, len(workouts)),
		Clients:       sortedClients(clients),
		CoachProfile:  profile,
		LastBackupAt:  lastBackupAt,
	}
	for _, w := range sortedWorkouts(workouts) {
		raw, err := json.Marshal(w)
		if err != nil {
			return err
		}
		snap.Workouts = append(snap.Workouts, raw)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("swap snapshot: %w", err)
	}
	return nil
}

func (s *Store) Workouts() repository.WorkoutRepository {
	return &workoutRepo{s: s}
}

func (s *Store) Clients() repository.ClientRepository {
	return &clientRepo{s: s}
}

func (s *Store) CoachProfiles() repository.CoachProfileRepository {
	return &coachProfileRepo{s: s}
}

// Snapshot returns deep copies of every table.
func (s *Store) Snapshot(ctx context.Context) (domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := domain.Dataset{
		Workouts: sortedWorkouts(s.workouts),
		Clients:  sortedClients(s.clients),
	}
	if s.profile != nil {
		p := s.profile.Clone()
		data.CoachProfile = &p
	}
	return data, nil
}

// ReplaceAll builds the new tables aside, writes them to disk and only then
// swaps them in, so a failure leaves the previous content untouched.
func (s *Store) ReplaceAll(ctx context.Context, data domain.Dataset) error {
	workouts := make(map[string]domain.Workout, len(data.Workouts))
	for _, w := range data.Workouts {
		if w.ID == "" {
			return fmt.Errorf("workout without id in dataset")
		}
		if _, dup := workouts[w.ID]; dup {
			return fmt.Errorf("duplicate workout id %q in dataset", w.ID)
		}
		clone := w.Clone()
		if clone.Version == 0 {
			clone.Version = 1
		}
		workouts[w.ID] = clone
	}
	clients := make(map[string]domain.Client, len(data.Clients))
	for _, c := range data.Clients {
		if c.ID == "" {
			return fmt.Errorf("client without id in dataset")
		}
		if _, dup := clients[c.ID]; dup {
			return fmt.Errorf("duplicate client id %q in dataset", c.ID)
		}
		clients[c.ID] = c
	}
	var profile *domain.CoachProfile
	if data.CoachProfile != nil {
		p := data.CoachProfile.Clone()
		if p.ID == "" {
			p.ID = s.newID()
		}
		p.ApplyDefaults()
		profile = &p
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path != "" {
		if err := writeSnapshot(s.path, s.schemaVersion, workouts, clients, profile, s.lastBackupAt); err != nil {
			return err
		}
	}
	s.workouts = workouts
	s.clients = clients
	s.profile = profile
	return nil
}

// ClearAll empties every table.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.ReplaceAll(ctx, domain.Dataset{})
}

// Migrate reports the migration performed when the snapshot was opened;
// in-memory data is always at the current schema version.
func (s *Store) Migrate(ctx context.Context) (repository.MigrationReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := s.openMigration
	s.openMigration = repository.MigrationReport{
		FromVersion: repository.CurrentSchemaVersion,
		ToVersion:   repository.CurrentSchemaVersion,
	}
	return report, nil
}

func (s *Store) LastBackupAt(ctx context.Context) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastBackupAt == nil {
		return nil, nil
	}
	at := *s.lastBackupAt
	return &at, nil
}

func (s *Store) SetLastBackupAt(ctx context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.lastBackupAt
	s.lastBackupAt = &at
	if err := s.persistLocked(); err != nil {
		s.lastBackupAt = prev
		return err
	}
	return nil
}

// Close flushes the snapshot one last time.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func sortedWorkouts(m map[string]domain.Workout) []domain.Workout {
	out := make([]domain.Workout, 0, len(m))
	for _, w := range m {
		out = append(out, w.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortedClients(m map[string]domain.Client) []domain.Client {
	out := make([]domain.Client, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// internal/repository/mongo/store.go
package mongo

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/repository"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	metaCollectionName = "meta"
	metaDocumentID     = "store"
	stagingSuffix      = "_staging"
)

var _ repository.DataStore = (*Store)(nil)

// metaDocument tracks the schema version and the last export time.
type metaDocument struct {
	ID            string     `bson:"_id"`
	SchemaVersion int        `bson:"schemaVersion"`
	LastBackupAt  *time.Time `bson:"lastBackupAt,omitempty"`
}

// Store is the MongoDB-backed repository.DataStore.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	workouts repository.WorkoutRepository
	clients  repository.ClientRepository
	profiles repository.CoachProfileRepository
}

// NewStore wires the repositories over db. Close disconnects client when it is non-nil.
func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:   client,
		db:       db,
		workouts: NewMongoWorkoutRepository(db),
		clients:  NewMongoClientRepository(db),
		profiles: NewMongoCoachProfileRepository(db),
	}
}

func (s *Store) Workouts() repository.WorkoutRepository {
	return s.workouts
}

func (s *Store) Clients() repository.ClientRepository {
	return s.clients
}

func (s *Store) CoachProfiles() repository.CoachProfileRepository {
	return s.profiles
}

// EnsureIndexes creates every index the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := EnsureWorkoutIndexes(ctx, s.db.Collection(workoutCollectionName)); err != nil {
		return fmt.Errorf("workout indexes: %w", err)
	}
	if err := EnsureClientIndexes(ctx, s.db.Collection(clientCollectionName)); err != nil {
		return fmt.Errorf("client indexes: %w", err)
	}
	return nil
}

func (s *Store) Snapshot(ctx context.Context) (domain.Dataset, error) {
	var data domain.Dataset
	var err error
	if data.Workouts, err = s.workouts.GetAll(ctx); err != nil {
		return data, err
	}
	if data.Clients, err = s.clients.GetAll(ctx); err != nil {
		return data, err
	}
	profile, err := s.profiles.Get(ctx)
	switch {
	case err == nil:
		data.CoachProfile = profile
	case !errors.Is(err, repository.ErrNotFound):
		return data, err
	}
	return data, nil
}

// ReplaceAll fills *_staging collections and renames each over its live
// counterpart with dropTarget. It is atomic per collection only: a failure
// while staging leaves the live collections untouched, but a failure after
// the first rename leaves the store mixing old and new collections. The
// local store, by contrast, swaps all tables at once.
func (s *Store) ReplaceAll(ctx context.Context, data domain.Dataset) error {
	workouts := make([]any, 0, len(data.Workouts))
	for _, w := range data.Workouts {
		if w.Version == 0 {
			w.Version = 1
		}
		workouts = append(workouts, w)
	}
	clients := make([]any, 0, len(data.Clients))
	for _, c := range data.Clients {
		clients = append(clients, c)
	}
	var profiles []any
	if data.CoachProfile != nil {
		p := data.CoachProfile.Clone()
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.ApplyDefaults()
		profiles = append(profiles, p)
	}

	staged := map[string][]any{
		workoutCollectionName:      workouts,
		clientCollectionName:       clients,
		coachProfileCollectionName: profiles,
	}
	order := []string{workoutCollectionName, clientCollectionName, coachProfileCollectionName}

	for _, name := range order {
		if err := s.stage(ctx, name+stagingSuffix, staged[name]); err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}
	}
	for _, name := range order {
		if err := s.rename(ctx, name+stagingSuffix, name); err != nil {
			return fmt.Errorf("swap %s: %w", name, err)
		}
	}
	// renamed collections come without the secondary indexes
	return s.EnsureIndexes(ctx)
}

func (s *Store) stage(ctx context.Context, name string, docs []any) error {
	coll := s.db.Collection(name)
	if err := coll.Drop(ctx); err != nil {
		return err
	}
	if err := s.db.CreateCollection(ctx, name); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func (s *Store) rename(ctx context.Context, from, to string) error {
	cmd := bson.D{
		{Key: "renameCollection", Value: s.db.Name() + "." + from},
		{Key: "to", Value: s.db.Name() + "." + to},
		{Key: "dropTarget", Value: true},
	}
	return s.db.Client().Database("admin").RunCommand(ctx, cmd).Err()
}

func (s *Store) ClearAll(ctx context.Context) error {
	return s.ReplaceAll(ctx, domain.Dataset{})
}

func (s *Store) meta(ctx context.Context) (*metaDocument, error) {
	var meta metaDocument
	err := s.db.Collection(metaCollectionName).FindOne(ctx, bson.M{"_id": metaDocumentID}).Decode(&meta)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) setMeta(ctx context.Context, fields bson.M) error {
	_, err := s.db.Collection(metaCollectionName).UpdateOne(ctx,
		bson.M{"_id": metaDocumentID},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	return err
}

// Migrate upgrades stored workouts when the recorded schema version is behind.
// A database without a meta document predates versioning and counts as version 1.
func (s *Store) Migrate(ctx context.Context) (repository.MigrationReport, error) {
	report := repository.MigrationReport{ToVersion: repository.CurrentSchemaVersion}
	meta, err := s.meta(ctx)
	if err != nil {
		return report, err
	}
	report.FromVersion = 1
	if meta != nil && meta.SchemaVersion > 0 {
		report.FromVersion = meta.SchemaVersion
	}
	if report.FromVersion >= repository.CurrentSchemaVersion {
		report.FromVersion = repository.CurrentSchemaVersion
		return report, nil
	}

	coll := s.db.Collection(workoutCollectionName)
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return report, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		id, doc, changed, err := migrateRaw(cursor.Current)
		if err != nil {
			return report, fmt.Errorf("migrate workout %v: %w", id, err)
		}
		if !changed {
			continue
		}
		if _, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc); err != nil {
			return report, fmt.Errorf("rewrite workout %v: %w", id, err)
		}
		report.WorkoutsChanged++
	}
	if err := cursor.Err(); err != nil {
		return report, err
	}

	if err := s.setMeta(ctx, bson.M{"schemaVersion": repository.CurrentSchemaVersion}); err != nil {
		return report, err
	}
	log.Infof("mongo store: migrated schema v%d -> v%d (%d workouts changed)",
		report.FromVersion, report.ToVersion, report.WorkoutsChanged)
	return report, nil
}

// migrateRaw runs the document migration through relaxed Extended JSON so
// the same map-based rules serve both backends.
func migrateRaw(raw bson.Raw) (any, bson.M, bool, error) {
	id := raw.Lookup("_id")
	ext, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return id, nil, false, err
	}
	dec := json.NewDecoder(bytes.NewReader(ext))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return id, nil, false, err
	}
	if !repository.MigrateWorkoutDocument(doc) {
		return id, nil, false, nil
	}
	migrated, err := json.Marshal(doc)
	if err != nil {
		return id, nil, false, err
	}
	var out bson.M
	if err := bson.UnmarshalExtJSON(migrated, false, &out); err != nil {
		return id, nil, false, err
	}
	return out["_id"], out, true, nil
}

func (s *Store) LastBackupAt(ctx context.Context) (*time.Time, error) {
	meta, err := s.meta(ctx)
	if err != nil || meta == nil {
		return nil, err
	}
	return meta.LastBackupAt, nil
}

func (s *Store) SetLastBackupAt(ctx context.Context, at time.Time) error {
	return s.setMeta(ctx, bson.M{"lastBackupAt": at.UTC()})
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return DisconnectDB(s.client)
}

// internal/repository/mongo/workout_repo.go
package mongo

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// newestFirst is the listing order shared by every workout query.
var newestFirst = options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})

func (r *mongoWorkoutRepository) GetAll(ctx context.Context) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{})
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByClientName uses the clientName index.
func (r *mongoWorkoutRepository) GetByClientName(ctx context.Context, clientName string) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{"clientName": clientName})
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M) ([]domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	workout.ID = uuid.NewString()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	workout.Version = 1

	_, err := r.collection.InsertOne(ctx, workout)
	return err
}

// Update replaces the whole document. The filter pins the version read just
// before, so a concurrent writer turns into ErrConflict instead of a lost update.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout, expectedVersion int64) error {
	existing, err := r.GetByID(ctx, workout.ID)
	if err != nil {
		return err
	}
	if expectedVersion > 0 && expectedVersion != existing.Version {
		return repository.ErrConflict
	}

	updated := *workout
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	updated.Version = existing.Version + 1

	filter := bson.M{"_id": workout.ID, "version": existing.Version}
	result, err := r.collection.ReplaceOne(ctx, filter, updated)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrConflict
	}
	*workout = updated
	return nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// secondary lookup by client
			Keys:    bson.D{{Key: "clientName", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

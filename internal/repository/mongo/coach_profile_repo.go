// internal/repository/mongo/coach_profile_repo.go
package mongo

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const coachProfileCollectionName = "coach_profile"

// mongoCoachProfileRepository keeps at most one document in its collection.
type mongoCoachProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoCoachProfileRepository(db *mongo.Database) repository.CoachProfileRepository {
	return &mongoCoachProfileRepository{
		collection: db.Collection(coachProfileCollectionName),
	}
}

func (r *mongoCoachProfileRepository) Get(ctx context.Context) (*domain.CoachProfile, error) {
	return r.findOne(ctx, bson.M{})
}

func (r *mongoCoachProfileRepository) GetByID(ctx context.Context, id string) (*domain.CoachProfile, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoCoachProfileRepository) findOne(ctx context.Context, filter bson.M) (*domain.CoachProfile, error) {
	var profile domain.CoachProfile
	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	profile.ApplyDefaults()
	return &profile, nil
}

// Create clears the collection before inserting, so the new profile never
// inherits fields from the old one.
func (r *mongoCoachProfileRepository) Create(ctx context.Context, profile *domain.CoachProfile) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	profile.ID = uuid.NewString()
	profile.ApplyDefaults()
	_, err := r.collection.InsertOne(ctx, profile)
	return err
}

func (r *mongoCoachProfileRepository) Update(ctx context.Context, profile *domain.CoachProfile) error {
	profile.ApplyDefaults()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

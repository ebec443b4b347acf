// internal/repository/mongo/client_repo.go
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

const clientCollectionName = "clients"

// mongoClientRepository implements repository.ClientRepository
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new Client repository.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

func (r *mongoClientRepository) GetAll(ctx context.Context) ([]domain.Client, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []domain.Client{}
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *mongoClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

// GetByName returns the oldest client with exactly this name.
func (r *mongoClientRepository) GetByName(ctx context.Context, name string) (*domain.Client, error) {
	oldest := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.findOne(ctx, bson.M{"name": name}, oldest)
}

func (r *mongoClientRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.Client, error) {
	var client domain.Client
	var err error
	if opts != nil {
		err = r.collection.FindOne(ctx, filter, opts).Decode(&client)
	} else {
		err = r.collection.FindOne(ctx, filter).Decode(&client)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) error {
	client.ID = uuid.NewString()
	client.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, client)
	return err
}

// Update keeps the stored createdAt.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	existing, err := r.GetByID(ctx, client.ID)
	if err != nil {
		return err
	}
	client.CreatedAt = existing.CreatedAt

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": client.ID}, client)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoClientRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// EnsureClientIndexes creates the name lookup index.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index(),
	})
	return err
}

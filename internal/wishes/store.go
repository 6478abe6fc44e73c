package wishes

import (
	"context"
	"errors"
	"fmt"

	"github.com/evergreenbyte/keepsake/internal/apperr"
	"github.com/evergreenbyte/keepsake/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "wishes"

// Store abstracts wish persistence.
type Store interface {
	Insert(ctx context.Context, wish Wish) (Wish, error)
	List(ctx context.Context) ([]Wish, error)
	Replace(ctx context.Context, id primitive.ObjectID, name, message string) (Wish, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoStore persists wishes in the wishes collection.
type MongoStore struct {
	manager *database.Manager
}

// NewMongoStore binds a store to the connection manager.
func NewMongoStore(manager *database.Manager) *MongoStore {
	return &MongoStore{manager: manager}
}

func (s *MongoStore) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := s.manager.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(collectionName), nil
}

func (s *MongoStore) Insert(ctx context.Context, wish Wish) (Wish, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return Wish{}, err
	}

	result, err := coll.InsertOne(ctx, wish)
	if err != nil {
		return Wish{}, fmt.Errorf("inserting wish: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		wish.ID = id
	}
	return wish, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Wish, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("listing wishes: %w", err)
	}

	listed := make([]Wish, 0)
	if err := cursor.All(ctx, &listed); err != nil {
		return nil, fmt.Errorf("decoding wishes: %w", err)
	}
	return listed, nil
}

func (s *MongoStore) Replace(ctx context.Context, id primitive.ObjectID, name, message string) (Wish, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return Wish{}, err
	}

	var updated Wish
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "message": message}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Wish{}, apperr.ErrNotFound
	}
	if err != nil {
		return Wish{}, fmt.Errorf("updating wish: %w", err)
	}
	return updated, nil
}

func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	err = coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting wish: %w", err)
	}
	return nil
}

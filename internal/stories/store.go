package stories

import (
	"context"
	"fmt"

	"github.com/evergreenbyte/keepsake/internal/apperr"
	"github.com/evergreenbyte/keepsake/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "stories"

// Store abstracts story persistence.
type Store interface {
	Insert(ctx context.Context, story Story) (Story, error)
	List(ctx context.Context) ([]Story, error)
	MarkNeedsRepair(ctx context.Context, id primitive.ObjectID) error
}

// MongoStore persists stories in the stories collection.
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

func (s *MongoStore) Insert(ctx context.Context, story Story) (Story, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return Story{}, err
	}

	result, err := coll.InsertOne(ctx, story)
	if err != nil {
		return Story{}, fmt.Errorf("inserting story: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		story.ID = id
	}
	return story, nil
}

// List returns every story ordered by event date descending.
func (s *MongoStore) List(ctx context.Context) ([]Story, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}

	listed := make([]Story, 0)
	if err := cursor.All(ctx, &listed); err != nil {
		return nil, fmt.Errorf("decoding stories: %w", err)
	}
	return listed, nil
}

// MarkNeedsRepair flags a story whose photo linking did not complete.
func (s *MongoStore) MarkNeedsRepair(ctx context.Context, id primitive.ObjectID) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	result, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"needsRepair": true}},
	)
	if err != nil {
		return fmt.Errorf("marking story %s for repair: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

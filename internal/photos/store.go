package photos

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

const collectionName = "photos"

// Store abstracts photo persistence.
type Store interface {
	Save(ctx context.Context, photo Photo) error
	UpdateEffects(ctx context.Context, publicID string, effects Effects) (Photo, error)
	AttachStory(ctx context.Context, publicIDs []string, storyID primitive.ObjectID) (int64, error)
	ListByStories(ctx context.Context, storyIDs []primitive.ObjectID) ([]Photo, error)
}

// MongoStore persists photo records in the photos collection, keyed by the
// CDN public identifier.
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

// Save upserts a photo record by public identifier. Re-saving an already
// known public identifier leaves the existing record untouched.
func (s *MongoStore) Save(ctx context.Context, photo Photo) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	_, err = coll.UpdateOne(ctx,
		bson.M{"public_id": photo.PublicID},
		bson.M{"$setOnInsert": photo},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving photo %s: %w", photo.PublicID, err)
	}
	return nil
}

// UpdateEffects overwrites the effects sub-document in a single atomic
// update and returns the updated record.
func (s *MongoStore) UpdateEffects(ctx context.Context, publicID string, effects Effects) (Photo, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return Photo{}, err
	}

	var updated Photo
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"public_id": publicID},
		bson.M{"$set": bson.M{"effects": effects}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Photo{}, apperr.ErrNotFound
	}
	if err != nil {
		return Photo{}, fmt.Errorf("updating effects for %s: %w", publicID, err)
	}
	return updated, nil
}

// AttachStory points every photo whose public identifier is listed at the
// given story. Returns the number of records updated.
func (s *MongoStore) AttachStory(ctx context.Context, publicIDs []string, storyID primitive.ObjectID) (int64, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return 0, err
	}

	result, err := coll.UpdateMany(ctx,
		bson.M{"public_id": bson.M{"$in": publicIDs}},
		bson.M{"$set": bson.M{"story": storyID}},
	)
	if err != nil {
		return 0, fmt.Errorf("linking photos to story %s: %w", storyID.Hex(), err)
	}
	return result.ModifiedCount, nil
}

// ListByStories fetches photos for the whole story id set in one query.
func (s *MongoStore) ListByStories(ctx context.Context, storyIDs []primitive.ObjectID) ([]Photo, error) {
	if len(storyIDs) == 0 {
		return []Photo{}, nil
	}

	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{"story": bson.M{"$in": storyIDs}})
	if err != nil {
		return nil, fmt.Errorf("listing photos by stories: %w", err)
	}

	listed := make([]Photo, 0)
	if err := cursor.All(ctx, &listed); err != nil {
		return nil, fmt.Errorf("decoding photos: %w", err)
	}
	return listed, nil
}

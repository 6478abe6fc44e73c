package stories

import (
	"time"

	"github.com/evergreenbyte/keepsake/internal/photos"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story is a named grouping of photos. Stories are append-only: they are
// never updated or deleted after creation.
type Story struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Date        *time.Time         `bson:"date,omitempty" json:"date,omitempty"`
	NeedsRepair bool               `bson:"needsRepair,omitempty" json:"needsRepair,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// StoryWithPhotos augments a story with its photos, resolved by the story
// reference on each photo record.
type StoryWithPhotos struct {
	Story
	Photos []photos.Photo `json:"photos"`
}

// CreateInput carries the fields of a story creation request.
type CreateInput struct {
	Title       string
	Description string
	Date        *time.Time
	PhotoIDs    []string
}

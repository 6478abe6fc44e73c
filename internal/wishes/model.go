package wishes

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wish is a guest-book entry. Name and message are always present and
// non-empty for any persisted Wish.
type Wish struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

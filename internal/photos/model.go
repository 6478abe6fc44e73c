package photos

import (
	"time"

	"github.com/evergreenbyte/keepsake/internal/media"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Effects bounds chosen for brightness and contrast percentages.
const (
	EffectMin = 0
	EffectMax = 200
)

// Effects is the display-effect sub-document applied client-side.
type Effects struct {
	Filter     string `bson:"filter" json:"filter"`
	Brightness int    `bson:"brightness" json:"brightness"`
	Contrast   int    `bson:"contrast" json:"contrast"`
}

// DefaultEffects returns the neutral effect state.
func DefaultEffects() Effects {
	return Effects{Filter: "none", Brightness: 100, Contrast: 100}
}

// Photo references a CDN-hosted image plus local metadata. The CDN-assigned
// public identifier is the join key between this collection and the CDN; it
// is never regenerated.
type Photo struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"-"`
	PublicID  string              `bson:"public_id" json:"public_id"`
	SecureURL string              `bson:"secure_url" json:"secure_url"`
	Caption   string              `bson:"caption,omitempty" json:"caption,omitempty"`
	Tags      []string            `bson:"tags,omitempty" json:"tags,omitempty"`
	TakenAt   *time.Time          `bson:"takenAt,omitempty" json:"takenAt,omitempty"`
	Effects   Effects             `bson:"effects" json:"effects"`
	StoryID   *primitive.ObjectID `bson:"story,omitempty" json:"story,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// Listing is one page of the photo listing plus pagination totals computed
// over the full listing.
type Listing struct {
	Resources  []media.Asset `json:"resources"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

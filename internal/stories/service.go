package stories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/evergreenbyte/keepsake/internal/apperr"
	"github.com/evergreenbyte/keepsake/internal/photos"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	opCreate = "stories.create"
	opList   = "stories.list"
)

var (
	errMissingStore   = errors.New("story store is required")
	errMissingCatalog = errors.New("photo catalog is required")
)

// PhotoCatalog is the slice of the photo store the service depends on for
// linking and resolving photos.
type PhotoCatalog interface {
	AttachStory(ctx context.Context, publicIDs []string, storyID primitive.ObjectID) (int64, error)
	ListByStories(ctx context.Context, storyIDs []primitive.ObjectID) ([]photos.Photo, error)
}

// ServiceConfig wires the service's dependencies.
type ServiceConfig struct {
	Store   Store
	Catalog PhotoCatalog
	Clock   func() time.Time
	Logger  *zap.Logger
}

// Service implements story creation and listing.
type Service struct {
	store   Store
	catalog PhotoCatalog
	clock   func() time.Time
	logger  *zap.Logger
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	if cfg.Catalog == nil {
		return nil, errMissingCatalog
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{store: cfg.Store, catalog: cfg.Catalog, clock: clock, logger: logger}, nil
}

// Create inserts the story, then links every referenced photo to it. The two
// writes are not transactional: a failed link is retried once, and if the
// retry fails the story is flagged needsRepair for later reconciliation.
func (s *Service) Create(ctx context.Context, input CreateInput) (Story, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || len(input.PhotoIDs) == 0 {
		return Story{}, apperr.New(opCreate, "missing_fields", "Title and photos are required", apperr.ErrInvalidInput)
	}

	inserted, err := s.store.Insert(ctx, Story{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
		CreatedAt:   s.clock().UTC(),
	})
	if err != nil {
		s.logError(opCreate, "insert_failed", err)
		return Story{}, apperr.New(opCreate, "insert_failed", "Error creating story", err)
	}

	linked, err := s.catalog.AttachStory(ctx, input.PhotoIDs, inserted.ID)
	if err != nil {
		linked, err = s.catalog.AttachStory(ctx, input.PhotoIDs, inserted.ID)
	}
	if err != nil {
		s.logError(opCreate, "link_failed", err, zap.String("story_id", inserted.ID.Hex()))
		if repairErr := s.store.MarkNeedsRepair(ctx, inserted.ID); repairErr != nil {
			s.logError(opCreate, "mark_repair_failed", repairErr, zap.String("story_id", inserted.ID.Hex()))
		}
		return Story{}, apperr.New(opCreate, "link_failed", "Error creating story", err)
	}

	if linked < int64(len(input.PhotoIDs)) {
		s.logger.Warn("story created with unmatched photo identifiers",
			zap.String("story_id", inserted.ID.Hex()),
			zap.Int64("linked", linked),
			zap.Int("requested", len(input.PhotoIDs)))
	}

	return inserted, nil
}

// List returns every story by event date descending with its photos
// embedded. Photos for all stories come from one batched query.
func (s *Service) List(ctx context.Context) ([]StoryWithPhotos, error) {
	listed, err := s.store.List(ctx)
	if err != nil {
		s.logError(opList, "query_failed", err)
		return nil, apperr.New(opList, "query_failed", "Error fetching stories", err)
	}

	storyIDs := make([]primitive.ObjectID, 0, len(listed))
	for _, story := range listed {
		storyIDs = append(storyIDs, story.ID)
	}

	linked, err := s.catalog.ListByStories(ctx, storyIDs)
	if err != nil {
		s.logError(opList, "photo_query_failed", err)
		return nil, apperr.New(opList, "photo_query_failed", "Error fetching stories", err)
	}

	photosByStory := make(map[primitive.ObjectID][]photos.Photo, len(listed))
	for _, photo := range linked {
		if photo.StoryID == nil {
			continue
		}
		photosByStory[*photo.StoryID] = append(photosByStory[*photo.StoryID], photo)
	}

	result := make([]StoryWithPhotos, 0, len(listed))
	for _, story := range listed {
		storyPhotos := photosByStory[story.ID]
		if storyPhotos == nil {
			storyPhotos = []photos.Photo{}
		}
		result = append(result, StoryWithPhotos{Story: story, Photos: storyPhotos})
	}
	return result, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err),
	}
	attrs = append(attrs, fields...)
	s.logger.Error("stories service error", attrs...)
}

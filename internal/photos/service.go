package photos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evergreenbyte/keepsake/internal/apperr"
	"github.com/evergreenbyte/keepsake/internal/media"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	opUpload       = "photos.upload"
	opList         = "photos.list"
	opApplyEffects = "photos.apply_effects"

	defaultPage  = 1
	defaultLimit = 30
)

var (
	errMissingStore   = errors.New("photo store is required")
	errMissingGateway = errors.New("media gateway is required")
	errMissingCache   = errors.New("listing cache is required")
)

// MediaGateway is the slice of the CDN adapter the service depends on.
type MediaGateway interface {
	Upload(ctx context.Context, file media.File) (media.UploadResult, error)
	Search(ctx context.Context) (media.SearchResult, error)
}

// ServiceConfig wires the service's dependencies.
type ServiceConfig struct {
	Store   Store
	Gateway MediaGateway
	Cache   *ListingCache
	Clock   func() time.Time
	Logger  *zap.Logger
}

// Service implements photo upload, listing and effect operations.
type Service struct {
	store   Store
	gateway MediaGateway
	cache   *ListingCache
	clock   func() time.Time
	logger  *zap.Logger
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	if cfg.Gateway == nil {
		return nil, errMissingGateway
	}
	if cfg.Cache == nil {
		return nil, errMissingCache
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:   cfg.Store,
		gateway: cfg.Gateway,
		cache:   cfg.Cache,
		clock:   clock,
		logger:  logger,
	}, nil
}

// Upload streams every file to the CDN concurrently and waits for the whole
// batch. One failing upload fails the batch; files that already reached the
// CDN are not rolled back. On success the listing cache is invalidated and a
// local record is persisted per file (best effort: the CDN-side listing
// still serves the photo if the local write fails).
func (s *Service) Upload(ctx context.Context, files []media.File) ([]media.UploadResult, error) {
	if len(files) == 0 {
		return nil, apperr.New(opUpload, "no_files", "No files uploaded", apperr.ErrInvalidInput)
	}

	results := make([]media.UploadResult, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	for index, file := range files {
		group.Go(func() error {
			result, err := s.gateway.Upload(groupCtx, file)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", file.Name, err)
			}
			results[index] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		s.logError(opUpload, "batch_failed", err, zap.Int("files", len(files)))
		return nil, apperr.New(opUpload, "batch_failed", "Failed to upload photos", err)
	}

	now := s.clock().UTC()
	for _, result := range results {
		record := Photo{
			PublicID:  result.PublicID,
			SecureURL: result.SecureURL,
			Effects:   DefaultEffects(),
			CreatedAt: now,
		}
		if err := s.store.Save(ctx, record); err != nil {
			s.logger.Warn("failed to persist photo record",
				zap.String("public_id", result.PublicID),
				zap.Error(err))
		}
	}

	s.cache.Invalidate()
	return results, nil
}

// List serves one page of the full photo listing. The full listing comes
// from the cache while it is fresh; otherwise one folder-scoped CDN search
// refills it. Page and limit fall back to 1 and 30 when out of range.
func (s *Service) List(ctx context.Context, page, limit int) (Listing, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	assets, ok := s.cache.Get()
	if !ok {
		searched, err := s.gateway.Search(ctx)
		if err != nil {
			s.logError(opList, "search_failed", err)
			return Listing{}, apperr.New(opList, "search_failed", "Failed to fetch photos", err)
		}
		assets = searched.Assets
		if assets == nil {
			assets = []media.Asset{}
		}
		s.cache.Set(assets)
	}

	total := len(assets)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Listing{
		Resources:  assets[start:end],
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// ApplyEffects overwrites a photo's effects sub-document. Brightness and
// contrast must stay within [0, 200]; the filter name must be non-empty.
func (s *Service) ApplyEffects(ctx context.Context, publicID string, effects Effects) (Photo, error) {
	if strings.TrimSpace(publicID) == "" {
		return Photo{}, apperr.New(opApplyEffects, "missing_id", "Photo identifier is required", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(effects.Filter) == "" {
		return Photo{}, apperr.New(opApplyEffects, "missing_filter", "Filter is required", apperr.ErrInvalidInput)
	}
	if effects.Brightness < EffectMin || effects.Brightness > EffectMax ||
		effects.Contrast < EffectMin || effects.Contrast > EffectMax {
		message := fmt.Sprintf("Brightness and contrast must be between %d and %d", EffectMin, EffectMax)
		return Photo{}, apperr.New(opApplyEffects, "out_of_range", message, apperr.ErrInvalidInput)
	}

	updated, err := s.store.UpdateEffects(ctx, publicID, effects)
	if errors.Is(err, apperr.ErrNotFound) {
		return Photo{}, apperr.New(opApplyEffects, "not_found", "Photo not found", apperr.ErrNotFound)
	}
	if err != nil {
		s.logError(opApplyEffects, "update_failed", err, zap.String("public_id", publicID))
		return Photo{}, apperr.New(opApplyEffects, "update_failed", "Error applying effects", err)
	}
	return updated, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err),
	}
	attrs = append(attrs, fields...)
	s.logger.Error("photos service error", attrs...)
}

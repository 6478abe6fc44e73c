package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/evergreenbyte/keepsake/internal/apperr"
	"github.com/evergreenbyte/keepsake/internal/database"
	"github.com/evergreenbyte/keepsake/internal/media"
	"github.com/evergreenbyte/keepsake/internal/photos"
	"github.com/evergreenbyte/keepsake/internal/stories"
	"github.com/evergreenbyte/keepsake/internal/wishes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDContextKey = "keepsake_request_id"

var (
	errMissingWishService  = errors.New("wish service dependency required")
	errMissingPhotoService = errors.New("photo service dependency required")
	errMissingStoryService = errors.New("story service dependency required")
)

// WishService is the guest-book surface consumed by the router.
type WishService interface {
	Create(ctx context.Context, name, message string) (wishes.Wish, error)
	List(ctx context.Context) ([]wishes.Wish, error)
	Update(ctx context.Context, id, name, message string) (wishes.Wish, error)
	Delete(ctx context.Context, id string) error
}

// PhotoService is the photo surface consumed by the router.
type PhotoService interface {
	Upload(ctx context.Context, files []media.File) ([]media.UploadResult, error)
	List(ctx context.Context, page, limit int) (photos.Listing, error)
	ApplyEffects(ctx context.Context, publicID string, effects photos.Effects) (photos.Photo, error)
}

// StoryService is the story surface consumed by the router.
type StoryService interface {
	Create(ctx context.Context, input stories.CreateInput) (stories.Story, error)
	List(ctx context.Context) ([]stories.StoryWithPhotos, error)
}

// HealthChecker reports the persistence connection state.
type HealthChecker interface {
	State() database.State
	Ping(ctx context.Context) error
}

// Dependencies wires the router's collaborators.
type Dependencies struct {
	Wishes  WishService
	Photos  PhotoService
	Stories StoryService
	Health  HealthChecker
	Logger  *zap.Logger
}

// NewHTTPHandler builds the gin handler serving the REST API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Wishes == nil {
		return nil, errMissingWishService
	}
	if deps.Photos == nil {
		return nil, errMissingPhotoService
	}
	if deps.Stories == nil {
		return nil, errMissingStoryService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		wishes:  deps.Wishes,
		photos:  deps.Photos,
		stories: deps.Stories,
		health:  deps.Health,
		logger:  logger,
	}

	router.POST("/wishes", handler.handleCreateWish)
	router.GET("/wishes", handler.handleListWishes)
	router.PUT("/wishes/:id", handler.handleUpdateWish)
	router.DELETE("/wishes/:id", handler.handleDeleteWish)

	router.POST("/photos", handler.handleUploadPhotos)
	router.GET("/photos", handler.handleListPhotos)
	router.POST("/photos/:id/effects", handler.handleApplyEffects)

	router.POST("/stories", handler.handleCreateStory)
	router.GET("/stories", handler.handleListStories)

	router.GET("/healthz", handler.handleHealth)

	return router, nil
}

type httpHandler struct {
	wishes  WishService
	photos  PhotoService
	stories StoryService
	health  HealthChecker
	logger  *zap.Logger
}

// writeError maps a service failure to an HTTP status and a JSON error body.
func (h *httpHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", c.GetString(requestIDContextKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if err := h.health.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"database": string(h.health.State()),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": string(h.health.State()),
	})
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDContextKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

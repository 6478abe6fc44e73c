package wishes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/evergreenbyte/keepsake/internal/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	opCreate = "wishes.create"
	opList   = "wishes.list"
	opUpdate = "wishes.update"
	opDelete = "wishes.delete"
)

var errMissingStore = errors.New("wish store is required")

// ServiceConfig wires the service's dependencies.
type ServiceConfig struct {
	Store  Store
	Clock  func() time.Time
	Logger *zap.Logger
}

// Service implements guest-book operations over a Store.
type Service struct {
	store  Store
	clock  func() time.Time
	logger *zap.Logger
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{store: cfg.Store, clock: clock, logger: logger}, nil
}

// Create persists a new wish with a server-assigned creation timestamp.
func (s *Service) Create(ctx context.Context, name, message string) (Wish, error) {
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)
	if name == "" || message == "" {
		return Wish{}, apperr.New(opCreate, "missing_fields", "Name and message are required", apperr.ErrInvalidInput)
	}

	created, err := s.store.Insert(ctx, Wish{
		Name:      name,
		Message:   message,
		CreatedAt: s.clock().UTC(),
	})
	if err != nil {
		s.logError(opCreate, "insert_failed", err)
		return Wish{}, apperr.New(opCreate, "insert_failed", "Error creating wish", err)
	}
	return created, nil
}

// List returns every wish, newest first. An empty collection yields an empty
// slice, not an error.
func (s *Service) List(ctx context.Context) ([]Wish, error) {
	listed, err := s.store.List(ctx)
	if err != nil {
		s.logError(opList, "query_failed", err)
		return nil, apperr.New(opList, "query_failed", "Error fetching wishes", err)
	}
	return listed, nil
}

// Update replaces name and message of an existing wish in place.
func (s *Service) Update(ctx context.Context, id, name, message string) (Wish, error) {
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)
	if name == "" || message == "" {
		return Wish{}, apperr.New(opUpdate, "missing_fields", "Name and message are required", apperr.ErrInvalidInput)
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Wish{}, apperr.New(opUpdate, "not_found", "Wish not found", apperr.ErrNotFound)
	}

	updated, err := s.store.Replace(ctx, objectID, name, message)
	if errors.Is(err, apperr.ErrNotFound) {
		return Wish{}, apperr.New(opUpdate, "not_found", "Wish not found", apperr.ErrNotFound)
	}
	if err != nil {
		s.logError(opUpdate, "update_failed", err, zap.String("wish_id", id))
		return Wish{}, apperr.New(opUpdate, "update_failed", "Error updating wish", err)
	}
	return updated, nil
}

// Delete removes a wish permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(opDelete, "not_found", "Wish not found", apperr.ErrNotFound)
	}

	err = s.store.Delete(ctx, objectID)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.New(opDelete, "not_found", "Wish not found", apperr.ErrNotFound)
	}
	if err != nil {
		s.logError(opDelete, "delete_failed", err, zap.String("wish_id", id))
		return apperr.New(opDelete, "delete_failed", "Error deleting wish", err)
	}
	return nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err),
	}
	attrs = append(attrs, fields...)
	s.logger.Error("wishes service error", attrs...)
}

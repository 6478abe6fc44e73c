package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

const (
	serverSelectionTimeout = 5 * time.Second
	socketTimeout          = 45 * time.Second
	connectTimeout         = 10 * time.Second
	writeAckTimeout        = 2500 * time.Millisecond
	healthCheckTimeout     = 2 * time.Second
	minPoolSize            = 5
	maxPoolSize            = 10
)

var (
	// ErrMissingURI indicates that no connection string was configured.
	ErrMissingURI = errors.New("database: connection string is required")
	// ErrMissingDatabase indicates that no database name was configured.
	ErrMissingDatabase = errors.New("database: database name is required")
	// ErrUnavailable indicates that the store could not be reached.
	ErrUnavailable = errors.New("database: store unavailable")
)

// State describes the connection lifecycle of the manager.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDegraded     State = "degraded"
)

// connection is the slice of the driver client the manager depends on.
type connection interface {
	Database(name string, opts ...*options.DatabaseOptions) *mongo.Database
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

// ManagerConfig supplies the manager's connection parameters.
type ManagerConfig struct {
	URI      string
	Database string
	Logger   *zap.Logger
}

// Manager owns a single lazily-established Mongo connection. Acquire reuses
// the cached handle while it stays healthy and re-dials after it is observed
// not-ready. All writes carry a majority write concern with a bounded
// acknowledgment wait; a timeout on that wait is an error, not durability.
type Manager struct {
	mu       sync.Mutex
	uri      string
	database string
	logger   *zap.Logger
	dial     func(ctx context.Context, opts *options.ClientOptions) (connection, error)
	client   connection
	state    State
}

// NewManager validates the configuration without dialing the store.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, ErrMissingURI
	}
	if strings.TrimSpace(cfg.Database) == "" {
		return nil, ErrMissingDatabase
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		uri:      cfg.URI,
		database: cfg.Database,
		logger:   logger,
		dial: func(ctx context.Context, opts *options.ClientOptions) (connection, error) {
			return mongo.Connect(ctx, opts)
		},
		state: StateDisconnected,
	}, nil
}

// State reports the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Acquire returns a ready-to-use database handle, establishing the
// connection on first use and re-dialing if the cached handle is unhealthy.
func (m *Manager) Acquire(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		if m.healthy(ctx) {
			return m.client.Database(m.database), nil
		}
		m.logger.Warn("database connection lost, reconnecting")
		m.discardLocked(ctx)
		m.state = StateDegraded
	}

	if err := m.connectLocked(ctx); err != nil {
		return nil, err
	}
	return m.client.Database(m.database), nil
}

// Ping verifies the store is reachable, dialing first if necessary.
func (m *Manager) Ping(ctx context.Context) error {
	if _, err := m.Acquire(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	client := m.client
	m.mu.Unlock()

	pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the cached connection, if any.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.state = StateDisconnected
	m.logger.Info("database connection closed")
	return err
}

func (m *Manager) healthy(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return m.client.Ping(pingCtx, readpref.Primary()) == nil
}

func (m *Manager) discardLocked(ctx context.Context) {
	disconnectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), healthCheckTimeout)
	defer cancel()
	if err := m.client.Disconnect(disconnectCtx); err != nil {
		m.logger.Warn("failed to discard stale connection", zap.Error(err))
	}
	m.client = nil
}

// connectLocked dials and health-checks a fresh connection. On failure the
// state rolls back to what it was before the attempt, so a lost connection
// that cannot be re-established stays degraded rather than disconnected.
func (m *Manager) connectLocked(ctx context.Context) error {
	previous := m.state
	m.state = StateConnecting

	opts := options.Client().
		ApplyURI(m.uri).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetSocketTimeout(socketTimeout).
		SetConnectTimeout(connectTimeout).
		SetMinPoolSize(minPoolSize).
		SetMaxPoolSize(maxPoolSize).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetWriteConcern(&writeconcern.WriteConcern{W: "majority", WTimeout: writeAckTimeout})

	client, err := m.dial(ctx, opts)
	if err != nil {
		m.state = previous
		m.logger.Error("database connection errored", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, serverSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.WithoutCancel(ctx), healthCheckTimeout)
		defer disconnectCancel()
		if disconnectErr := client.Disconnect(disconnectCtx); disconnectErr != nil {
			m.logger.Warn("failed to release unreachable connection", zap.Error(disconnectErr))
		}
		m.state = previous
		m.logger.Error("database connection errored", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	m.client = client
	m.state = StateConnected
	m.logger.Info("database connection established", zap.String("database", m.database))
	return nil
}

package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/stellarshank/gdrive-mcp/internal/auth"
	"github.com/stellarshank/gdrive-mcp/internal/drive"
	"github.com/stellarshank/gdrive-mcp/internal/instrumentation"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	provider *auth.Provider
	metrics  *instrumentation.Metrics
	logger   *slog.Logger

	// driveFactory builds the Drive client for a tool invocation;
	// replaceable via SetDriveClientFactory for tests.
	driveFactory func(ctx context.Context) (*drive.Client, error)

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. provider supplies valid
// OAuth2 tokens on demand; metrics may be nil when instrumentation is
// disabled.
func NewServerContext(ctx context.Context, provider *auth.Provider, metrics *instrumentation.Metrics, logger *slog.Logger) (*ServerContext, error) {
	if provider == nil {
		return nil, fmt.Errorf("credential provider is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Provider returns the credential provider.
func (sc *ServerContext) Provider() *auth.Provider {
	return sc.provider
}

// Metrics returns the metrics recorder, or nil if instrumentation is
// disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// DriveClient builds a Drive client authenticated with a currently valid
// token. A fresh handle is built per invocation; handle construction is
// cheap next to the network call. May block on interactive authorization
// if no usable token is stored.
func (sc *ServerContext) DriveClient(ctx context.Context) (*drive.Client, error) {
	sc.mu.RLock()
	factory := sc.driveFactory
	sc.mu.RUnlock()

	if factory != nil {
		return factory(ctx)
	}

	token, err := sc.provider.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain credentials: %w", err)
	}

	client, err := drive.NewClient(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive client: %w", err)
	}

	return client, nil
}

// SetDriveClientFactory overrides how Drive clients are constructed.
// Intended for tests.
func (sc *ServerContext) SetDriveClientFactory(factory func(ctx context.Context) (*drive.Client, error)) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveFactory = factory
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}

package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/giantswarm/chatops-processor/internal/delivery"
	"github.com/giantswarm/chatops-processor/internal/instrumentation"
	"github.com/giantswarm/chatops-processor/internal/logging"
	"github.com/giantswarm/chatops-processor/internal/output"
)

// Deliverer sends processed messages to a chat. *delivery.Dispatcher satisfies it.
type Deliverer interface {
	Deliver(ctx context.Context, chatID string, messages []string, opts delivery.Options) []delivery.Result
}

// TokenSource provides the bot token. *secrets.BotToken satisfies it.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// ServerContext encapsulates all dependencies needed by the service
// and provides a clean abstraction for dependency injection and lifecycle management.
type ServerContext struct {
	// Core dependencies
	processor  *output.Processor
	dispatcher Deliverer
	botToken   TokenSource
	logger     *slog.Logger
	config     *Config

	// instrumentationProvider is optional; nil disables health reporting of exporters.
	instrumentationProvider *instrumentation.Provider

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	// Create a cancellable context
	serverCtx, cancel := context.WithCancel(ctx)

	// Initialize with defaults
	sc := &ServerContext{
		ctx:    serverCtx,
		cancel: cancel,
		config: NewDefaultConfig(),
		logger: slog.Default(),
	}

	// Apply functional options
	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	// Validate required dependencies
	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// Processor returns the output processor.
func (sc *ServerContext) Processor() *output.Processor {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.processor
}

// Logger returns the logger.
func (sc *ServerContext) Logger() *slog.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// InstrumentationProvider returns the instrumentation provider, which may be nil.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.instrumentationProvider
}

// Process runs the pipeline for req and delivers the resulting messages.
// The request must already be validated. An unavailable bot token fails the
// request before any processing happens; delivery failures do not.
func (sc *ServerContext) Process(ctx context.Context, req ProcessRequest) (ProcessResponse, error) {
	if sc.IsShutdown() {
		return ProcessResponse{}, ErrServerShutdown
	}

	logger := sc.logger.With(
		logging.Command(req.Command),
		logging.ChatHash(req.ChatID),
	)
	if req.Project != "" {
		logger = logger.With(logging.Project(req.Project))
	}
	if req.Token != "" {
		logger.Debug("request carries a caller token", slog.String("token", logging.SanitizeToken(req.Token)))
	}

	if _, err := sc.botToken.Get(ctx); err != nil {
		return ProcessResponse{}, fmt.Errorf("bot token unavailable: %w", err)
	}

	command := output.Command(req.Command)
	outcome := sc.processor.Process(ctx, req.RawOutput, command)

	results := sc.dispatcher.Deliver(ctx, req.ChatID, outcome.Messages, delivery.Options{
		Command: command,
		Project: req.Project,
	})

	sent := delivery.Sent(results)
	if sent < len(results) {
		logger.Warn("some messages were not delivered",
			slog.Int("attempted", len(results)),
			slog.Int("delivered", sent))
	}
	logger.Info("request processed",
		logging.Method(string(outcome.Method)),
		slog.Int("messages", len(results)))

	return ProcessResponse{
		Success:          true,
		MessagesSent:     len(results),
		ProcessingMethod: string(outcome.Method),
	}, nil
}

// Shutdown gracefully shuts down the server context.
// This cancels the context and releases any resources.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("shutting down server context")

	// Cancel the context
	if sc.cancel != nil {
		sc.cancel()
	}

	// Mark as shutdown
	sc.shutdown = true

	sc.logger.Info("server context shutdown complete")
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.processor == nil {
		return ErrMissingProcessor
	}
	if sc.dispatcher == nil {
		return ErrMissingDispatcher
	}
	if sc.botToken == nil {
		return ErrMissingTokenSource
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// DefaultMaxBodyBytes caps the size of a /process request body.
const DefaultMaxBodyBytes = 1 << 20

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServiceName string `json:"serviceName"`
	Version     string `json:"version"`

	// AIProvider is reported by the detailed health endpoint.
	AIProvider string `json:"aiProvider"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `json:"maxBodyBytes"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServiceName:  "chatops-processor",
		Version:      "0.1.0",
		AIProvider:   "none",
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

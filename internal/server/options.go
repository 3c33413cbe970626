package server

import (
	"errors"
	"log/slog"

	"github.com/giantswarm/chatops-processor/internal/instrumentation"
	"github.com/giantswarm/chatops-processor/internal/output"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithProcessor sets the output processor.
func WithProcessor(processor *output.Processor) Option {
	return func(sc *ServerContext) error {
		if processor == nil {
			return ErrMissingProcessor
		}
		sc.processor = processor
		return nil
	}
}

// WithDispatcher sets the message deliverer.
func WithDispatcher(dispatcher Deliverer) Option {
	return func(sc *ServerContext) error {
		if dispatcher == nil {
			return ErrMissingDispatcher
		}
		sc.dispatcher = dispatcher
		return nil
	}
}

// WithBotToken sets the source of the bot token.
func WithBotToken(tokens TokenSource) Option {
	return func(sc *ServerContext) error {
		if tokens == nil {
			return ErrMissingTokenSource
		}
		sc.botToken = tokens
		return nil
	}
}

// WithLogger sets the logger for the ServerContext.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration for the ServerContext.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		if sc.config.MaxBodyBytes <= 0 {
			sc.config.MaxBodyBytes = DefaultMaxBodyBytes
		}
		return nil
	}
}

// WithVersion sets the version in the configuration.
func WithVersion(version string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Version = version
		return nil
	}
}

// WithInstrumentationProvider sets the OpenTelemetry instrumentation provider.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingProcessor   = errors.New("output processor is required")
	ErrMissingDispatcher  = errors.New("message dispatcher is required")
	ErrMissingTokenSource = errors.New("bot token source is required")
	ErrMissingLogger      = errors.New("logger is required")
	ErrMissingConfig      = errors.New("configuration is required")
	ErrServerShutdown     = errors.New("server context has been shutdown")
)

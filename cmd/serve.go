package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/giantswarm/chatops-processor/internal/instrumentation"
	"github.com/giantswarm/chatops-processor/internal/logging"
	"github.com/giantswarm/chatops-processor/internal/secrets"
	"github.com/giantswarm/chatops-processor/internal/server"
)

// Default listen addresses of the serve command.
const (
	defaultHTTPAddr    = ":8080"
	defaultMetricsAddr = server.DefaultMetricsAddr
)

// newServeCmd creates the Cobra command for starting the HTTP service.
func newServeCmd() *cobra.Command {
	config := ServeConfig{
		HTTPAddr: defaultHTTPAddr,
		Metrics: MetricsServeConfig{
			Enabled: true,
			Addr:    defaultMetricsAddr,
		},
		Pipeline: DefaultPipelineConfig(),
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chatops processing service",
		Long: `Start the HTTP service that processes Terraform output and delivers
the resulting messages to Telegram.

Endpoints:
  - POST /process: process raw output and deliver it to a chat
  - /healthz, /readyz, /healthz/detailed: health probes

Prometheus metrics are served on a separate listener (--metrics-addr) when
instrumentation is enabled.

The bot token is read from AWS Secrets Manager (--secret-store aws, the
default) or from the BOT_TOKEN environment variable (--secret-store env).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadPipelineEnvVars(cmd, &config.Pipeline)
			if !cmd.Flags().Changed("http-addr") {
				loadEnvIfSet(&config.HTTPAddr, "HTTP_ADDR")
			}
			if !cmd.Flags().Changed("metrics-addr") {
				loadEnvIfSet(&config.Metrics.Addr, "METRICS_ADDR")
			}
			if !cmd.Flags().Changed("metrics") {
				if v, ok := os.LookupEnv("METRICS_ENABLED"); ok {
					config.Metrics.Enabled = v == envValueTrue
				}
			}

			if err := config.Pipeline.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runServe(ctx, config, slog.Default())
		},
	}

	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", config.HTTPAddr, "HTTP API listen address (can also be set via HTTP_ADDR env var)")
	cmd.Flags().BoolVar(&config.Metrics.Enabled, "metrics", config.Metrics.Enabled, "Serve Prometheus metrics on a separate listener (can also be set via METRICS_ENABLED env var)")
	cmd.Flags().StringVar(&config.Metrics.Addr, "metrics-addr", config.Metrics.Addr, "Metrics listen address (can also be set via METRICS_ADDR env var)")
	addPipelineFlags(cmd, &config.Pipeline)

	return cmd
}

// runServe wires the pipeline and runs the HTTP servers until ctx is cancelled.
func runServe(ctx context.Context, config ServeConfig, logger *slog.Logger) error {
	logger = logging.WithOperation(logger, "serve")

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(ctx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(shutdownErr))
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics", instrumentationConfig.MetricsExporter,
			"tracing", instrumentationConfig.TracingExporter)
	}
	metrics := instrumentationProvider.Metrics()

	processor, err := newProcessor(ctx, config.Pipeline, logger, metrics)
	if err != nil {
		return err
	}

	store, err := newSecretStore(ctx, config.Pipeline)
	if err != nil {
		return err
	}
	botToken := secrets.NewBotToken(store)
	dispatcher := newDispatcher(config.Pipeline, botToken, logger, metrics)

	serverConfig := server.NewDefaultConfig()
	serverConfig.Version = rootCmd.Version
	serverConfig.AIProvider = config.Pipeline.SummarizerConfig().Provider

	serverContext, err := server.NewServerContext(ctx,
		server.WithConfig(serverConfig),
		server.WithProcessor(processor),
		server.WithDispatcher(dispatcher),
		server.WithBotToken(botToken),
		server.WithLogger(logger),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", logging.Err(err))
		}
	}()

	logger.Info("pipeline configured",
		"ai_enabled", config.Pipeline.Output.EnableAI,
		"ai_provider", serverConfig.AIProvider,
		"secret_store", config.Pipeline.SecretStore,
		"max_message_length", processor.Config().MaxMessageLength,
		"max_messages", processor.Config().MaxMessages)

	healthChecker := server.NewHealthChecker(serverContext)
	handler := server.NewHTTPHandler(serverContext, healthChecker)

	metricsConfig := config.Metrics
	if !instrumentationProvider.Enabled() {
		metricsConfig.Enabled = false
	}

	return runHTTPServer(ctx, config.HTTPAddr, handler, healthChecker, metricsConfig, instrumentationProvider, logger)
}

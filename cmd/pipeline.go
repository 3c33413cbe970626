package cmd

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/giantswarm/chatops-processor/internal/delivery"
	"github.com/giantswarm/chatops-processor/internal/instrumentation"
	"github.com/giantswarm/chatops-processor/internal/output"
	"github.com/giantswarm/chatops-processor/internal/secrets"
	"github.com/giantswarm/chatops-processor/internal/summarizer"
)

// newProcessor builds the output processor and its summarizer backend.
// metrics may be nil.
func newProcessor(ctx context.Context, config PipelineConfig, logger *slog.Logger, metrics *instrumentation.Metrics) (*output.Processor, error) {
	generator, err := summarizer.New(ctx, config.SummarizerConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer: %w", err)
	}

	opts := []output.ProcessorOption{
		output.WithTextGenerator(generator),
		output.WithLogger(logger),
	}
	if metrics != nil {
		opts = append(opts, output.WithRecorder(metrics))
	}

	outputConfig := config.Output
	return output.NewProcessor(&outputConfig, opts...), nil
}

// newSecretStore builds the store the bot token is read from.
func newSecretStore(ctx context.Context, config PipelineConfig) (secrets.Store, error) {
	switch config.SecretStore {
	case secretStoreEnv:
		return secrets.EnvStore{}, nil
	case secretStoreAWS:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Summarizer.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return secrets.NewAWSStore(secretsmanager.NewFromConfig(awsCfg), config.SecretID), nil
	default:
		return nil, fmt.Errorf("unsupported secret store: %s", config.SecretStore)
	}
}

// newDispatcher builds the Telegram sender and the ordered dispatcher on top of it.
// metrics may be nil.
func newDispatcher(config PipelineConfig, tokens delivery.TokenSource, logger *slog.Logger, metrics *instrumentation.Metrics) *delivery.Dispatcher {
	telegram := delivery.NewTelegram(tokens,
		delivery.WithAPIURL(config.TelegramAPIURL),
		delivery.WithTelegramLogger(logger),
	)

	opts := []delivery.DispatcherOption{
		delivery.WithPause(config.MessagePause),
		delivery.WithLogger(logger),
	}
	if metrics != nil {
		opts = append(opts, delivery.WithRecorder(metrics))
	}
	return delivery.NewDispatcher(telegram, opts...)
}

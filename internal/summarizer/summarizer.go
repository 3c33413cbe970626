package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/giantswarm/chatops-processor/internal/output"
)

// New builds the backend selected by config.Provider.
// The AWS client for Bedrock is configured from the default credential chain.
func New(ctx context.Context, config Config, logger *slog.Logger) (output.TextGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderNone:
		return Disabled{}, nil

	case ProviderOpenAI:
		return NewOpenAI(config, logger)

	case ProviderBedrock:
		config = config.withDefaults()
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return NewBedrock(bedrockruntime.NewFromConfig(awsCfg), config, logger), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, config.Provider)
}

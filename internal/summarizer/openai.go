package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

// OpenAI generates text with an OpenAI-compatible chat completion endpoint.
type OpenAI struct {
	client *openai.Client
	config Config
	logger *slog.Logger
}

// NewOpenAI creates an OpenAI backend. config.OpenAIBaseURL may point at any
// compatible server.
func NewOpenAI(config Config, logger *slog.Logger) (*OpenAI, error) {
	config.Provider = ProviderOpenAI
	config = config.withDefaults()
	if config.OpenAIAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := openai.DefaultConfig(config.OpenAIAPIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger,
	}, nil
}

// Generate sends prompt as a single user message and returns the first choice.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	o.logger.Debug("requesting chat completion",
		slog.String("model", o.config.ModelID),
		slog.Int("prompt_length", len([]rune(prompt))))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.config.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
		TopP:        o.config.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion with %s: %w", o.config.ModelID, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResult
	}
	return resp.Choices[0].Message.Content, nil
}

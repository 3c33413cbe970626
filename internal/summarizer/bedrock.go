package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/giantswarm/chatops-processor/internal/logging"
)

// InvokeModelAPI is the subset of the Bedrock Runtime client used here.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// titanRequest is the Amazon Titan text generation request body.
type titanRequest struct {
	InputText            string                `json:"inputText"`
	TextGenerationConfig titanGenerationConfig `json:"textGenerationConfig"`
}

type titanGenerationConfig struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float32 `json:"temperature"`
	TopP          float32 `json:"topP"`
}

type titanResponse struct {
	Results []struct {
		OutputText       string `json:"outputText"`
		CompletionReason string `json:"completionReason"`
	} `json:"results"`
}

// Bedrock generates text with an Amazon Titan model on AWS Bedrock.
type Bedrock struct {
	client InvokeModelAPI
	config Config
	logger *slog.Logger
}

// NewBedrock creates a Bedrock backend around an existing client.
func NewBedrock(client InvokeModelAPI, config Config, logger *slog.Logger) *Bedrock {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bedrock{
		client: client,
		config: config.withDefaults(),
		logger: logger,
	}
}

// Generate invokes the model with prompt and returns the first result's text.
func (b *Bedrock) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	body, err := json.Marshal(titanRequest{
		InputText: prompt,
		TextGenerationConfig: titanGenerationConfig{
			MaxTokenCount: b.config.MaxTokens,
			Temperature:   b.config.Temperature,
			TopP:          b.config.TopP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode bedrock request: %w", err)
	}

	b.logger.Debug("invoking bedrock model",
		slog.String("model_id", b.config.ModelID),
		slog.Int("prompt_length", len([]rune(prompt))))

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.config.ModelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("bedrock invoke model %s: %w", b.config.ModelID, err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode bedrock response: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", ErrEmptyResult
	}

	b.logger.Debug("bedrock result received",
		logging.Status(resp.Results[0].CompletionReason),
		slog.Int("length", len([]rune(resp.Results[0].OutputText))))
	return resp.Results[0].OutputText, nil
}

package summarizer

import (
	"errors"
	"fmt"
	"time"
)

// Provider names accepted by New.
const (
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
	ProviderNone    = "none"
)

// Defaults for generation parameters.
const (
	DefaultModelID     = "amazon.titan-text-express-v1"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
	DefaultTimeout     = 30 * time.Second
	DefaultAWSRegion   = "eu-west-1"
)

var (
	// ErrDisabled is returned by the Disabled backend.
	ErrDisabled = errors.New("summarizer disabled")

	// ErrEmptyResult is returned when the backend answered without any text.
	ErrEmptyResult = errors.New("summarizer returned no result")

	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown summarizer provider")

	// ErrMissingAPIKey is returned when the OpenAI backend has no API key.
	ErrMissingAPIKey = errors.New("missing OpenAI API key")
)

// Config holds the backend selection and generation parameters.
type Config struct {
	// Provider selects the backend: "bedrock", "openai" or "none".
	Provider string

	// ModelID is the Bedrock model ID or the OpenAI model name.
	ModelID string

	MaxTokens   int
	Temperature float32
	TopP        float32

	// Timeout bounds every single Generate call.
	Timeout time.Duration

	// AWSRegion is used by the Bedrock backend.
	AWSRegion string

	// OpenAIAPIKey and OpenAIBaseURL configure the OpenAI backend.
	// An empty base URL uses the public OpenAI endpoint.
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

// DefaultConfig returns the Bedrock configuration the service ships with.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderBedrock,
		ModelID:     DefaultModelID,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		Timeout:     DefaultTimeout,
		AWSRegion:   DefaultAWSRegion,
	}
}

// withDefaults fills unset generation parameters.
func (c Config) withDefaults() Config {
	if c.ModelID == "" {
		if c.Provider == ProviderOpenAI {
			c.ModelID = DefaultOpenAIModel
		} else {
			c.ModelID = DefaultModelID
		}
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.TopP <= 0 {
		c.TopP = DefaultTopP
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.AWSRegion == "" {
		c.AWSRegion = DefaultAWSRegion
	}
	return c
}

// Validate checks the provider name and generation parameters.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderBedrock, ProviderOpenAI, ProviderNone:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %v", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("topP must be between 0 and 1, got %v", c.TopP)
	}
	if c.Provider == ProviderOpenAI && c.OpenAIAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/chatops-processor/internal/delivery"
	"github.com/giantswarm/chatops-processor/internal/output"
	"github.com/giantswarm/chatops-processor/internal/secrets"
	"github.com/giantswarm/chatops-processor/internal/summarizer"
)

// Secret store backends accepted by --secret-store.
const (
	secretStoreAWS = "aws"
	secretStoreEnv = "env"
)

// envValueTrue is the string value used to enable boolean environment variables.
const envValueTrue = "true"

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	HTTPAddr string

	Metrics  MetricsServeConfig
	Pipeline PipelineConfig
}

// MetricsServeConfig configures the dedicated metrics listener.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// PipelineConfig configures output processing and its collaborators.
// It is shared by the serve and process commands.
type PipelineConfig struct {
	Output     output.Config
	Summarizer summarizer.Config

	// SecretStore selects where the bot token comes from: "aws" or "env".
	SecretStore string
	SecretID    string

	TelegramAPIURL string
	MessagePause   time.Duration
}

// DefaultPipelineConfig returns the pipeline defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Output:         *output.DefaultConfig(),
		Summarizer:     summarizer.DefaultConfig(),
		SecretStore:    secretStoreAWS,
		SecretID:       secrets.DefaultSecretID,
		TelegramAPIURL: delivery.DefaultTelegramAPIURL,
		MessagePause:   delivery.DefaultPause,
	}
}

// SummarizerConfig returns the summarizer configuration to build.
// With AI processing disabled the provider is always "none".
func (c PipelineConfig) SummarizerConfig() summarizer.Config {
	cfg := c.Summarizer
	if !c.Output.EnableAI {
		cfg.Provider = summarizer.ProviderNone
	}
	return cfg
}

// Validate checks the settings that cannot be fixed up with defaults.
func (c PipelineConfig) Validate() error {
	switch c.SecretStore {
	case secretStoreAWS:
		if c.SecretID == "" {
			return fmt.Errorf("secret ID is required when using the %s secret store (--secret-id or SECRET_ID)", secretStoreAWS)
		}
	case secretStoreEnv:
	default:
		return fmt.Errorf("unsupported secret store: %s (supported: %s, %s)", c.SecretStore, secretStoreAWS, secretStoreEnv)
	}

	if c.MessagePause < 0 {
		return fmt.Errorf("message pause must not be negative, got %v", c.MessagePause)
	}

	if err := c.SummarizerConfig().Validate(); err != nil {
		return fmt.Errorf("invalid summarizer configuration: %w", err)
	}
	return nil
}

// addPipelineFlags registers the pipeline flags on cmd, bound to config.
func addPipelineFlags(cmd *cobra.Command, config *PipelineConfig) {
	flags := cmd.Flags()

	flags.BoolVar(&config.Output.EnableAI, "enable-ai", config.Output.EnableAI, "Summarize errors and high-risk plans with a generative model (can also be set via ENABLE_AI_PROCESSING env var)")
	flags.IntVar(&config.Output.MaxMessageLength, "max-message-length", config.Output.MaxMessageLength, "Maximum length of one chat message, in characters (can also be set via MAX_MESSAGE_LENGTH env var)")
	flags.IntVar(&config.Output.MaxMessages, "max-messages", config.Output.MaxMessages, "Maximum number of chat messages per request (can also be set via MAX_MESSAGES env var)")

	flags.StringVar(&config.Summarizer.Provider, "ai-provider", config.Summarizer.Provider, fmt.Sprintf("Summarizer backend: %s, %s or %s (can also be set via AI_PROVIDER env var)", summarizer.ProviderBedrock, summarizer.ProviderOpenAI, summarizer.ProviderNone))
	flags.StringVar(&config.Summarizer.ModelID, "ai-model-id", config.Summarizer.ModelID, "Model ID of the summarizer backend (can also be set via AI_MODEL_ID env var)")
	flags.IntVar(&config.Summarizer.MaxTokens, "ai-max-tokens", config.Summarizer.MaxTokens, "Maximum tokens generated per summary (can also be set via AI_MAX_TOKENS env var)")
	flags.DurationVar(&config.Summarizer.Timeout, "ai-timeout", config.Summarizer.Timeout, "Timeout of one summarizer call (can also be set via AI_TIMEOUT env var)")
	flags.StringVar(&config.Summarizer.OpenAIBaseURL, "openai-base-url", config.Summarizer.OpenAIBaseURL, "Base URL of an OpenAI-compatible API (can also be set via OPENAI_BASE_URL env var)")
	flags.StringVar(&config.Summarizer.AWSRegion, "aws-region", config.Summarizer.AWSRegion, "AWS region for Bedrock and Secrets Manager (can also be set via AWS_REGION env var)")

	flags.StringVar(&config.SecretStore, "secret-store", config.SecretStore, fmt.Sprintf("Bot token source: %s or %s (can also be set via SECRET_STORE env var)", secretStoreAWS, secretStoreEnv))
	flags.StringVar(&config.SecretID, "secret-id", config.SecretID, "Secrets Manager secret holding the bot token (can also be set via SECRET_ID env var)")
	flags.StringVar(&config.TelegramAPIURL, "telegram-api-url", config.TelegramAPIURL, "Telegram Bot API base URL (can also be set via TELEGRAM_API_URL env var)")
	flags.DurationVar(&config.MessagePause, "message-pause", config.MessagePause, "Pause between consecutive chat messages (can also be set via MESSAGE_PAUSE env var)")
}

// loadPipelineEnvVars loads pipeline configuration from environment variables.
// Environment variables only override flag values when the flag was not explicitly set.
// The OpenAI API key is only read from the environment so it never shows up in process listings.
func loadPipelineEnvVars(cmd *cobra.Command, config *PipelineConfig) {
	changed := cmd.Flags().Changed

	if !changed("enable-ai") {
		if v, ok := os.LookupEnv("ENABLE_AI_PROCESSING"); ok {
			config.Output.EnableAI = strings.EqualFold(strings.TrimSpace(v), envValueTrue)
		}
	}
	if !changed("max-message-length") {
		if n, ok := parseIntEnv(os.Getenv("MAX_MESSAGE_LENGTH"), "MAX_MESSAGE_LENGTH"); ok {
			config.Output.MaxMessageLength = n
		}
	}
	if !changed("max-messages") {
		if n, ok := parseIntEnv(os.Getenv("MAX_MESSAGES"), "MAX_MESSAGES"); ok {
			config.Output.MaxMessages = n
		}
	}

	if !changed("ai-provider") {
		loadEnvIfSet(&config.Summarizer.Provider, "AI_PROVIDER")
	}
	if !changed("ai-model-id") {
		loadEnvIfSet(&config.Summarizer.ModelID, "AI_MODEL_ID")
	}
	if !changed("ai-max-tokens") {
		if n, ok := parseIntEnv(os.Getenv("AI_MAX_TOKENS"), "AI_MAX_TOKENS"); ok {
			config.Summarizer.MaxTokens = n
		}
	}
	if !changed("ai-timeout") {
		if d, ok := parseDurationEnv(os.Getenv("AI_TIMEOUT"), "AI_TIMEOUT"); ok {
			config.Summarizer.Timeout = d
		}
	}
	if !changed("openai-base-url") {
		loadEnvIfSet(&config.Summarizer.OpenAIBaseURL, "OPENAI_BASE_URL")
	}
	if !changed("aws-region") {
		loadEnvIfSet(&config.Summarizer.AWSRegion, "AWS_REGION")
	}
	loadEnvIfEmpty(&config.Summarizer.OpenAIAPIKey, "OPENAI_API_KEY")

	// The OpenAI default model only applies when no model was chosen at all.
	if config.Summarizer.Provider == summarizer.ProviderOpenAI && config.Summarizer.ModelID == summarizer.DefaultModelID && !changed("ai-model-id") {
		if _, ok := os.LookupEnv("AI_MODEL_ID"); !ok {
			config.Summarizer.ModelID = summarizer.DefaultOpenAIModel
		}
	}

	if !changed("secret-store") {
		loadEnvIfSet(&config.SecretStore, "SECRET_STORE")
	}
	if !changed("secret-id") {
		loadEnvIfSet(&config.SecretID, "SECRET_ID")
	}
	if !changed("telegram-api-url") {
		loadEnvIfSet(&config.TelegramAPIURL, "TELEGRAM_API_URL")
	}
	if !changed("message-pause") {
		if d, ok := parseDurationEnv(os.Getenv("MESSAGE_PAUSE"), "MESSAGE_PAUSE"); ok {
			config.MessagePause = d
		}
	}
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// loadEnvIfSet overrides target with a non-empty environment variable.
func loadEnvIfSet(target *string, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*target = v
	}
}

// parseDurationEnv parses a duration from an environment variable value.
// Returns the parsed duration and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseDurationEnv(value, envName string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration in environment", "env", envName, "value", value, "error", err)
		return 0, false
	}
	return d, true
}

// parseIntEnv parses an integer from an environment variable value.
// Returns the parsed int and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseIntEnv(value, envName string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("invalid integer in environment", "env", envName, "value", value, "error", err)
		return 0, false
	}
	return n, true
}

package output

// Default limits for message processing.
// These are tuned for chat platforms that cap a single message at ~4096 characters.
const (
	// DefaultMaxMessageLength is the default maximum length of one chat message, in runes.
	DefaultMaxMessageLength = 3500

	// DefaultMaxMessages is the default maximum number of messages produced per invocation.
	DefaultMaxMessages = 10

	// AbsoluteMaxMessageLength is the absolute maximum message length.
	// Telegram rejects messages longer than 4096 characters.
	AbsoluteMaxMessageLength = 4096

	// MinMessageLength is the smallest message length accepted by Validate.
	// It leaves room for the truncation marker on over-long lines.
	MinMessageLength = 16

	// AbsoluteMaxMessages is the absolute maximum number of messages per invocation.
	AbsoluteMaxMessages = 50
)

// Config holds configuration for output processing.
// A Config is built once per process and never mutated afterwards.
type Config struct {
	// EnableAI allows the summarizer to be called for errors and high-risk plans.
	// Default: false
	EnableAI bool `json:"enableAI" yaml:"enableAI"`

	// MaxMessageLength limits the length of each produced message, in runes.
	// Default: 3500, Absolute max: 4096
	MaxMessageLength int `json:"maxMessageLength" yaml:"maxMessageLength"`

	// MaxMessages limits the number of produced messages. Excess chunks are dropped.
	// Default: 10, Absolute max: 50
	MaxMessages int `json:"maxMessages" yaml:"maxMessages"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		EnableAI:         false,
		MaxMessageLength: DefaultMaxMessageLength,
		MaxMessages:      DefaultMaxMessages,
	}
}

// Validate returns a validated copy with any out-of-range values replaced or capped.
func (c *Config) Validate() *Config {
	validated := *c

	// Apply minimum bounds
	if validated.MaxMessageLength <= 0 {
		validated.MaxMessageLength = DefaultMaxMessageLength
	}
	if validated.MaxMessageLength < MinMessageLength {
		validated.MaxMessageLength = MinMessageLength
	}
	if validated.MaxMessages <= 0 {
		validated.MaxMessages = DefaultMaxMessages
	}

	// Apply absolute maximum bounds
	if validated.MaxMessageLength > AbsoluteMaxMessageLength {
		validated.MaxMessageLength = AbsoluteMaxMessageLength
	}
	if validated.MaxMessages > AbsoluteMaxMessages {
		validated.MaxMessages = AbsoluteMaxMessages
	}

	return &validated
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

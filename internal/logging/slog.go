package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation    = "operation"
	KeyCommand      = "command"
	KeyChatHash     = "chat_hash"
	KeyMethod       = "method"
	KeyTask         = "task"
	KeyProject      = "project"
	KeyRequestID    = "request_id"
	KeyMessageIndex = "message_index"
	KeyDuration     = "duration"
	KeyStatus       = "status"
	KeyError        = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// botTokenRegex matches Telegram bot tokens, including inside API URLs.
var botTokenRegex = regexp.MustCompile(`(bot)?\d{6,12}:[A-Za-z0-9_-]{30,}`)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithCommand returns a logger with the command attribute set.
func WithCommand(logger *slog.Logger, command string) *slog.Logger {
	return logger.With(slog.String(KeyCommand, command))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Command returns a slog attribute for the chat command.
func Command(command string) slog.Attr {
	return slog.String(KeyCommand, command)
}

// Method returns a slog attribute for the processing method.
func Method(method string) slog.Attr {
	return slog.String(KeyMethod, method)
}

// Task returns a slog attribute for the summarizer task.
func Task(task string) slog.Attr {
	return slog.String(KeyTask, task)
}

// Project returns a slog attribute for the project name.
func Project(project string) slog.Attr {
	return slog.String(KeyProject, project)
}

// RequestID returns a slog attribute for the request correlation ID.
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// MessageIndex returns a slog attribute for a 1-based message position.
func MessageIndex(i int) slog.Attr {
	return slog.Int(KeyMessageIndex, i)
}

// Duration returns a slog attribute for an elapsed time.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizedErr returns a slog attribute for an error with bot tokens redacted.
// Transport errors from the Bot API embed the request URL, which carries the token.
func SanitizedErr(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, RedactBotTokens(err.Error()))
}

// RedactBotTokens replaces Telegram bot tokens in s with a placeholder.
//
// Examples:
//   - "https://api.telegram.org/bot123456789:AA.../sendMessage" -> "https://api.telegram.org/<redacted-token>/sendMessage"
//   - "no token here" -> "no token here"
func RedactBotTokens(s string) string {
	return botTokenRegex.ReplaceAllString(s, "<redacted-token>")
}

// AnonymizeChat returns a hashed representation of a chat ID for logging purposes.
// This allows correlation of log entries without exposing who talked to the bot.
func AnonymizeChat(chatID string) string {
	if chatID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(chatID))
	return "chat:" + hex.EncodeToString(hash[:8])
}

// ChatHash returns a slog attribute with the anonymized chat ID.
//
// Usage:
//
//	logger.Info("messages delivered", logging.ChatHash(req.ChatID))
func ChatHash(chatID string) slog.Attr {
	return slog.String(KeyChatHash, AnonymizeChat(chatID))
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// Package logging provides structured logging utilities for the chatops-processor application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Chat ID anonymization and token masking
//   - Bot token redaction in transport errors
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "pipeline.process")
//	logger.Info("output processed",
//	    logging.Command("destroy"),
//	    logging.Method("regex_only"))
//
// Sanitize sensitive data before logging:
//
//	logger.Warn("delivery failed",
//	    logging.ChatHash(chatID),
//	    logging.SanitizedErr(err))
//
// # Security Considerations
//
//   - Chat IDs are hashed to prevent leaking who uses the bot while allowing correlation
//   - Bot tokens are stripped from error strings, which often embed the API URL
//   - Request tokens are never logged directly, only their length
package logging

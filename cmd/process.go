package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/giantswarm/chatops-processor/internal/delivery"
	"github.com/giantswarm/chatops-processor/internal/logging"
	"github.com/giantswarm/chatops-processor/internal/output"
	"github.com/giantswarm/chatops-processor/internal/secrets"
)

// ProcessConfig holds the configuration of the process command.
type ProcessConfig struct {
	Command string
	ChatID  string
	Project string
	Deliver bool
	JSON    bool

	Pipeline PipelineConfig
}

// maxInputBytes caps the input read by the process command.
const maxInputBytes = 16 << 20

// errMissingChatID is returned when --deliver is used without --chat-id.
var errMissingChatID = errors.New("--chat-id is required with --deliver")

// processResult is the JSON output of the process command.
type processResult struct {
	Method       output.Method `json:"processing_method"`
	Messages     []string      `json:"messages"`
	MessagesSent *int          `json:"messages_sent,omitempty"`
}

// newProcessCmd creates the Cobra command that runs the pipeline once.
func newProcessCmd() *cobra.Command {
	config := ProcessConfig{Pipeline: DefaultPipelineConfig()}

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Process Terraform output from a file or stdin",
		Long: `Run the output pipeline once over a file, or stdin when no file or "-"
is given, and print the resulting chat messages.

With --deliver the messages are also sent to the chat given by --chat-id,
exactly as the HTTP service would send them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadPipelineEnvVars(cmd, &config.Pipeline)
			if err := config.Pipeline.Validate(); err != nil {
				return err
			}
			if config.Deliver && strings.TrimSpace(config.ChatID) == "" {
				return errMissingChatID
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			raw, err := readInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runProcess(ctx, config, raw, cmd.OutOrStdout(), slog.Default())
		},
	}

	cmd.Flags().StringVar(&config.Command, "command", string(output.CommandStatus), "Chat command the output belongs to: status, destroy, confirm_destroy or any other name")
	cmd.Flags().StringVar(&config.ChatID, "chat-id", "", "Chat to deliver the messages to (required with --deliver)")
	cmd.Flags().StringVar(&config.Project, "project", "", "Project name for the destroy confirmation buttons")
	cmd.Flags().BoolVar(&config.Deliver, "deliver", false, "Send the messages to Telegram")
	cmd.Flags().BoolVar(&config.JSON, "json", false, "Print the result as JSON")
	addPipelineFlags(cmd, &config.Pipeline)

	return cmd
}

// readInput reads path, or r when path is empty or "-".
func readInput(path string, r io.Reader) (string, error) {
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("input is empty")
	}
	return string(data), nil
}

// runProcess runs the pipeline over raw, optionally delivers the messages and
// writes the result to w.
func runProcess(ctx context.Context, config ProcessConfig, raw string, w io.Writer, logger *slog.Logger) error {
	logger = logging.WithOperation(logger, "process")

	processor, err := newProcessor(ctx, config.Pipeline, logger, nil)
	if err != nil {
		return err
	}

	command := output.Command(config.Command)
	outcome := processor.Process(ctx, raw, command)

	result := processResult{Method: outcome.Method, Messages: outcome.Messages}

	if config.Deliver {
		store, err := newSecretStore(ctx, config.Pipeline)
		if err != nil {
			return err
		}
		botToken := secrets.NewBotToken(store)
		if _, err := botToken.Get(ctx); err != nil {
			return fmt.Errorf("bot token unavailable: %w", err)
		}

		dispatcher := newDispatcher(config.Pipeline, botToken, logger, nil)
		results := dispatcher.Deliver(ctx, config.ChatID, outcome.Messages, delivery.Options{
			Command: command,
			Project: config.Project,
		})
		sent := delivery.Sent(results)
		result.MessagesSent = &sent

		if sent < len(results) {
			logger.Warn("some messages were not delivered",
				"attempted", len(results),
				"delivered", sent)
		}
	}

	return writeProcessResult(w, result, config.JSON)
}

// writeProcessResult prints the messages separated by a rule, or JSON.
func writeProcessResult(w io.Writer, result processResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for i, message := range result.Messages {
		if i > 0 {
			if _, err := fmt.Fprintln(w, "\n---"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, message); err != nil {
			return err
		}
	}
	if result.MessagesSent != nil {
		_, err := fmt.Fprintf(w, "\nDelivered %d/%d messages (%s)\n", *result.MessagesSent, len(result.Messages), result.Method)
		return err
	}
	return nil
}

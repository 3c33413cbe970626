package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/giantswarm/chatops-processor/internal/instrumentation"
	"github.com/giantswarm/chatops-processor/internal/logging"
	"github.com/giantswarm/chatops-processor/internal/output"
)

// DefaultPause is the delay between consecutive messages.
const DefaultPause = 500 * time.Millisecond

// Confirmation keyboard attached to destroy plans.
const (
	ConfirmButtonText   = "✅ Confirm Destroy"
	CancelButtonText    = "❌ Cancel"
	ConfirmCallbackData = "confirm_destroy:"
	CancelCallbackData  = "cancel"
)

// Sender delivers one message. *Telegram satisfies it.
type Sender interface {
	Send(ctx context.Context, chatID, text string, markup *ReplyMarkup) (json.RawMessage, error)
}

// Recorder receives delivery measurements. *instrumentation.Metrics satisfies it.
type Recorder interface {
	RecordDelivery(ctx context.Context, result string)
}

// Result is the outcome of one send attempt.
type Result struct {
	// Index is the 1-based position of the message.
	Index    int
	Response json.RawMessage
	Err      error
}

// Options describe what the delivered messages belong to.
type Options struct {
	Command output.Command
	// Project enables the confirmation keyboard on destroy plans.
	Project string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPause sets the delay between messages. Zero disables it.
func WithPause(pause time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if pause >= 0 {
			d.pause = pause
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) DispatcherOption {
	return func(d *Dispatcher) {
		d.recorder = recorder
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher sends message lists in order.
type Dispatcher struct {
	sender   Sender
	pause    time.Duration
	recorder Recorder
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher sending through sender.
func NewDispatcher(sender Sender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		pause:  DefaultPause,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deliver sends messages to chatID one after another and returns one Result
// per attempt. A cancelled context stops delivery between messages; the
// results collected so far are returned.
func (d *Dispatcher) Deliver(ctx context.Context, chatID string, messages []string, opts Options) []Result {
	total := len(messages)
	results := make([]Result, 0, total)
	logger := d.logger.With(logging.ChatHash(chatID), logging.Command(string(opts.Command)))

	for i, message := range messages {
		if i > 0 && !d.wait(ctx) {
			logger.Warn("delivery interrupted",
				slog.Int("sent", len(results)),
				slog.Int("total", total),
				logging.Err(ctx.Err()))
			break
		}

		index := i + 1
		text := message
		if total > 1 {
			text = fmt.Sprintf("**Message %d/%d**\n\n%s", index, total, message)
		}

		var markup *ReplyMarkup
		if index == total {
			markup = confirmationMarkup(opts)
		}

		results = append(results, d.send(ctx, logger, chatID, index, text, markup))
	}
	return results
}

func (d *Dispatcher) send(ctx context.Context, logger *slog.Logger, chatID string, index int, text string, markup *ReplyMarkup) Result {
	ctx, span := instrumentation.StartClientSpan(ctx, "delivery.send",
		attribute.Int(instrumentation.SpanAttrMessageIndex, index),
		attribute.String(instrumentation.SpanAttrChatHash, logging.AnonymizeChat(chatID)))
	defer span.End()

	response, err := d.sender.Send(ctx, chatID, text, markup)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		d.record(ctx, instrumentation.DeliveryResultFailed)
		logger.Error("failed to send message", logging.MessageIndex(index), logging.SanitizedErr(err))
		return Result{Index: index, Response: response, Err: err}
	}

	instrumentation.SetSpanSuccess(span)
	d.record(ctx, instrumentation.DeliveryResultSent)
	logger.Debug("message sent", logging.MessageIndex(index), slog.Bool("keyboard", markup != nil))
	return Result{Index: index, Response: response}
}

func (d *Dispatcher) record(ctx context.Context, result string) {
	if d.recorder != nil {
		d.recorder.RecordDelivery(ctx, result)
	}
}

// wait sleeps for the configured pause and reports whether ctx is still live.
func (d *Dispatcher) wait(ctx context.Context) bool {
	if d.pause <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d.pause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// confirmationMarkup returns the destroy confirmation keyboard, or nil when
// the messages are not a destroy plan for a named project.
func confirmationMarkup(opts Options) *ReplyMarkup {
	if opts.Command != output.CommandDestroy || opts.Project == "" {
		return nil
	}
	return &ReplyMarkup{
		InlineKeyboard: [][]InlineButton{{
			{Text: ConfirmButtonText, CallbackData: ConfirmCallbackData + opts.Project},
			{Text: CancelButtonText, CallbackData: CancelCallbackData},
		}},
	}
}

// Sent counts the successful results.
func Sent(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

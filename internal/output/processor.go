package output

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/giantswarm/chatops-processor/internal/instrumentation"
	"github.com/giantswarm/chatops-processor/internal/logging"
)

// TextGenerator turns a prompt into free text.
// Implementations live in the summarizer package.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Recorder receives pipeline measurements. *instrumentation.Metrics satisfies it.
type Recorder interface {
	RecordProcessing(ctx context.Context, command, method string, duration time.Duration)
	RecordSummarizerCall(ctx context.Context, task, result string, duration time.Duration)
}

// Summarizer call results reported to the Recorder.
const (
	SummarizerResultSuccess = "success"
	SummarizerResultEmpty   = "empty"
	SummarizerResultError   = "error"
)

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithTextGenerator sets the summarizer used for errors and high-risk plans.
func WithTextGenerator(generator TextGenerator) ProcessorOption {
	return func(p *Processor) {
		p.generator = generator
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) ProcessorOption {
	return func(p *Processor) {
		p.recorder = recorder
	}
}

// Processor turns raw plan/apply output into chat messages.
// It is safe for concurrent use; each call to Process is independent.
type Processor struct {
	config    *Config
	splitter  *Splitter
	generator TextGenerator
	recorder  Recorder
	logger    *slog.Logger
}

// NewProcessor creates a new output processor with the given configuration.
// Without a TextGenerator every AI branch takes its regex-only fallback.
func NewProcessor(config *Config, opts ...ProcessorOption) *Processor {
	if config == nil {
		config = DefaultConfig()
	}
	validated := config.Validate()

	p := &Processor{
		config:   validated,
		splitter: NewSplitter(validated),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns a copy of the processor configuration.
func (p *Processor) Config() *Config {
	return p.config.Clone()
}

// Split exposes the processor's splitter.
func (p *Processor) Split(message string) []string {
	return p.splitter.Split(message)
}

// Process runs the full pipeline over raw and returns the messages to deliver.
func (p *Processor) Process(ctx context.Context, raw string, command Command) Outcome {
	start := time.Now()
	ctx, span := instrumentation.StartSpan(ctx, "pipeline.process",
		instrumentation.NewSpanAttributeBuilder().WithCommand(string(command)).Build()...)
	defer span.End()

	logger := logging.WithCommand(p.logger, string(command))

	cleaned := RemoveDuplicateSections(SanitizeWithLimit(raw, p.config.MaxMessageLength))
	logger.Debug("output sanitized",
		slog.Int("raw_length", RuneLen(raw)),
		slog.Int("cleaned_length", RuneLen(cleaned)))

	outcome := p.decide(ctx, logger, cleaned, command)

	span.SetAttributes(
		attribute.String(instrumentation.SpanAttrMethod, string(outcome.Method)),
		attribute.Int(instrumentation.SpanAttrMessageCount, len(outcome.Messages)),
	)
	instrumentation.SetSpanSuccess(span)

	if p.recorder != nil {
		p.recorder.RecordProcessing(ctx, instrumentation.CommandLabel(string(command)), string(outcome.Method), time.Since(start))
	}
	logger.Info("output processed",
		logging.Method(string(outcome.Method)),
		slog.Int("messages", len(outcome.Messages)),
		logging.Duration(time.Since(start)))

	return outcome
}

// decide picks the processing path for cleaned output.
func (p *Processor) decide(ctx context.Context, logger *slog.Logger, cleaned string, command Command) Outcome {
	if errorText, ok := ExtractErrors(cleaned); ok {
		logger.Debug("error detected, requesting summary")
		return p.errorOutcome(ctx, errorText, command)
	}

	switch command {
	case CommandDestroy:
		summary, ok := ExtractPlanSummary(cleaned)
		if !ok {
			logger.Debug("no plan summary found, using simple processing")
			return p.regexOnly(FormatSimple(cleaned, command, p.config.MaxMessageLength))
		}
		if !HasHighRiskResources(cleaned, summary) {
			return p.regexOnly(FormatPlan(summary, "", cleaned))
		}
		logger.Debug("high-risk resources detected, requesting risk analysis")
		if analysis := p.generate(ctx, TaskRiskAnalysis, RiskPrompt(cleaned, summary)); analysis != "" {
			return p.outcome(FormatPlan(summary, analysis, cleaned), MethodRegexRiskAI)
		}
		return p.regexOnly(FormatPlan(summary, "", cleaned))

	case CommandConfirmDestroy:
		result, ok := ExtractApplyResult(cleaned)
		if !ok {
			logger.Debug("no apply result found, using simple processing")
			return p.regexOnly(FormatSimple(cleaned, command, p.config.MaxMessageLength))
		}
		if result.Status == ApplyStatusFailed {
			if errorText, found := ExtractErrors(cleaned); found {
				if summary := p.generate(ctx, TaskErrorSummary, ErrorPrompt(errorText)); summary != "" {
					return p.outcome(FormatError(summary, command), MethodRegexErrorAI)
				}
			}
		}
		return p.regexOnly(FormatApplyResult(result))

	case CommandStatus:
		return p.regexOnly(FormatStatus(cleaned))

	default:
		return p.regexOnly(FormatSimple(cleaned, command, p.config.MaxMessageLength))
	}
}

func (p *Processor) errorOutcome(ctx context.Context, errorText string, command Command) Outcome {
	if summary := p.generate(ctx, TaskErrorSummary, ErrorPrompt(errorText)); summary != "" {
		return p.outcome(FormatError(summary, command), MethodRegexErrorAI)
	}
	return p.regexOnly(FormatError(TruncateRunes(errorText, errorFallbackLength), command))
}

// generate calls the TextGenerator and converts every failure into "".
// Errors, panics and blank results never leave this function.
func (p *Processor) generate(ctx context.Context, task, prompt string) (text string) {
	if p.generator == nil {
		return ""
	}

	start := time.Now()
	ctx, span := instrumentation.StartClientSpan(ctx, "summarizer."+task,
		attribute.String(instrumentation.SpanAttrTask, task),
		attribute.Int(instrumentation.SpanAttrPromptLength, RuneLen(prompt)))
	defer span.End()

	result := SummarizerResultError
	defer func() {
		if p.recorder != nil {
			p.recorder.RecordSummarizerCall(ctx, task, result, time.Since(start))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("summarizer panicked: %v", r)
			instrumentation.SetSpanError(span, err)
			p.logger.Warn("summarizer unavailable", logging.Task(task), logging.Err(err))
			result = SummarizerResultError
			text = ""
		}
	}()

	out, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		p.logger.Warn("summarizer unavailable", logging.Task(task), logging.Err(err))
		return ""
	}

	out = strings.TrimSpace(out)
	if out == "" {
		result = SummarizerResultEmpty
		p.logger.Warn("summarizer returned empty text", logging.Task(task))
		return ""
	}

	result = SummarizerResultSuccess
	instrumentation.SetSpanSuccess(span)
	return out
}

func (p *Processor) regexOnly(message string) Outcome {
	return p.outcome(message, MethodRegexOnly)
}

func (p *Processor) outcome(message string, method Method) Outcome {
	return Outcome{Messages: p.splitter.Split(message), Method: method}
}

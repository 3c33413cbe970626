package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the chatops-processor module.
const TracerName = "github.com/giantswarm/chatops-processor"

// Span attribute keys for pipeline and delivery operations.
const (
	// SpanAttrCommand is the chat command attribute.
	SpanAttrCommand = "chatops.command"

	// SpanAttrMethod is the processing method attribute.
	SpanAttrMethod = "chatops.processing_method"

	// SpanAttrMessageCount is the number of produced or delivered messages.
	SpanAttrMessageCount = "chatops.message_count"

	// SpanAttrMessageIndex is the 1-based position of a delivered message.
	SpanAttrMessageIndex = "chatops.message_index"

	// SpanAttrTask is the summarizer task attribute.
	SpanAttrTask = "chatops.summarizer.task"

	// SpanAttrPromptLength is the summarizer prompt length in runes.
	SpanAttrPromptLength = "chatops.summarizer.prompt_length"

	// SpanAttrProject is the project attribute.
	SpanAttrProject = "chatops.project"

	// SpanAttrChatHash is the anonymized chat ID attribute.
	SpanAttrChatHash = "chatops.chat_hash"

	// SpanAttrErrorClass is the classified error attribute.
	SpanAttrErrorClass = "chatops.error_class"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming and cardinality controls.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 6),
	}
}

// WithCommand adds the command attribute, bounded by CommandLabel.
func (b *SpanAttributeBuilder) WithCommand(command string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrCommand, CommandLabel(command)))
	return b
}

// WithProject adds the project attribute when set.
func (b *SpanAttributeBuilder) WithProject(project string) *SpanAttributeBuilder {
	if project != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrProject, project))
	}
	return b
}

// WithChatHash adds an already anonymized chat identifier.
func (b *SpanAttributeBuilder) WithChatHash(chatHash string) *SpanAttributeBuilder {
	if chatHash != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrChatHash, chatHash))
	}
	return b
}

// WithMessageCount adds the message count attribute.
func (b *SpanAttributeBuilder) WithMessageCount(n int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrMessageCount, n))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a new span with the given name and attributes.
// Returns the context with the span and the span itself.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartClientSpan starts a span for a call to a remote service such as the
// summarizer or the chat API.
func StartClientSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(SpanAttrErrorClass, ClassifyError(err)))
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds an event to the span with optional attributes.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// SpanContextString returns a human-readable trace context string.
// Format: "trace_id=X span_id=Y" or empty string if no valid context.
func SpanContextString(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return "trace_id=" + span.SpanContext().TraceID().String() +
		" span_id=" + span.SpanContext().SpanID().String()
}

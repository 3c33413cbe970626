package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod  = "method"
	attrPath    = "path"
	attrStatus  = "status"
	attrResult  = "result"
	attrCommand = "command"
	attrTask    = "task"
	attrOutcome = "processing_method"
)

var durationBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}

// Metrics provides methods for recording observability metrics.
// A zero Metrics records nothing, which is what a disabled Provider hands out.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Pipeline metrics
	processingTotal    metric.Int64Counter
	processingDuration metric.Float64Histogram

	// Summarizer metrics
	summarizerTotal    metric.Int64Counter
	summarizerDuration metric.Float64Histogram

	// Delivery metrics
	deliveryMessagesTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Pipeline Metrics
	m.processingTotal, err = meter.Int64Counter(
		"output_processing_total",
		metric.WithDescription("Total number of processed command outputs"),
		metric.WithUnit("{output}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create output_processing_total counter: %w", err)
	}

	m.processingDuration, err = meter.Float64Histogram(
		"output_processing_duration_seconds",
		metric.WithDescription("Output processing duration in seconds, summarizer calls included"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create output_processing_duration_seconds histogram: %w", err)
	}

	// Summarizer Metrics
	m.summarizerTotal, err = meter.Int64Counter(
		"summarizer_invocations_total",
		metric.WithDescription("Total number of summarizer invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer_invocations_total counter: %w", err)
	}

	m.summarizerDuration, err = meter.Float64Histogram(
		"summarizer_duration_seconds",
		metric.WithDescription("Summarizer invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer_duration_seconds histogram: %w", err)
	}

	// Delivery Metrics
	m.deliveryMessagesTotal, err = meter.Int64Counter(
		"delivery_messages_total",
		metric.WithDescription("Total number of chat messages delivery attempts"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery_messages_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordProcessing records one pipeline run by command and resulting processing method.
//
// CARDINALITY NOTE: command must already be bounded (see CommandLabel).
func (m *Metrics) RecordProcessing(ctx context.Context, command, method string, duration time.Duration) {
	if m == nil || m.processingTotal == nil || m.processingDuration == nil {
		return // Instrumentation not initialized
	}

	m.processingTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrCommand, command),
		attribute.String(attrOutcome, method),
	))
	m.processingDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrCommand, command),
	))
}

// RecordSummarizerCall records a summarizer invocation by task and result.
// Result should be one of: "success", "empty", "error"
func (m *Metrics) RecordSummarizerCall(ctx context.Context, task, result string, duration time.Duration) {
	if m == nil || m.summarizerTotal == nil || m.summarizerDuration == nil {
		return // Instrumentation not initialized
	}

	m.summarizerTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTask, task),
		attribute.String(attrResult, result),
	))
	m.summarizerDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrTask, task),
	))
}

// RecordDelivery records one chat message delivery attempt.
// Result should be one of: "sent", "failed"
func (m *Metrics) RecordDelivery(ctx context.Context, result string) {
	if m == nil || m.deliveryMessagesTotal == nil {
		return // Instrumentation not initialized
	}

	m.deliveryMessagesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

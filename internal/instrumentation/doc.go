// Package instrumentation provides OpenTelemetry instrumentation for the
// chatops-processor service.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, output processing, summarizer calls and message delivery
//   - Distributed tracing for the processing pipeline and outbound API calls
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Pipeline Metrics:
//   - output_processing_total: Counter of processed outputs by command and processing_method
//   - output_processing_duration_seconds: Histogram of processing durations by command
//
// Summarizer Metrics:
//   - summarizer_invocations_total: Counter of summarizer calls by task and result
//   - summarizer_duration_seconds: Histogram of summarizer call durations by task
//
// Delivery Metrics:
//   - delivery_messages_total: Counter of chat message sends by result
//
// # Cardinality Considerations
//
// Commands arrive from chat users. They are collapsed with CommandLabel before
// being used as a label, so unknown commands share the "other" series. Chat
// IDs and project names never appear on metrics; they are only attached to
// spans, and chat IDs only in anonymized form.
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling
//   - The output processing pipeline
//   - Summarizer invocations (client spans)
//   - Chat API sends (client spans)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: chatops-processor)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:     "chatops-processor",
//		ServiceVersion:  "0.1.0",
//		Enabled:         true,
//		MetricsExporter: instrumentation.MetricsExporterPrometheus,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordHTTPRequest(ctx, "POST", "/process", 200, time.Since(start))
//	recorder.RecordDelivery(ctx, instrumentation.DeliveryResultSent)
package instrumentation

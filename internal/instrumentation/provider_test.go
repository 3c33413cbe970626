package instrumentation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("expected no error for disabled provider, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected non-nil metrics for disabled provider")
	}

	// Recording on a disabled provider must be a no-op.
	metrics.RecordProcessing(ctx, "status", "regex_only", time.Millisecond)

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("expected no error shutting down disabled provider, got %v", err)
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Enabled:         true,
		MetricsExporter: "graphite",
		TracingExporter: TracingExporterNone,
	})
	if !errors.Is(err, ErrUnsupportedExporter) {
		t.Fatalf("expected ErrUnsupportedExporter, got %v", err)
	}
}

func TestNewProvider_StdoutTracing(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{
		ServiceName:       "test-provider-stdout",
		ServiceVersion:    "1.0.0",
		Enabled:           true,
		MetricsExporter:   MetricsExporterPrometheus,
		TracingExporter:   TracingExporterStdout,
		TraceSamplingRate: 0,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}
	if provider.Config().ServiceName != "test-provider-stdout" {
		t.Errorf("expected config to be retained, got %q", provider.Config().ServiceName)
	}
	if provider.tracerProvider == nil {
		t.Error("expected tracer provider to be created")
	}

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}

func TestProvider_NilSafe(t *testing.T) {
	var provider *Provider

	if provider.Enabled() {
		t.Error("nil provider should not be enabled")
	}
	if provider.Metrics() != nil {
		t.Error("nil provider should return nil metrics")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("nil provider shutdown should succeed, got %v", err)
	}
}

func TestOTLPURL(t *testing.T) {
	tests := []struct {
		endpoint string
		expected string
	}{
		{"http://localhost:4318", "http://localhost:4318/v1/traces"},
		{"http://localhost:4318/", "http://localhost:4318/v1/traces"},
		{"https://otel.example.com/v1/traces", "https://otel.example.com/v1/traces"},
	}

	for _, tt := range tests {
		if got := otlpURL(tt.endpoint, "/v1/traces"); got != tt.expected {
			t.Errorf("otlpURL(%q) = %q, want %q", tt.endpoint, got, tt.expected)
		}
	}
}

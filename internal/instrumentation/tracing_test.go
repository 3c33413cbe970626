package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// Test constants for tracing tests
const (
	tracingTestProject  = "staging-vpc"
	tracingTestChatHash = "chat:1a2b3c4d"
)

func TestSpanAttributeBuilder(t *testing.T) {
	t.Run("empty builder", func(t *testing.T) {
		attrs := NewSpanAttributeBuilder().Build()
		if len(attrs) != 0 {
			t.Errorf("Empty builder should return 0 attributes, got %d", len(attrs))
		}
	})

	t.Run("with known command", func(t *testing.T) {
		attrs := NewSpanAttributeBuilder().WithCommand("destroy").Build()
		if len(attrs) != 1 {
			t.Fatalf("Expected 1 attribute, got %d", len(attrs))
		}
		if attrs[0].Key != SpanAttrCommand {
			t.Errorf("Expected key %q, got %q", SpanAttrCommand, attrs[0].Key)
		}
		if attrs[0].Value.AsString() != "destroy" {
			t.Errorf("Expected value %q, got %q", "destroy", attrs[0].Value.AsString())
		}
	})

	t.Run("with unknown command", func(t *testing.T) {
		attrs := NewSpanAttributeBuilder().WithCommand("rm -rf /").Build()
		if attrs[0].Value.AsString() != CommandOther {
			t.Errorf("Expected unknown command to be bounded to %q, got %q", CommandOther, attrs[0].Value.AsString())
		}
	})

	t.Run("empty optional values are skipped", func(t *testing.T) {
		attrs := NewSpanAttributeBuilder().WithProject("").WithChatHash("").Build()
		if len(attrs) != 0 {
			t.Errorf("Expected 0 attributes, got %d", len(attrs))
		}
	})

	t.Run("chained", func(t *testing.T) {
		attrs := NewSpanAttributeBuilder().
			WithCommand("status").
			WithProject(tracingTestProject).
			WithChatHash(tracingTestChatHash).
			WithMessageCount(3).
			Build()

		if len(attrs) != 4 {
			t.Fatalf("Expected 4 attributes, got %d", len(attrs))
		}

		attrMap := attrsToMap(attrs)
		if attrMap[SpanAttrProject].AsString() != tracingTestProject {
			t.Errorf("Expected project %q, got %q", tracingTestProject, attrMap[SpanAttrProject].AsString())
		}
		if attrMap[SpanAttrChatHash].AsString() != tracingTestChatHash {
			t.Errorf("Expected chat hash %q, got %q", tracingTestChatHash, attrMap[SpanAttrChatHash].AsString())
		}
		if attrMap[SpanAttrMessageCount].AsInt64() != 3 {
			t.Errorf("Expected message count 3, got %d", attrMap[SpanAttrMessageCount].AsInt64())
		}
	})
}

func TestStartSpans(t *testing.T) {
	exporter := useTestTracerProvider(t)

	ctx, span := StartSpan(context.Background(), "pipeline.process",
		attribute.String(SpanAttrCommand, "status"))
	_, child := StartClientSpan(ctx, "summarizer.risk_analysis")
	child.End()
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("Expected 2 spans, got %d", len(spans))
	}

	// Spans are exported in the order they end.
	if spans[0].Name != "summarizer.risk_analysis" {
		t.Errorf("Expected first exported span to be the client span, got %q", spans[0].Name)
	}
	if spans[0].SpanKind != trace.SpanKindClient {
		t.Errorf("Expected client span kind, got %v", spans[0].SpanKind)
	}
	if spans[0].Parent.SpanID() != spans[1].SpanContext.SpanID() {
		t.Error("Expected client span to be a child of the pipeline span")
	}
	if spans[1].SpanKind != trace.SpanKindInternal {
		t.Errorf("Expected internal span kind, got %v", spans[1].SpanKind)
	}
}

func TestSetSpanError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := tp.Tracer(TracerName)

	_, span := tracer.Start(context.Background(), "test-span")
	SetSpanError(span, context.DeadlineExceeded)
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("Expected error status, got %v", spans[0].Status.Code)
	}

	attrMap := attrsToMap(spans[0].Attributes)
	if attrMap[SpanAttrErrorClass].AsString() != ErrorClassTimeout {
		t.Errorf("Expected error class %q, got %q", ErrorClassTimeout, attrMap[SpanAttrErrorClass].AsString())
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("Expected the error to be recorded as an event, got %d events", len(spans[0].Events))
	}
}

func TestSetSpanError_Nil(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	_, span := tp.Tracer(TracerName).Start(context.Background(), "test-span")
	SetSpanError(span, nil)
	span.End()

	if got := exporter.GetSpans()[0].Status.Code; got != codes.Unset {
		t.Errorf("Expected unset status for nil error, got %v", got)
	}
}

func TestSetSpanSuccess(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	_, span := tp.Tracer(TracerName).Start(context.Background(), "test-span")
	SetSpanSuccess(span)
	span.End()

	if got := exporter.GetSpans()[0].Status.Code; got != codes.Ok {
		t.Errorf("Expected OK status, got %v", got)
	}
}

func TestAddSpanEvent(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	_, span := tp.Tracer(TracerName).Start(context.Background(), "test-span")
	AddSpanEvent(span, "message.sent", attribute.Int(SpanAttrMessageIndex, 2))
	span.End()

	events := exporter.GetSpans()[0].Events
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Name != "message.sent" {
		t.Errorf("Expected event name %q, got %q", "message.sent", events[0].Name)
	}
	if attrsToMap(events[0].Attributes)[SpanAttrMessageIndex].AsInt64() != 2 {
		t.Error("Expected message index attribute on event")
	}
}

func TestTraceContextHelpers(t *testing.T) {
	t.Run("no span in context", func(t *testing.T) {
		if got := GetTraceID(context.Background()); got != "" {
			t.Errorf("Expected empty trace ID, got %q", got)
		}
		if got := SpanContextString(context.Background()); got != "" {
			t.Errorf("Expected empty span context string, got %q", got)
		}
	})

	t.Run("with span in context", func(t *testing.T) {
		ctx, span, _ := createTestSpanContext()
		defer span.End()

		traceID := GetTraceID(ctx)
		if len(traceID) != 32 {
			t.Errorf("Expected 32 hex chars trace ID, got %q", traceID)
		}
		want := "trace_id=" + traceID + " span_id=" + span.SpanContext().SpanID().String()
		if got := SpanContextString(ctx); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})
}

func TestSetSpanError_WrappedCanceled(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	_, span := tp.Tracer(TracerName).Start(context.Background(), "test-span")
	SetSpanError(span, errors.Join(errors.New("send failed"), context.Canceled))
	span.End()

	attrMap := attrsToMap(exporter.GetSpans()[0].Attributes)
	if attrMap[SpanAttrErrorClass].AsString() != ErrorClassCanceled {
		t.Errorf("Expected error class %q, got %q", ErrorClassCanceled, attrMap[SpanAttrErrorClass].AsString())
	}
}

// useTestTracerProvider installs an in-memory tracer provider as the global
// provider for the duration of the test.
func useTestTracerProvider(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func createTestSpanContext() (context.Context, trace.Span, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	tracer := tp.Tracer(TracerName)
	ctx, span := tracer.Start(context.Background(), "test-span")

	return ctx, span, exporter
}

func attrsToMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, attr := range attrs {
		m[attr.Key] = attr.Value
	}
	return m
}

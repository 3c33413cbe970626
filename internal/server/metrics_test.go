package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/chatops-processor/internal/instrumentation"
)

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name        string
		config      MetricsServerConfig
		wantErr     bool
		errContains string
		wantAddr    string
	}{
		{
			name: "nil instrumentation provider",
			config: MetricsServerConfig{
				Addr: ":9090",
			},
			wantErr:     true,
			errContains: "instrumentation provider is required",
		},
		{
			name: "valid config uses default addr",
			config: MetricsServerConfig{
				InstrumentationProvider: createTestProvider(t),
			},
			wantAddr: DefaultMetricsAddr,
		},
		{
			name: "valid config with custom addr",
			config: MetricsServerConfig{
				Addr:                    ":9091",
				InstrumentationProvider: createTestProvider(t),
			},
			wantAddr: ":9091",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewMetricsServer(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, server)
			assert.Equal(t, tt.wantAddr, server.Addr())
		})
	}
}

func TestMetricsServer_StartAndShutdown(t *testing.T) {
	provider := createTestProvider(t)
	provider.Metrics().RecordProcessing(context.Background(), "status", "regex_only", 5*time.Millisecond)

	const addr = "127.0.0.1:19092"
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
	})
	require.NoError(t, err)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		data, err := io.ReadAll(resp.Body)
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		body = string(data)
		return true
	}, 2*time.Second, 20*time.Millisecond, "metrics endpoint never became reachable")

	assert.Contains(t, body, "output_processing_total")

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-serverErr:
		if err != nil {
			assert.True(t, errors.Is(err, http.ErrServerClosed), "unexpected server error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for server to stop")
	}
}

func TestMetricsServer_ShutdownWithoutStart(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    "127.0.0.1:19093",
		InstrumentationProvider: createTestProvider(t),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, server.Shutdown(ctx))
}

func TestMetricsServer_StartFailsOnBusyPort(t *testing.T) {
	const addr = "127.0.0.1:19094"
	first, err := NewMetricsServer(MetricsServerConfig{Addr: addr, InstrumentationProvider: createTestProvider(t)})
	require.NoError(t, err)

	started := make(chan error, 1)
	go func() { started <- first.Start() }()
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	second, err := NewMetricsServer(MetricsServerConfig{Addr: addr, InstrumentationProvider: createTestProvider(t)})
	require.NoError(t, err)

	err = second.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics server listen on "+addr)
}

// createTestProvider creates a Prometheus-backed instrumentation provider for testing.
func createTestProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "chatops-processor-test",
		Enabled:         true,
		MetricsExporter: instrumentation.MetricsExporterPrometheus,
		TracingExporter: instrumentation.TracingExporterNone,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	statusOK           = "ok"
	statusNotReady     = "not ready"
	statusShuttingDown = "shutting down"
	statusDisabled     = "disabled"
)

// HealthChecker serves the liveness, readiness and detailed health endpoints.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker returns a checker that reports ready until SetReady(false).
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady flips the readiness state. The serve command clears it when
// shutdown begins so load balancers stop routing new requests.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the current readiness state.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Version string            `json:"version,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status          string                      `json:"status"`
	Version         string                      `json:"version,omitempty"`
	Uptime          string                      `json:"uptime"`
	Pipeline        *PipelineHealthStatus       `json:"pipeline,omitempty"`
	Instrumentation *InstrumentationHealthCheck `json:"instrumentation,omitempty"`
}

// PipelineHealthStatus reports the effective processing configuration.
type PipelineHealthStatus struct {
	AIEnabled        bool   `json:"ai_enabled"`
	AIProvider       string `json:"ai_provider"`
	MaxMessageLength int    `json:"max_message_length"`
	MaxMessages      int    `json:"max_messages"`
}

// InstrumentationHealthCheck reports which exporters are active.
type InstrumentationHealthCheck struct {
	Enabled         bool   `json:"enabled"`
	MetricsExporter string `json:"metrics_exporter,omitempty"`
	TracingExporter string `json:"tracing_exporter,omitempty"`
}

// RegisterHealthEndpoints mounts the three health endpoints on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

// LivenessHandler answers /healthz. Responding at all means the process is alive.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealthJSON(w, http.StatusOK, HealthResponse{
			Status:  statusOK,
			Version: h.version(),
		})
	})
}

// ReadinessHandler answers /readyz with one entry per check.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks, ok := h.probe()
		response := HealthResponse{Status: statusOK, Checks: checks}
		code := http.StatusOK
		if !ok {
			response.Status = statusNotReady
			code = http.StatusServiceUnavailable
		}
		writeHealthJSON(w, code, response)
	})
}

// DetailedHealthHandler answers /healthz/detailed with uptime, pipeline
// settings and exporter state.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := DetailedHealthResponse{
			Status:  statusOK,
			Version: h.version(),
			Uptime:  time.Since(h.startTime).Truncate(time.Second).String(),
		}
		if h.serverContext != nil {
			response.Pipeline = h.pipelineStatus()
			response.Instrumentation = h.instrumentationStatus()
		}

		code := http.StatusOK
		switch {
		case !h.ready.Load():
			response.Status = statusNotReady
			code = http.StatusServiceUnavailable
		case h.serverContext != nil && h.serverContext.IsShutdown():
			response.Status = statusShuttingDown
			code = http.StatusServiceUnavailable
		}
		writeHealthJSON(w, code, response)
	})
}

// probe runs the readiness checks. The instrumentation entry is informational
// and never fails the probe.
func (h *HealthChecker) probe() (map[string]string, bool) {
	checks := map[string]string{
		"ready":    statusOK,
		"shutdown": statusOK,
	}
	ok := true

	if !h.ready.Load() {
		checks["ready"] = statusNotReady
		ok = false
	}
	if h.serverContext == nil {
		return checks, ok
	}
	if h.serverContext.IsShutdown() {
		checks["shutdown"] = statusShuttingDown
		ok = false
	}
	if provider := h.serverContext.InstrumentationProvider(); provider != nil {
		checks["instrumentation"] = statusDisabled
		if provider.Enabled() {
			checks["instrumentation"] = statusOK
		}
	}
	return checks, ok
}

func (h *HealthChecker) version() string {
	if h.serverContext == nil || h.serverContext.Config() == nil {
		return ""
	}
	return h.serverContext.Config().Version
}

func (h *HealthChecker) pipelineStatus() *PipelineHealthStatus {
	processor := h.serverContext.Processor()
	if processor == nil {
		return nil
	}

	cfg := processor.Config()
	status := &PipelineHealthStatus{
		AIEnabled:        cfg.EnableAI,
		MaxMessageLength: cfg.MaxMessageLength,
		MaxMessages:      cfg.MaxMessages,
	}
	if serverCfg := h.serverContext.Config(); serverCfg != nil {
		status.AIProvider = serverCfg.AIProvider
	}
	return status
}

func (h *HealthChecker) instrumentationStatus() *InstrumentationHealthCheck {
	provider := h.serverContext.InstrumentationProvider()
	if provider == nil || !provider.Enabled() {
		return &InstrumentationHealthCheck{}
	}
	cfg := provider.Config()
	return &InstrumentationHealthCheck{
		Enabled:         true,
		MetricsExporter: cfg.MetricsExporter,
		TracingExporter: cfg.TracingExporter,
	}
}

func writeHealthJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

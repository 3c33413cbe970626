package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/giantswarm/chatops-processor/internal/logging"
	"github.com/giantswarm/chatops-processor/internal/server/middleware"
)

// Error bodies that never carry internal detail.
const (
	errProcessingFailed   = "Processing failed"
	errInvalidRequestBody = "Invalid request body"
	errMethodNotAllowed   = "Method not allowed"
)

// ProcessHandler returns the POST /process handler.
// Bodies above Config.MaxBodyBytes are rejected with 413.
func (sc *ServerContext) ProcessHandler() http.Handler {
	limit := middleware.MaxRequestSize(sc.Config().MaxBodyBytes)
	return limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: errMethodNotAllowed})
			return
		}

		logger := logging.WithOperation(sc.Logger(), "process").
			With(logging.RequestID(middleware.RequestIDFromContext(r.Context())))

		var req ProcessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				logger.Warn("request body too large", slog.Int64("limit", tooLarge.Limit))
				writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: errInvalidRequestBody})
				return
			}
			logger.Warn("invalid request body", logging.Err(err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errInvalidRequestBody})
			return
		}

		if err := req.Validate(); err != nil {
			logger.Warn("request rejected", logging.Err(err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationMessages[err]})
			return
		}

		resp, err := sc.Process(r.Context(), req)
		if err != nil {
			logger.Error("processing failed", logging.SanitizedErr(err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: errProcessingFailed})
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}))
}

// NewHTTPHandler assembles the API routes and middleware chain.
func NewHTTPHandler(sc *ServerContext, health *HealthChecker) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/process", sc.ProcessHandler())
	if health != nil {
		health.RegisterHealthEndpoints(mux)
	}

	var handler http.Handler = mux
	handler = middleware.HTTPMetrics(sc.InstrumentationProvider())(handler)
	handler = middleware.SecurityHeaders(middleware.SecurityHeadersConfig{})(handler)
	handler = middleware.RequestID()(handler)
	return handler
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

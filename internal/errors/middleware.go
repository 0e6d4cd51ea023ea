package errors

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// runIDHeader is set by the feature handler on successful builds. Reading it
// back from the response ties the access log line to the run's own logs.
const runIDHeader = "X-Run-ID"

// ErrorMiddleware writes one access log line per request and turns panics
// into problem responses
type ErrorMiddleware struct {
	handler *ErrorHandler
	logger  *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(handler *ErrorHandler, logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		handler: handler,
		logger:  logger.With(slog.String("component", "error_middleware")),
	}
}

// Handler returns the middleware handler function
func (m *ErrorMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			if rec := recover(); rec != nil {
				// net/http uses this panic to abort a response on purpose
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				m.handler.HandlePanic(ww, r, rec)
			}
			m.access(r, ww, time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	})
}

func (m *ErrorMiddleware) access(r *http.Request, ww middleware.WrapResponseWriter, elapsed time.Duration) {
	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}

	var level slog.Level
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	default:
		level = slog.LevelInfo
	}

	attrs := make([]slog.Attr, 0, 10)
	attrs = append(attrs,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Duration("duration", elapsed),
		slog.Int("bytes", ww.BytesWritten()),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String("query", r.URL.RawQuery))
	}
	if runID := ww.Header().Get(runIDHeader); runID != "" {
		attrs = append(attrs, slog.String("run_id", runID))
	}
	if r.ContentLength > 0 {
		attrs = append(attrs, slog.Int64("upload_bytes", r.ContentLength))
	}

	m.logger.LogAttrs(r.Context(), level, "http request", attrs...)
}

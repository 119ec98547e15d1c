package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// RequestID reuses the caller's X-Request-ID or generates one, and echoes it
// on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger puts a logger scoped to the request ID in the context and
// logs one line per request once the handler returns.
func RequestLogger(logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			id := GetRequestID(r.Context())
			reqLogger, scoped := withRequestID(logger, id)
			ctx := context.WithValue(r.Context(), loggerContextKey, reqLogger)

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", wrapped.written,
				"ip", r.RemoteAddr,
			}
			if !scoped {
				fields = append(fields, "request_id", id)
			}
			reqLogger.Info("HTTP request", fields...)
		})
	}
}

// Recoverer turns a handler panic into a 500 JSON response.
func Recoverer(logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := apperrors.NewInternalError("Unexpected error", fmt.Errorf("panic: %v", rec))
					loggerFor(r, logger).Error("Handler panic", err, "path", r.URL.Path)
					writeError(w, err.StatusCode, err.Message)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"
)

type contextKey string

const (
	requestIDContextKey contextKey = "request_id"
	loggerContextKey    contextKey = "logger"
)

// fieldLogger is a logger that can carry fields into every entry.
type fieldLogger interface {
	With(fields ...interface{}) domain.Logger
}

// GetRequestID returns the ID assigned by the RequestID middleware.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// withRequestID scopes logger to the request ID. ok is false when the logger
// cannot carry fields.
func withRequestID(logger domain.Logger, id string) (scoped domain.Logger, ok bool) {
	if fl, isField := logger.(fieldLogger); isField && id != "" {
		return fl.With("request_id", id), true
	}
	return logger, false
}

// loggerFor returns the request-scoped logger set by RequestLogger, or fallback.
func loggerFor(r *http.Request, fallback domain.Logger) domain.Logger {
	if l, ok := r.Context().Value(loggerContextKey).(domain.Logger); ok {
		return l
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps err to its status code. Unclassified errors are 500s.
func writeAppError(w http.ResponseWriter, logger domain.Logger, r *http.Request, err error) {
	logger = loggerFor(r, logger)
	status := apperrors.GetStatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "path", r.URL.Path)
	} else {
		logger.Warn("Request rejected", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, apperrors.PublicMessage(err))
}

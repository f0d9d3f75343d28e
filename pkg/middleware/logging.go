package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/propmanagement/backend/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// Logging logs HTTP requests with structured logging.
// An incoming X-Request-ID is reused, otherwise a new one is generated.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		rw := newStatusRecorder(w)

		next.ServeHTTP(rw, r.WithContext(ctx))

		duration := time.Since(start)
		event := logger.Info(ctx)
		if rw.statusCode >= http.StatusInternalServerError {
			event = logger.Error(ctx)
		} else if rw.statusCode >= http.StatusBadRequest {
			event = logger.Warn(ctx)
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Int("status", rw.statusCode).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("HTTP request completed")
	})
}

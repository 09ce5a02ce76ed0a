package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey contextKey = "requestID"

// maxRequestIDLen bounds client supplied IDs before they reach the logs.
const maxRequestIDLen = 128

// Logger assigns each request an ID and logs one line when it completes.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		ctx := context.WithValue(r.Context(), requestIDKey, id)

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			slog.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", id,
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the ID assigned by Logger, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
	"github.com/lcalzada-xor/authgate/internal/telemetry"
)

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogMiddleware persists one access record per request after the
// response is written. Persistence runs off the request goroutine so a slow
// database never delays the response.
func RequestLogMiddleware(store ports.RequestLogStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			entry := domain.RequestLog{
				IP:           ClientIP(r),
				Endpoint:     r.URL.Path,
				Method:       r.Method,
				StatusCode:   rec.status,
				ResponseTime: float64(time.Since(start).Microseconds()) / 1000.0,
				Timestamp:    start.UTC(),
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := store.SaveRequestLog(ctx, entry); err != nil {
					telemetry.PersistenceErrors.WithLabelValues("request_log").Inc()
					slog.Error("failed to persist request log", "endpoint", entry.Endpoint, "error", err)
				}
			}()
		})
	}
}

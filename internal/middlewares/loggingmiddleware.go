package middlewares

import (
	"context"
	"net/http"

	"github.com/the127/keyv/internal/logging"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const RequestIdHeader = "X-Request-Id"

type requestIdKeyType string

// LoggingMiddleware tags every request with an id, taken from the request
// when the client sent one, and logs it with status and duration.
func LoggingMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := r.Header.Get(RequestIdHeader)
			if requestId == "" {
				requestId = uuid.NewString()
			}

			w.Header().Set(RequestIdHeader, requestId)
			r = r.WithContext(context.WithValue(r.Context(), requestIdKeyType("requestId"), requestId))

			metrics := httpsnoop.CaptureMetrics(next, w, r)
			logging.Logger.Infow("API Request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", metrics.Code,
				"duration", metrics.Duration,
				"requestId", requestId,
			)
		})
	}
}

// GetRequestId returns the id assigned by LoggingMiddleware, empty outside a request.
func GetRequestId(ctx context.Context) string {
	requestId, _ := ctx.Value(requestIdKeyType("requestId")).(string)
	return requestId
}

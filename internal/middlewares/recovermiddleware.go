package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/the127/keyv/internal/logging"
	"github.com/the127/keyv/internal/utils/apiError"
)

// RecoverMiddleware turns a handler panic into a 500 json error. It sits
// inside LoggingMiddleware so the request id is known.
func RecoverMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				logging.Logger.Errorw("recovered from panic",
					"panic", recovered,
					"requestId", GetRequestId(r.Context()),
				)
				apiError.HandleHttpError(w, fmt.Errorf("handler panicked: %v", recovered))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gastaro/gastaro/pkg/logger"
)

// Recovery converts panics into 500 responses using the same error
// envelope the handlers emit. Must run after RequestID so the
// request-scoped logger carries the trace ID.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.From(r.Context()).Error("panic recovered",
					"error", err,
					"method", r.Method,
					"url", r.URL.String(),
					"stack", string(debug.Stack()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, `{"code": %d, "message": "internal server error"}`, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

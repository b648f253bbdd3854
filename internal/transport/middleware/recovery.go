package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/transport"
)

// Recovery turns a handler panic into the standard 500 envelope.
func Recovery(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					lg.ErrorContext(r.Context(), "panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"traceID", internal.TraceIDFromContext(r.Context()),
						"stack", string(debug.Stack()))
					transport.WriteAppError(w, internal.NewInternalError("internal server error", nil), lg)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

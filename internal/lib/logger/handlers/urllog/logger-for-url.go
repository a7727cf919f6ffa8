// Package urllog is the storefront's request-line middleware: every
// incoming call is logged through the application slog logger instead of
// chi's own log format, so API traffic lands in the same stream (and
// shape) as the rest of the service's logs.
package urllog

import (
	"log/slog"
	"net/http"
)

func CustomLoggerMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info("request received",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remote", r.RemoteAddr),
			)
			next.ServeHTTP(w, r)
		})
	}
}

// Package middleware provides HTTP middleware for the trips API.
package middleware

import (
	"net/http"
	"time"

	"fluxitech/mimatour-api/logger"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRequestLogger returns a middleware that logs each request with its
// method, path, status, duration and the request ID set by chi's RequestID
// middleware. Wire it after chimiddleware.RequestID.
func NewRequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := log.Info()
			if status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Int("status", status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fluxitech/mimatour-api/logger"
)

// errorBody is the JSON shape of every failed response
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewRecoverer returns a middleware that turns a panicking handler into a
// 500 JSON response instead of dropping the connection.
func NewRecoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", rec).
					Msg("Recovered from panic")

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(errorBody{
					Error:   "Erro interno do servidor",
					Message: fmt.Sprint(rec),
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

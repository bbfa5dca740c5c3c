package handler

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn().Err(err).Msg("Failed to write response")
	}
}

// internalError logs err and answers 500 with a user-facing summary
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, summary string, err error) {
	s.log.Error().Err(err).Str("path", r.URL.Path).Msg(summary)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   summary,
		Message: err.Error(),
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Rota não encontrada"})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Método não permitido"})
}

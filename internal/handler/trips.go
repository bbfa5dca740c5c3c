package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fluxitech/mimatour-api/internal/crawler"
	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/internal/normalizer"

	"github.com/go-chi/chi/v5"
)

const maxWebhookBody = 1 << 20

type listMeta struct {
	Total    int      `json:"total"`
	Query    string   `json:"query,omitempty"`
	PrecoMin *float64 `json:"preco_min,omitempty"`
	PrecoMax *float64 `json:"preco_max,omitempty"`
}

type listResponse struct {
	Success bool          `json:"success"`
	Data    []models.Trip `json:"data"`
	Meta    listMeta      `json:"meta"`
}

type tripResponse struct {
	Success bool        `json:"success"`
	Data    models.Trip `json:"data"`
}

type healthResponse struct {
	Success   bool   `json:"success"`
	Service   string `json:"service"`
	Status    string `json:"status"`
	Mock      bool   `json:"mock"`
	Timestamp string `json:"timestamp"`
}

// GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Success:   true,
		Service:   ServiceName,
		Status:    "ok",
		Mock:      s.mock,
		Timestamp: s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// GET /trips?destino=&data=&preco_min=&preco_max=&categoria=&q=
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := filtersFromQuery(query)

	trips, err := s.trips.List(r.Context(), filters)
	if err != nil {
		s.internalError(w, r, "Falha ao listar viagens", err)
		return
	}

	meta := listMeta{PrecoMin: filters.PrecoMin, PrecoMax: filters.PrecoMax}
	if q := strings.TrimSpace(query.Get("q")); q != "" {
		trips = normalizer.Search(trips, q)
		meta.Query = q
		w.Header().Set("X-Filtro-Q", url.QueryEscape(q))
	}
	meta.Total = len(trips)

	s.writeJSON(w, http.StatusOK, listResponse{Success: true, Data: trips, Meta: meta})
}

// GET /trips/search?q=
func (s *Server) searchTrips(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: `Parâmetro "q" é obrigatório`})
		return
	}
	s.search(w, r, q)
}

// GET /trips/search/{term}
func (s *Server) searchTripsByPath(w http.ResponseWriter, r *http.Request) {
	term, err := url.PathUnescape(chi.URLParam(r, "term"))
	if err != nil {
		term = chi.URLParam(r, "term")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: `Parâmetro "q" é obrigatório`})
		return
	}
	s.search(w, r, term)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, term string) {
	trips, err := s.trips.Search(r.Context(), term)
	if err != nil {
		s.internalError(w, r, "Falha na busca", err)
		return
	}

	price := filtersFromQuery(r.URL.Query())
	if price.PrecoMin != nil || price.PrecoMax != nil {
		trips = normalizer.ApplyFilters(trips, models.Filters{PrecoMin: price.PrecoMin, PrecoMax: price.PrecoMax})
	}

	s.writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Data:    trips,
		Meta: listMeta{
			Total:    len(trips),
			Query:    term,
			PrecoMin: price.PrecoMin,
			PrecoMax: price.PrecoMax,
		},
	})
}

// GET /trips/{id}
func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		id = chi.URLParam(r, "id")
	}

	trip, ok, err := s.trips.Get(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "Falha ao obter viagem", err)
		return
	}
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Viagem não encontrada", ID: id})
		return
	}
	s.writeJSON(w, http.StatusOK, tripResponse{Success: true, Data: trip})
}

// POST /webhook/in logs whatever the chat platform sends
func (s *Server) webhookIn(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Corpo inválido", Message: err.Error()})
		return
	}

	event := s.log.Info().Int("bytes", len(body))
	if json.Valid(body) {
		event = event.RawJSON("payload", body)
	} else {
		event = event.Str("payload", string(body))
	}
	event.Msg("Webhook received")

	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true, "received": true})
}

// filtersFromQuery reads the list filters. Price bounds keep only their
// digits, so "preco_max=1.500" means 1500; bounds without digits are ignored.
func filtersFromQuery(q url.Values) models.Filters {
	f := models.Filters{
		Destino:   strings.TrimSpace(q.Get("destino")),
		Data:      strings.TrimSpace(q.Get("data")),
		Categoria: strings.TrimSpace(q.Get("categoria")),
	}
	if n, ok := crawler.ParseDigits(q.Get("preco_min")); ok {
		f.PrecoMin = &n
	}
	if n, ok := crawler.ParseDigits(q.Get("preco_max")); ok {
		f.PrecoMax = &n
	}
	return f
}

// Package handler implements the REST surface of the trips API.
package handler

import (
	"context"
	"net/http"
	"time"

	"fluxitech/mimatour-api/internal/middleware"
	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/logger"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// ServiceName is reported by the health endpoint
const ServiceName = "mimatour-api"

// TripService is what the handlers need from the trip cache
type TripService interface {
	List(ctx context.Context, f models.Filters) ([]models.Trip, error)
	Search(ctx context.Context, term string) ([]models.Trip, error)
	Get(ctx context.Context, id string) (models.Trip, bool, error)
}

// Server holds the handlers' dependencies
type Server struct {
	trips TripService
	mock  bool
	log   *logger.Logger
	now   func() time.Time
}

// NewServer creates the API handlers. mock is reported by /health.
func NewServer(trips TripService, mock bool) *Server {
	return &Server{
		trips: trips,
		mock:  mock,
		log:   logger.ForAPI(),
		now:   time.Now,
	}
}

// NewRouter builds the chi router with middleware. Every route is also
// served under /api for deployments behind a path-prefixing proxy.
func NewRouter(s *Server, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewRequestLogger(s.log))
	r.Use(middleware.NewRecoverer(s.log))
	r.Use(middleware.NewCORSHandler(corsOrigins))

	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	routes := s.routes()
	r.Mount("/api", routes)
	r.Mount("/", routes)
	return r
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	r.Get("/health", s.health)
	r.Route("/trips", func(r chi.Router) {
		r.Use(noStore)
		r.Get("/", s.listTrips)
		r.Get("/search", s.searchTrips)
		r.Get("/search/{term}", s.searchTripsByPath)
		r.Get("/{id}", s.getTrip)
	})
	r.Post("/webhook/in", s.webhookIn)
	return r
}

// noStore keeps intermediaries from caching trip responses
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

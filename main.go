package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fluxitech/mimatour-api/config"
	"fluxitech/mimatour-api/internal/crawler"
	"fluxitech/mimatour-api/internal/handler"
	"fluxitech/mimatour-api/logger"
	"fluxitech/mimatour-api/services/cache"
	"fluxitech/mimatour-api/services/publisher"
	"fluxitech/mimatour-api/services/trips"
	"fluxitech/mimatour-api/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("base_url", cfg.BaseURL).
		Bool("mock", cfg.UseMockData).
		Bool("browser", cfg.UseBrowser).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	tripService := newTripService(cfg, services)

	if cfg.RefreshInterval > 0 {
		w := worker.NewWorker(ctx, tripService, services.Publisher, cfg.RefreshInterval)
		go w.Start()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(handler.NewServer(tripService, cfg.Mock()), cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// A cold request may wait for a full browser render
		WriteTimeout: cfg.BrowserTimeout*3 + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Mimatour API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
		close(serverDone)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	case err := <-serverDone:
		if err != nil {
			log.Error().Err(err).Msg("Server exited with error")
		}
	}
	cancel()

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices connects the optional backends. Memcached and Redis are
// both optional: without them the cache stays in-process and refresh events
// are dropped.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{
		Cache:     cache.NewMemoryCache(),
		Publisher: publisher.Nop{},
	}

	if cfg.MemcacheAddr != "" {
		memcache := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := memcache.Ping(); err != nil {
			logger.Warn("Memcache at %s unreachable, using in-process cache: %v", cfg.MemcacheAddr, err)
		} else {
			services.Cache = memcache
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	}

	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := redisPublisher.Ping(pingCtx); err != nil {
			logger.Warn("Redis at %s unreachable, refresh events disabled: %v", cfg.RedisAddr, err)
			redisPublisher.Close()
		} else {
			services.Publisher = redisPublisher
			logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
				cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		}
	}

	return services
}

// newTripService wires the collector into the cached trip service
func newTripService(cfg *config.Config, services *Services) *trips.Service {
	collector := crawler.CreateCollector(cfg, services.Cache)
	return trips.NewService(collector, services.Cache, services.Publisher, trips.Options{
		TTL: cfg.CacheTTL,
		// Worst case: every strategy exhausts its budget
		RefreshTimeout: cfg.BrowserTimeout*2 + cfg.CollectorTimeout*time.Duration(cfg.MaxRetries+1) + cfg.APIProbeTimeout,
	})
}

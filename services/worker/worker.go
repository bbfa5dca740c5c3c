package worker

import (
	"context"
	"time"

	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/logger"
	"fluxitech/mimatour-api/services/publisher"
)

// Refresher re-collects the trip listing
type Refresher interface {
	Refresh(ctx context.Context) ([]models.Trip, error)
}

// Worker keeps the trip cache warm by refreshing it on a fixed interval, so
// API requests rarely pay for a browser render.
type Worker struct {
	ctx             context.Context
	refresher       Refresher
	publisher       publisher.Publisher
	refreshInterval time.Duration
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	refresher Refresher,
	pub publisher.Publisher,
	refreshInterval time.Duration,
) *Worker {
	if pub == nil {
		pub = publisher.Nop{}
	}
	return &Worker{
		ctx:             ctx,
		refresher:       refresher,
		publisher:       pub,
		refreshInterval: refreshInterval,
	}
}

// Start refreshes immediately and then on every tick until the worker's
// context is cancelled.
func (w *Worker) Start() {
	log := logger.ForWorker()
	log.Info().Dur("interval", w.refreshInterval).Msg("Refresh worker started")

	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	for {
		w.runOnce()

		select {
		case <-w.ctx.Done():
			log.Info().Msg("Refresh worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// runOnce refreshes the listing and then trims the event streams
func (w *Worker) runOnce() {
	log := logger.ForWorker()
	start := time.Now()

	trips, err := w.refresher.Refresh(w.ctx)
	if err != nil {
		log.Error().Err(err).Msg("Refresh failed")
		return
	}
	log.Debug().Int("total", len(trips)).Dur("elapsed", time.Since(start)).Msg("Refresh completed")

	if err := w.publisher.TrimStreams(w.ctx); err != nil {
		logger.LogError("StreamTrimming", err, "failed to trim refresh streams")
	}
}

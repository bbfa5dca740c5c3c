package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/logger"
	apperrors "fluxitech/mimatour-api/pkg/errors"
)

// Collector tries its strategies in order and returns the first non-empty
// listing. It never falls back to mock data on its own; that is the mock
// strategy's job when mock mode is on, and the caller's job otherwise.
type Collector struct {
	strategies []Strategy
}

// NewCollector creates a collector over the given strategies, highest priority first
func NewCollector(strategies ...Strategy) *Collector {
	return &Collector{strategies: strategies}
}

// Strategies returns the configured strategy names in priority order
func (c *Collector) Strategies() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Collect returns the first non-empty result. When every strategy is empty,
// inapplicable or failing it returns an error wrapping apperrors.ErrNoTrips
// and the last failure.
func (c *Collector) Collect(ctx context.Context) ([]models.RawItem, error) {
	var lastErr error

	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrNoTrips, err)
		}

		log := logger.ForCollector(s.Name())
		start := time.Now()
		items, err := safeCollect(ctx, s)

		switch {
		case errors.Is(err, apperrors.ErrNotApplicable):
			log.Debug().Err(err).Msg("Strategy not applicable")
		case err != nil:
			log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Strategy failed, trying next")
			lastErr = err
		case len(items) == 0:
			log.Info().Dur("elapsed", time.Since(start)).Msg("Strategy returned no items")
		default:
			log.Info().Int("count", len(items)).Dur("elapsed", time.Since(start)).Msg("Strategy succeeded")
			return items, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrNoTrips, lastErr)
	}
	return nil, apperrors.ErrNoTrips
}

// safeCollect turns a panicking strategy into an ordinary failure
func safeCollect(ctx context.Context, s Strategy) (items []models.RawItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Collect(ctx)
}

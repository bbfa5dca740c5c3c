package trips

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"fluxitech/mimatour-api/internal/crawler"
	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/internal/normalizer"
	"fluxitech/mimatour-api/logger"
	"fluxitech/mimatour-api/services/cache"
	"fluxitech/mimatour-api/services/publisher"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is how long a refreshed listing is served without collecting again
	DefaultTTL = 5 * time.Minute

	// SnapshotKey holds the last collected listing in the shared cache
	SnapshotKey = "mimatour_trips_snapshot"

	// RefreshEventKey is the stream field refresh events are published under
	RefreshEventKey = "trips.refreshed"

	refreshGroupKey = "trips"
)

// Source tells where the cached listing came from
type Source string

const (
	SourceCollector Source = "collector"
	SourceShared    Source = "shared"
	SourceMock      Source = "mock"
)

// Collector acquires the raw listing
type Collector interface {
	Collect(ctx context.Context) ([]models.RawItem, error)
}

// Snapshot is a normalized listing and the time it was collected
type Snapshot struct {
	Trips     []models.Trip `json:"trips"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// RefreshEvent is published after a successful collection
type RefreshEvent struct {
	Total     int       `json:"total"`
	Source    Source    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Options tunes a Service. Zero values take the defaults.
type Options struct {
	TTL            time.Duration
	RefreshTimeout time.Duration
}

// Service owns the cached trip listing. It refreshes the listing when it is
// older than the TTL, with at most one refresh in flight, and keeps serving
// the previous listing (or the mock dataset on a cold start) when a refresh
// fails.
type Service struct {
	collector      Collector
	cacheSvc       cache.CacheService
	publisher      publisher.Publisher
	ttl            time.Duration
	refreshTimeout time.Duration

	mu        sync.RWMutex
	trips     []models.Trip
	fetchedAt time.Time
	source    Source

	group singleflight.Group
	now   func() time.Time
}

// NewService creates a trip service. cacheSvc and pub may be nil.
func NewService(collector Collector, cacheSvc cache.CacheService, pub publisher.Publisher, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 2 * time.Minute
	}
	if pub == nil {
		pub = publisher.Nop{}
	}
	return &Service{
		collector:      collector,
		cacheSvc:       cacheSvc,
		publisher:      pub,
		ttl:            opts.TTL,
		refreshTimeout: opts.RefreshTimeout,
		now:            time.Now,
	}
}

// GetTrips returns the cached listing while it is fresh and refreshes it
// otherwise. The returned slice is shared and must not be modified.
// Acquisition failures never surface here; the only error is ctx ending
// while the caller waits on a refresh.
func (s *Service) GetTrips(ctx context.Context) ([]models.Trip, error) {
	if trips, ok := s.fresh(); ok {
		return trips, nil
	}
	return s.refresh(ctx)
}

// Refresh collects the listing now, whatever its age
func (s *Service) Refresh(ctx context.Context) ([]models.Trip, error) {
	return s.refresh(ctx)
}

// Info reports the age and origin of the cached listing
func (s *Service) Info() (fetchedAt time.Time, source Source, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt, s.source, len(s.trips)
}

// List returns the trips matching f
func (s *Service) List(ctx context.Context, f models.Filters) ([]models.Trip, error) {
	trips, err := s.GetTrips(ctx)
	if err != nil {
		return nil, err
	}
	return normalizer.ApplyFilters(trips, f), nil
}

// Search returns the trips whose title, destination or description mention term
func (s *Service) Search(ctx context.Context, term string) ([]models.Trip, error) {
	trips, err := s.GetTrips(ctx)
	if err != nil {
		return nil, err
	}
	return normalizer.Search(trips, term), nil
}

// Get looks a trip up by id. Long parameters are also matched against the
// source URL (exactly or as its suffix), and finally the parameter is hashed
// as if it were a seed so links built from old URLs keep working.
func (s *Service) Get(ctx context.Context, id string) (models.Trip, bool, error) {
	trips, err := s.GetTrips(ctx)
	if err != nil {
		return models.Trip{}, false, err
	}

	for _, t := range trips {
		if t.ID == id {
			return t, true, nil
		}
	}
	if len(id) > 20 {
		for _, t := range trips {
			if t.URLOrigem == id || strings.HasSuffix(t.URLOrigem, id) {
				return t, true, nil
			}
		}
	}
	derived := normalizer.GenerateTripID(id)
	for _, t := range trips {
		if t.ID == derived {
			return t, true, nil
		}
	}
	return models.Trip{}, false, nil
}

func (s *Service) fresh() ([]models.Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.trips == nil || s.now().Sub(s.fetchedAt) >= s.ttl {
		return nil, false
	}
	return s.trips, true
}

// refresh joins the in-flight refresh or starts one. The refresh runs on a
// context detached from the caller so a disconnecting client does not cancel
// the acquisition other callers are waiting on.
func (s *Service) refresh(ctx context.Context) ([]models.Trip, error) {
	ch := s.group.DoChan(refreshGroupKey, func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refreshTimeout)
		defer cancel()
		return s.load(rctx), nil
	})

	select {
	case res := <-ch:
		return res.Val.([]models.Trip), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) load(ctx context.Context) []models.Trip {
	log := logger.ForCache()

	if snap, ok := s.readShared(); ok {
		log.Debug().Int("total", len(snap.Trips)).Time("fetched_at", snap.FetchedAt).Msg("Using shared trip snapshot")
		return s.store(snap.Trips, snap.FetchedAt, SourceShared)
	}

	raw, err := s.collector.Collect(ctx)
	if err == nil {
		trips := normalizer.NormalizeTrips(raw)
		if len(trips) > 0 {
			now := s.now()
			s.writeShared(Snapshot{Trips: trips, FetchedAt: now})
			s.announce(ctx, RefreshEvent{Total: len(trips), Source: SourceCollector, FetchedAt: now})
			log.Info().Int("total", len(trips)).Msg("Trips refreshed")
			return s.store(trips, now, SourceCollector)
		}
		err = errors.New("collector returned only invalid records")
	}

	log.Error().Err(err).Msg("Failed to collect trips")
	if stale, ok := s.stale(); ok {
		log.Warn().Int("total", len(stale)).Msg("Serving stale trips")
		return stale
	}

	log.Info().Msg("Using mock data as fallback")
	return s.store(normalizer.NormalizeTrips(crawler.MockTrips()), s.now(), SourceMock)
}

func (s *Service) store(trips []models.Trip, fetchedAt time.Time, source Source) []models.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = trips
	s.fetchedAt = fetchedAt
	s.source = source
	return trips
}

func (s *Service) stale() ([]models.Trip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trips, len(s.trips) > 0
}

// readShared returns the snapshot another instance collected, if still fresh
func (s *Service) readShared() (Snapshot, bool) {
	if s.cacheSvc == nil {
		return Snapshot{}, false
	}
	data, err := s.cacheSvc.Get(SnapshotKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.ForCache().Warn().Err(err).Msg("Failed to read trip snapshot")
		}
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logger.ForCache().Warn().Err(err).Msg("Discarding corrupt trip snapshot")
		return Snapshot{}, false
	}
	if len(snap.Trips) == 0 || s.now().Sub(snap.FetchedAt) >= s.ttl {
		return Snapshot{}, false
	}

	s.mu.RLock()
	older := !snap.FetchedAt.After(s.fetchedAt)
	s.mu.RUnlock()
	if older {
		return Snapshot{}, false
	}
	return snap, true
}

func (s *Service) writeShared(snap Snapshot) {
	if s.cacheSvc == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		logger.ForCache().Warn().Err(err).Msg("Failed to encode trip snapshot")
		return
	}
	if err := s.cacheSvc.Set(SnapshotKey, data, s.ttl); err != nil {
		logger.ForCache().Warn().Err(err).Msg("Failed to store trip snapshot")
	}
}

func (s *Service) announce(ctx context.Context, ev RefreshEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, RefreshEventKey, data); err != nil {
		logger.ForPublisher().Warn().Err(err).Msg("Failed to publish refresh event")
	}
}

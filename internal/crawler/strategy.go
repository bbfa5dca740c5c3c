package crawler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/logger"
	apperrors "fluxitech/mimatour-api/pkg/errors"
	"fluxitech/mimatour-api/services/cache"
)

// Strategy is one way of acquiring the raw listing. A strategy that has
// nothing to do in the current setup returns apperrors.ErrNotApplicable.
type Strategy interface {
	Name() string
	Collect(ctx context.Context) ([]models.RawItem, error)
}

// blockGuard keeps network strategies away from the target site for a while
// after it answered with a rate-limit status. The block is stored as a cache
// key so several instances sharing memcached back off together.
type blockGuard struct {
	cacheSvc  cache.CacheService
	key       string
	blockTime time.Duration
}

func newBlockGuard(cacheSvc cache.CacheService, key string, blockTime time.Duration) *blockGuard {
	return &blockGuard{cacheSvc: cacheSvc, key: key, blockTime: blockTime}
}

// check returns a rate-limit error while the block key is present
func (g *blockGuard) check(source string) error {
	if g == nil || g.cacheSvc == nil || g.key == "" {
		return nil
	}
	if _, err := g.cacheSvc.Get(g.key); err == nil {
		return apperrors.NewRateLimit(source, g.blockTime)
	}
	return nil
}

// observe sets the block key when err says the site rate limited us
func (g *blockGuard) observe(err error) {
	if g == nil || g.cacheSvc == nil || g.key == "" || g.blockTime <= 0 {
		return
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeRateLimit) {
		return
	}
	value := []byte(strconv.Itoa(int(g.blockTime / time.Second)))
	if setErr := g.cacheSvc.Set(g.key, value, g.blockTime); setErr != nil {
		logger.ForCache().Warn().Err(setErr).Str("key", g.key).Msg("Failed to set rate limit block")
		return
	}
	logger.ForCache().Warn().Str("key", g.key).Dur("block_time", g.blockTime).Msg("Target rate limited us, backing off")
}

func notApplicable(reason string) error {
	return errors.Join(apperrors.ErrNotApplicable, errors.New(reason))
}

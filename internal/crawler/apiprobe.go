package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	"fluxitech/mimatour-api/helpers"
	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/logger"
	apperrors "fluxitech/mimatour-api/pkg/errors"
)

// DefaultProbePaths are the conventional listing endpoints tried in order
var DefaultProbePaths = []string{"/api/pacotes", "/api/viagens", "/api/trips", "/api/produtos"}

// Object keys checked before any other array-valued field
var preferredListKeys = []string{"items", "data", "trips", "pacotes"}

// APIProbeStrategy looks for an internal JSON endpoint exposing the listing
type APIProbeStrategy struct {
	BaseURL string
	Paths   []string
	Timeout time.Duration
	Fetcher *helpers.Fetcher
	Retry   RetryPolicy
	guard   *blockGuard
}

func (s *APIProbeStrategy) Name() string { return "api" }

func (s *APIProbeStrategy) Collect(ctx context.Context) ([]models.RawItem, error) {
	log := logger.ForCollector(s.Name())
	if err := s.guard.check(s.Name()); err != nil {
		return nil, err
	}

	paths := s.Paths
	if len(paths) == 0 {
		paths = DefaultProbePaths
	}

	for _, path := range paths {
		url := s.BaseURL + path
		items, err := s.probe(ctx, url)
		if err != nil {
			s.guard.observe(err)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if apperrors.IsType(err, apperrors.ErrorTypeRateLimit) {
				return nil, err
			}
			log.Debug().Err(err).Str("url", url).Msg("Endpoint unavailable, trying next")
			continue
		}
		log.Info().Str("path", path).Int("count", len(items)).Msg("Listing obtained from internal API")
		return items, nil
	}

	return nil, notApplicable("no internal listing endpoint")
}

func (s *APIProbeStrategy) probe(ctx context.Context, url string) ([]models.RawItem, error) {
	var body []byte
	err := s.Retry.Do(ctx, s.Name(), func(ctx context.Context) error {
		reqCtx := ctx
		if s.Timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, s.Timeout)
			defer cancel()
		}
		var err error
		body, _, err = s.Fetcher.Get(reqCtx, url, "application/json")
		return err
	})
	if err != nil {
		return nil, err
	}

	items, ok := decodeRawList(body)
	if !ok {
		return nil, apperrors.NewParsing(url, "response is not a JSON listing", nil)
	}
	return items, nil
}

// decodeRawList accepts a bare JSON array of items or an object holding one
// under a known key (or, failing that, under any key).
func decodeRawList(body []byte) ([]models.RawItem, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, false
	}

	switch body[0] {
	case '[':
		var items []models.RawItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, false
		}
		return items, true
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, false
		}
		keys := append([]string(nil), preferredListKeys...)
		rest := make([]string, 0, len(obj))
		for k := range obj {
			rest = append(rest, k)
		}
		sort.Strings(rest)
		for _, k := range append(keys, rest...) {
			raw, ok := obj[k]
			if !ok {
				continue
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) == 0 || raw[0] != '[' {
				continue
			}
			var items []models.RawItem
			if err := json.Unmarshal(raw, &items); err == nil {
				return items, true
			}
		}
	}
	return nil, false
}

package crawler

import (
	"context"
	"io"

	"fluxitech/mimatour-api/helpers"
	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/logger"
)

// HTMLFetchStrategy downloads the listing with a plain HTTP client. No
// JavaScript runs, so bot protection usually defeats it; it is the last resort.
type HTMLFetchStrategy struct {
	BaseURL   string
	Fetcher   *helpers.Fetcher
	Retry     RetryPolicy
	Extractor *Extractor
	guard     *blockGuard
}

func (s *HTMLFetchStrategy) Name() string { return "html" }

func (s *HTMLFetchStrategy) Collect(ctx context.Context) ([]models.RawItem, error) {
	if err := s.guard.check(s.Name()); err != nil {
		return nil, err
	}

	var body io.Reader
	err := s.Retry.Do(ctx, s.Name(), func(ctx context.Context) error {
		var err error
		body, err = s.Fetcher.FetchHTML(ctx, s.BaseURL)
		return err
	})
	if err != nil {
		s.guard.observe(err)
		return nil, err
	}

	items, _, err := s.Extractor.Parse(body, s.BaseURL)
	if err != nil {
		return nil, err
	}

	logger.ForCollector(s.Name()).Info().
		Str("url", s.BaseURL).
		Int("count", len(items)).
		Msg("Listing extracted from HTML")
	return items, nil
}

package crawler

import (
	"context"
	"fmt"
	"os"

	"fluxitech/mimatour-api/helpers"
	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/logger"
)

// FixtureStrategy reads saved HTML snapshots of the listing instead of
// hitting the site. The full-list snapshot is optional.
type FixtureStrategy struct {
	MainPath     string
	FullListPath string
	BaseURL      string
	Extractor    *Extractor
}

func (s *FixtureStrategy) Name() string { return "fixture" }

func (s *FixtureStrategy) Collect(ctx context.Context) ([]models.RawItem, error) {
	if s.MainPath == "" {
		return nil, notApplicable("no fixture configured")
	}
	log := logger.ForCollector(s.Name())

	items, err := s.load(s.MainPath)
	if err != nil {
		log.Warn().Err(err).Str("path", s.MainPath).Msg("Fixture not found or invalid")
		return nil, notApplicable(err.Error())
	}

	if s.FullListPath != "" {
		fullList, err := s.load(s.FullListPath)
		if err != nil {
			log.Warn().Err(err).Str("path", s.FullListPath).Msg("Full list fixture not found")
		} else {
			items = MergeItems(items, fullList)
			log.Info().Str("path", s.FullListPath).Int("count", len(fullList)).Msg("Full list fixture loaded")
		}
	}

	log.Info().Str("path", s.MainPath).Int("total", len(items)).Msg("Listing loaded from fixture")
	return items, nil
}

func (s *FixtureStrategy) load(path string) ([]models.RawItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	body, err := helpers.ToUTF8(data, "text/html")
	if err != nil {
		return nil, err
	}
	items, _, err := s.Extractor.Parse(body, s.BaseURL)
	return items, err
}

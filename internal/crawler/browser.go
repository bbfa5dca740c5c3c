package crawler

import (
	"context"
	"strings"

	"fluxitech/mimatour-api/internal/models"
	"fluxitech/mimatour-api/logger"
	apperrors "fluxitech/mimatour-api/pkg/errors"
)

// Renderer opens headless browser sessions
type Renderer interface {
	Open(ctx context.Context) (Session, error)
}

// Session is an open browser. It must be closed on every path.
type Session interface {
	// Render navigates to url, lets lazy content load and returns the final HTML
	Render(ctx context.Context, url string) (string, error)
	Close() error
}

// BrowserStrategy renders the listing (and its "ver todos" page) in a real
// browser so JavaScript challenges and lazy loading run before extraction.
type BrowserStrategy struct {
	BaseURL     string
	FullListURL string
	Renderer    Renderer
	Extractor   *Extractor
}

func (s *BrowserStrategy) Name() string { return "browser" }

func (s *BrowserStrategy) Collect(ctx context.Context) (items []models.RawItem, err error) {
	log := logger.ForCollector(s.Name())

	session, err := s.Renderer.Open(ctx)
	if err != nil {
		return nil, apperrors.NewBrowser(s.BaseURL, "failed to open browser", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to close browser")
		}
		log.Debug().Msg("Browser closed")
	}()

	html, err := session.Render(ctx, s.BaseURL)
	if err != nil {
		return nil, apperrors.NewBrowser(s.BaseURL, "failed to render listing", err)
	}
	items, doc, err := s.Extractor.ParseString(html, s.BaseURL)
	if err != nil {
		return nil, err
	}

	next := s.FullListURL
	if next == "" {
		next = s.Extractor.SeeAllURL(doc, s.BaseURL)
	}
	if next != "" && strings.TrimRight(next, "/") != strings.TrimRight(s.BaseURL, "/") {
		fullList, err := s.renderFullList(ctx, session, next)
		if err != nil {
			log.Warn().Err(err).Str("url", next).Msg("Could not load the full list page")
		} else {
			items = MergeItems(items, fullList)
			log.Info().Str("url", next).Int("count", len(fullList)).Msg("Full list obtained")
		}
	}

	log.Info().Int("total", len(items)).Msg("Listing extracted with browser")
	return items, nil
}

func (s *BrowserStrategy) renderFullList(ctx context.Context, session Session, url string) ([]models.RawItem, error) {
	html, err := session.Render(ctx, url)
	if err != nil {
		return nil, err
	}
	items, _, err := s.Extractor.ParseString(html, s.BaseURL)
	return items, err
}

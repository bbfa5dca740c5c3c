// Command fetchpage renders the agency listing in a headless browser and
// saves the HTML as fixtures, for offline development with FIXTURE_HTML_PATH.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"fluxitech/mimatour-api/config"
	"fluxitech/mimatour-api/internal/crawler"
	"fluxitech/mimatour-api/logger"

	"github.com/joho/godotenv"
)

var (
	OutMain     = flag.String("out", "fixtures/mimatour-page.html", "write the listing page to this file")
	OutFullList = flag.String("out.full", "fixtures/mimatour-ver-todos.html", "write the \"ver todos\" page to this file (empty to skip)")
	URL         = flag.String("url", "", "page to render (default MATOUR_BASE_URL)")
)

func main() {
	flag.Parse()
	godotenv.Load()
	logger.Init()

	cfg := config.LoadConfig()
	if *URL != "" {
		cfg.BaseURL = *URL
	}
	if err := cfg.Validate(); err != nil {
		logger.Default.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := run(context.Background(), cfg); err != nil {
		logger.Default.Fatal().Err(err).Msg("Fetch failed")
	}
}

// run keeps the browser session scoped so it is closed before exiting
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Default

	session, err := crawler.NewRenderer(cfg).Open(ctx)
	if err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	defer session.Close()

	log.Info().Str("url", cfg.BaseURL).Msg("Rendering listing")
	html, err := session.Render(ctx, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("render listing: %w", err)
	}
	if err := save(*OutMain, html); err != nil {
		return fmt.Errorf("save listing: %w", err)
	}
	log.Info().Str("path", *OutMain).Msg("HTML saved")

	if *OutFullList == "" {
		return nil
	}

	extractor := crawler.NewExtractor(cfg.SeeAllSelector)
	items, doc, err := extractor.ParseString(html, cfg.BaseURL)
	if err != nil {
		return err
	}
	log.Info().Int("cards", len(items)).Msg("Listing parsed")

	next := cfg.FullListURL
	if next == "" {
		next = extractor.SeeAllURL(doc, cfg.BaseURL)
	}
	if next == "" {
		log.Warn().Msg("No \"ver todos\" link found, skipping full list")
		return nil
	}

	log.Info().Str("url", next).Msg("Rendering full list")
	full, err := session.Render(ctx, next)
	if err != nil {
		return fmt.Errorf("render full list: %w", err)
	}
	if err := save(*OutFullList, full); err != nil {
		return fmt.Errorf("save full list: %w", err)
	}
	log.Info().
		Str("path", *OutFullList).
		Msgf("HTML saved. In .env use FIXTURE_HTML_FULL_LIST=%s", *OutFullList)
	return nil
}

func save(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(html), 0o644)
}

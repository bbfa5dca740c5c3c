package crawler

import (
	"fluxitech/mimatour-api/config"
	"fluxitech/mimatour-api/helpers"
	"fluxitech/mimatour-api/logger"
	"fluxitech/mimatour-api/services/cache"
)

// rateLimitKey is the cache key blocking network strategies after a 429
const rateLimitKey = "mimatour_rate_limited"

// CreateCollector wires the strategies enabled by cfg in their fixed order:
// mock, fixture, internal API, browser, plain HTML.
func CreateCollector(cfg *config.Config, cacheSvc cache.CacheService) *Collector {
	extractor := NewExtractor(cfg.SeeAllSelector)
	fetcher := helpers.NewFetcher(cfg.CollectorTimeout, cfg.RatePerSecond)
	policy := RetryPolicy{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    cfg.RetryMaxDelay,
	}
	guard := newBlockGuard(cacheSvc, rateLimitKey, cfg.BlockTime)

	strategies := []Strategy{
		&MockStrategy{Enabled: cfg.UseMockData},
		&FixtureStrategy{
			MainPath:     cfg.FixtureHTMLPath,
			FullListPath: cfg.FixtureHTMLFullList,
			BaseURL:      cfg.BaseURL,
			Extractor:    extractor,
		},
		&APIProbeStrategy{
			BaseURL: cfg.BaseURL,
			Paths:   DefaultProbePaths,
			Timeout: cfg.APIProbeTimeout,
			Fetcher: fetcher,
			Retry:   policy,
			guard:   guard,
		},
	}

	if cfg.UseBrowser {
		strategies = append(strategies, &BrowserStrategy{
			BaseURL:     cfg.BaseURL,
			FullListURL: cfg.FullListURL,
			Renderer:    NewRenderer(cfg),
			Extractor:   extractor,
		})
	}

	strategies = append(strategies, &HTMLFetchStrategy{
		BaseURL:   cfg.BaseURL,
		Fetcher:   fetcher,
		Retry:     policy,
		Extractor: extractor,
		guard:     guard,
	})

	c := NewCollector(strategies...)
	logger.Info("Collector created with strategies %v", c.Strategies())
	return c
}

// NewRenderer picks the remote browserless renderer when an address is
// configured and a local Chrome otherwise.
func NewRenderer(cfg *config.Config) Renderer {
	if cfg.ChromeDBAddr != "" {
		logger.Info("Using browserless at %s", cfg.ChromeDBAddr)
		return NewBrowserlessRenderer(cfg.ChromeDBAddr, cfg.BrowserTimeout)
	}
	return NewChromeRenderer(cfg.ChromePath, cfg.BrowserTimeout)
}

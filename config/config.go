package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "fluxitech/mimatour-api/pkg/errors"
)

// DefaultBaseURL is the public listing page of the travel agency
const DefaultBaseURL = "https://mimatourviagens.suareservaonline.com.br"

// Config represents the application configuration
type Config struct {
	// HTTP server
	Port        string
	CORSOrigins []string

	// Target site
	BaseURL        string
	FullListURL    string
	SeeAllSelector string

	// Collector
	CollectorTimeout time.Duration
	APIProbeTimeout  time.Duration
	MaxRetries       int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration
	RatePerSecond    float64
	BlockTime        time.Duration

	// Acquisition modes
	UseMockData         bool
	FixtureHTMLPath     string
	FixtureHTMLFullList string
	UseBrowser          bool
	BrowserTimeout      time.Duration
	ChromePath          string
	ChromeDBAddr        string

	// Cache
	CacheTTL     time.Duration
	MemcacheAddr string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Worker
	RefreshInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "100"))
	maxRetries, _ := strconv.Atoi(getEnv("COLLECTOR_MAX_RETRIES", "3"))
	rps, _ := strconv.ParseFloat(getEnv("COLLECTOR_RATE_PER_SECOND", "2"), 64)

	return &Config{
		Port:        getEnv("PORT", "3000"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "*")),

		BaseURL:        strings.TrimRight(getEnv("MATOUR_BASE_URL", DefaultBaseURL), "/"),
		FullListURL:    getEnv("MATOUR_FULL_LIST_URL", ""),
		SeeAllSelector: getEnv("SEE_ALL_SELECTOR", `a[href*="categories_data"]`),

		CollectorTimeout: getMillis("COLLECTOR_TIMEOUT_MS", 15000),
		APIProbeTimeout:  getMillis("COLLECTOR_API_TIMEOUT_MS", 10000),
		MaxRetries:       maxRetries,
		RetryBaseDelay:   getMillis("COLLECTOR_RETRY_BASE_MS", 1000),
		RetryMaxDelay:    getMillis("COLLECTOR_RETRY_MAX_MS", 10000),
		RatePerSecond:    rps,
		BlockTime:        getSeconds("COLLECTOR_BLOCK_SECONDS", 300),

		UseMockData:         getFlag("USE_MOCK_DATA", false),
		FixtureHTMLPath:     getEnv("FIXTURE_HTML_PATH", ""),
		FixtureHTMLFullList: getEnv("FIXTURE_HTML_FULL_LIST", ""),
		UseBrowser:          getFlag("USE_BROWSER", getFlag("USE_PUPPETEER", true)),
		BrowserTimeout:      getMillis("BROWSER_TIMEOUT_MS", 30000),
		ChromePath:          getEnv("CHROME_PATH", ""),
		ChromeDBAddr:        strings.TrimRight(getEnv("CHROMEDB_ADDR", ""), "/"),

		CacheTTL:     getSeconds("CACHE_TTL_SECONDS", 300),
		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "mimatour:trips"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLength,

		RefreshInterval: getSeconds("REFRESH_INTERVAL_SECONDS", 0),

		Environment: getEnv("MIMATOUR_ENVIRONMENT", "development"),
	}
}

// Validate checks the values that would make the collector misbehave
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperrors.NewConfiguration(fmt.Sprintf("MATOUR_BASE_URL must be an absolute URL, got %q", c.BaseURL), err)
	}
	if c.MaxRetries < 1 {
		return apperrors.NewConfiguration("COLLECTOR_MAX_RETRIES must be at least 1", nil)
	}
	if c.CollectorTimeout <= 0 {
		return apperrors.NewConfiguration("COLLECTOR_TIMEOUT_MS must be positive", nil)
	}
	if c.RetryMaxDelay < c.RetryBaseDelay {
		return apperrors.NewConfiguration("COLLECTOR_RETRY_MAX_MS must not be lower than COLLECTOR_RETRY_BASE_MS", nil)
	}
	if c.CacheTTL <= 0 {
		return apperrors.NewConfiguration("CACHE_TTL_SECONDS must be positive", nil)
	}
	if c.RedisAddr != "" && c.RedisStreamCount < 1 {
		return apperrors.NewConfiguration("REDIS_STREAM_COUNT must be at least 1", nil)
	}
	return nil
}

// Mock reports whether the service runs on the built-in dataset
func (c *Config) Mock() bool {
	return c.UseMockData
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getFlag accepts "true"/"1" and "false"/"0"; anything else keeps the default.
func getFlag(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return defaultValue
	}
}

func getMillis(key string, defaultValue int) time.Duration {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		n = defaultValue
	}
	return time.Duration(n) * time.Millisecond
}

func getSeconds(key string, defaultValue int) time.Duration {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		n = defaultValue
	}
	return time.Duration(n) * time.Second
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

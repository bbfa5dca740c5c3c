package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"fluxitech/mimatour-api/config"
	"fluxitech/mimatour-api/internal/crawler"
	"fluxitech/mimatour-api/internal/handler"
	"fluxitech/mimatour-api/services/cache"
	"fluxitech/mimatour-api/services/publisher"
	"fluxitech/mimatour-api/services/trips"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a configuration that never reaches the real site
func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	t.Setenv("MATOUR_BASE_URL", baseURL)
	t.Setenv("USE_BROWSER", "false")
	t.Setenv("COLLECTOR_TIMEOUT_MS", "2000")
	t.Setenv("COLLECTOR_API_TIMEOUT_MS", "500")
	t.Setenv("COLLECTOR_RETRY_BASE_MS", "1")
	t.Setenv("COLLECTOR_RETRY_MAX_MS", "5")
	t.Setenv("COLLECTOR_RATE_PER_SECOND", "0")
	cfg := config.LoadConfig()
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestApp(cfg *config.Config, services *Services) http.Handler {
	svc := newTripService(cfg, services)
	return handler.NewRouter(handler.NewServer(svc, cfg.Mock()), cfg.CORSOrigins)
}

func getJSON(t *testing.T, app http.Handler, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func TestSearchEndToEnd(t *testing.T) {
	t.Setenv("USE_MOCK_DATA", "true")
	cfg := testConfig(t, config.DefaultBaseURL)
	app := newTestApp(cfg, &Services{Cache: cache.NewMemoryCache(), Publisher: publisher.Nop{}})

	status, body := getJSON(t, app, "/trips/search?q=ilhabela")
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Ilhabela - Feriado", data[0].(map[string]any)["titulo"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "ilhabela", meta["query"])
	assert.EqualValues(t, 1, meta["total"])

	status, body = getJSON(t, app, "/trips/search")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	status, body = getJSON(t, app, "/trips")
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, len(crawler.MockTrips()), body["meta"].(map[string]any)["total"])

	id := data[0].(map[string]any)["id"].(string)
	status, body = getJSON(t, app, "/api/trips/"+id)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, body["data"].(map[string]any)["id"])

	_, body = getJSON(t, app, "/health")
	assert.Equal(t, true, body["mock"])
}

func TestHTMLFallbackEndToEnd(t *testing.T) {
	page, err := os.ReadFile("internal/crawler/testdata/listing.html")
	require.NoError(t, err)

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}))
	defer site.Close()

	cfg := testConfig(t, site.URL)
	app := newTestApp(cfg, &Services{Cache: cache.NewMemoryCache(), Publisher: publisher.Nop{}})

	status, body := getJSON(t, app, "/trips?destino=ilhabela")
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	trip := data[0].(map[string]any)
	assert.Equal(t, "Ilhabela", trip["destino"])
	assert.EqualValues(t, 1290, trip["preco"])
	assert.Equal(t, site.URL+"/pacote/ilhabela-feriado/44022", trip["url_origem"])

	_, body = getJSON(t, app, "/trips?q=uva")
	data = body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Esgotado", data[0].(map[string]any)["disponibilidade"])
}

func TestColdStartWithUnreachableSite(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer site.Close()

	cfg := testConfig(t, site.URL)
	app := newTestApp(cfg, &Services{Cache: cache.NewMemoryCache(), Publisher: publisher.Nop{}})

	status, body := getJSON(t, app, "/trips")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, len(crawler.MockTrips()), body["meta"].(map[string]any)["total"])
}

func TestRefreshEventsOnRedis(t *testing.T) {
	if os.Getenv("CI") != "" {
		t.Skip("Skipping integration test in CI environment")
	}

	ctx := context.Background()
	redisAddr := "localhost:6379"
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping integration test")
	}

	stream := "mimatour:test:" + time.Now().Format("150405.000000")
	defer redisClient.Del(ctx, stream+":0")

	pub := publisher.NewRedisPublisher(redisAddr, 0, stream, 1, 10)
	defer pub.Close()

	t.Setenv("USE_MOCK_DATA", "true")
	cfg := testConfig(t, config.DefaultBaseURL)
	svc := newTripService(cfg, &Services{Cache: cache.NewMemoryCache(), Publisher: pub})

	got, err := svc.GetTrips(ctx)
	require.NoError(t, err)

	entries, err := redisClient.XRange(ctx, stream+":0", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	encoded, ok := entries[0].Values[trips.RefreshEventKey].(string)
	require.True(t, ok)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	var ev trips.RefreshEvent
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, len(got), ev.Total)
	assert.Equal(t, trips.SourceCollector, ev.Source)
}

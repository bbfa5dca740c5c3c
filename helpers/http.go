package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"syscall"
	"time"

	apperrors "fluxitech/mimatour-api/pkg/errors"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies the collector to the target site
const DefaultUserAgent = "MimatourAPI/1.0 (Integração FluxiChat; coleta ética)"

const maxBodySize = 10 << 20

// Fetcher performs polite GET requests: every request waits on a shared
// limiter and failures come back as *apperrors.CollectorError.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher creates a fetcher with the given per-request timeout and
// requests-per-second budget. A non-positive rps disables the limiter.
func NewFetcher(timeout time.Duration, rps float64) *Fetcher {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: DefaultUserAgent,
	}
}

// Get fetches url and returns the raw body. accept is sent as the Accept header.
func (f *Fetcher) Get(ctx context.Context, url, accept string) ([]byte, http.Header, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, nil, apperrors.NewNetwork(url, "rate limiter wait", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, apperrors.NewConnection(url, "failed to create request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, classifyTransportError(url, err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		retryAfter, _ := time.ParseDuration(resp.Header.Get("Retry-After") + "s")
		return nil, resp.Header, apperrors.NewRateLimit(url, retryAfter)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.Header, apperrors.NewHTTPStatus(url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.Header, classifyTransportError(url, err)
	}
	return body, resp.Header, nil
}

// FetchHTML fetches an HTML page and converts the body to UTF-8 if needed.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (io.Reader, error) {
	body, header, err := f.Get(ctx, url, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	return ToUTF8(body, header.Get("Content-Type"))
}

// ToUTF8 decodes body according to its Content-Type header and meta tags
func ToUTF8(body []byte, contentType string) (io.Reader, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(body), nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, encoding.NewDecoder().Reader(bytes.NewReader(body))); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}
	return &buf, nil
}

// classifyTransportError separates timeouts and aborted connections, which
// are worth retrying, from failures that will not go away on their own.
func classifyTransportError(url string, err error) error {
	var ne net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return apperrors.NewConnection(url, "request canceled", err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &ne) && ne.Timeout(),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.NewNetwork(url, "request failed", err)
	default:
		return apperrors.NewConnection(url, "request failed", err)
	}
}

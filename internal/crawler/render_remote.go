package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "fluxitech/mimatour-api/pkg/errors"
)

// remoteRenderScript runs inside a browserless /function endpoint. It mirrors
// ChromeRenderer: navigate, wait for cards, scroll for lazy content.
const remoteRenderScript = `module.exports = async ({ page, context }) => {
	await page.setViewport({ width: 1920, height: 1080 });
	await page.setUserAgent(context.userAgent);
	await page.setExtraHTTPHeaders({ 'Accept-Language': 'pt-BR,pt;q=0.9' });
	await page.goto(context.url, { waitUntil: 'load', timeout: context.timeout });
	if (context.waitSelector) {
		await page.waitForSelector(context.waitSelector, { timeout: 15000 }).catch(() => {});
	}
	await page.evaluate(async (steps, pause) => {
		for (let s = 0; s < steps; s++) {
			window.scrollTo(0, document.body.scrollHeight);
			await new Promise((r) => setTimeout(r, pause));
		}
		window.scrollTo(0, 0);
	}, context.steps, context.pause);
	return { data: await page.content(), type: 'text/html' };
}`

// BrowserlessRenderer renders pages on a remote browserless instance, for
// deployments where no Chrome binary is available locally.
type BrowserlessRenderer struct {
	Addr    string
	Timeout time.Duration
	client  *http.Client
}

// NewBrowserlessRenderer creates a renderer for the browserless server at addr
func NewBrowserlessRenderer(addr string, timeout time.Duration) *BrowserlessRenderer {
	return &BrowserlessRenderer{
		Addr:    strings.TrimRight(addr, "/"),
		Timeout: timeout,
		// The remote side needs time for navigation plus the scroll pauses
		client: &http.Client{Timeout: timeout + 30*time.Second},
	}
}

// Open returns a session bound to the remote server. Every Render call uses
// its own remote page, so Close has nothing to release locally.
func (r *BrowserlessRenderer) Open(ctx context.Context) (Session, error) {
	return r, nil
}

func (r *BrowserlessRenderer) Close() error { return nil }

func (r *BrowserlessRenderer) Render(ctx context.Context, url string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"code": remoteRenderScript,
		"context": map[string]interface{}{
			"url":          url,
			"userAgent":    browserUserAgent,
			"timeout":      r.Timeout.Milliseconds(),
			"waitSelector": DefaultSelectors.Card,
			"steps":        8,
			"pause":        500,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal function payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Addr+"/function", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create function request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", apperrors.NewNetwork(r.Addr, "browserless request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewHTTPStatus(r.Addr, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read browserless response: %w", err)
	}

	content := extractRemoteHTML(body)
	if !strings.Contains(content, "<html") && !strings.Contains(content, "<body") {
		return "", apperrors.NewParsing(r.Addr, fmt.Sprintf("invalid or empty HTML response (received %d bytes)", len(content)), nil)
	}
	return content, nil
}

// extractRemoteHTML unwraps the page content from the shapes browserless
// versions answer with: raw HTML, or JSON carrying it in a known field.
func extractRemoteHTML(body []byte) string {
	content := string(body)
	if !strings.HasPrefix(strings.TrimSpace(content), "{") {
		return content
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return content
	}
	if data, ok := result["data"].(map[string]interface{}); ok {
		if html, ok := data["content"].(string); ok && html != "" {
			return html
		}
	}
	for _, key := range []string{"data", "content", "result", "html"} {
		if html, ok := result[key].(string); ok && html != "" {
			return html
		}
	}
	return content
}

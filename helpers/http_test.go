package helpers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "fluxitech/mimatour-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHTML(t *testing.T) {
	// Create a test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check that headers are set
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		assert.Contains(t, r.Header.Get("Accept-Language"), "pt-BR")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Pacotes de viagem</body></html>"))
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, 0)
	reader, err := f.FetchHTML(context.Background(), server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "Pacotes de viagem")
}

func TestFetchHTMLNonUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		// "Saída" in ISO-8859-1
		w.Write([]byte("<html><body>Sa\xedda</body></html>"))
	}))
	defer server.Close()

	reader, err := NewFetcher(5*time.Second, 0).FetchHTML(context.Background(), server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "Saída")
}

func TestFetchErrors(t *testing.T) {
	serverError := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer serverError.Close()

	f := NewFetcher(5*time.Second, 0)

	_, err := f.FetchHTML(context.Background(), serverError.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.True(t, apperrors.IsRetryable(err), "5xx should be retryable")

	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()

	_, err = f.FetchHTML(context.Background(), notFound.URL)
	require.Error(t, err)
	assert.False(t, apperrors.IsRetryable(err), "404 should not be retryable")

	// Test with rate limiting
	rateLimited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer rateLimited.Close()

	_, err = f.FetchHTML(context.Background(), rateLimited.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRateLimit))
}

func TestFetchTimeoutIsRetryable(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	_, err := NewFetcher(50*time.Millisecond, 0).FetchHTML(context.Background(), slow.URL)
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := NewFetcher(time.Second, 0).FetchHTML(context.Background(), "http://invalid.url.that.does.not.exist")
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	base := "https://mimatourviagens.suareservaonline.com.br/"
	assert.Equal(t, "https://mimatourviagens.suareservaonline.com.br/pacote/ilhabela", ResolveURL(base, "/pacote/ilhabela"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", ResolveURL(base, "https://cdn.example.com/a.jpg"))
	assert.Equal(t, "", ResolveURL(base, "  "))
	assert.True(t, IsAbsoluteURL("HTTPS://x"))
	assert.False(t, IsAbsoluteURL("data:image/png;base64,AAA"))
	assert.Equal(t, "Saída 07 de fev", CollapseSpaces("  Saída \n\t 07 de fev "))
}

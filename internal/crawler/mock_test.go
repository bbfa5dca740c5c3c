package crawler

import (
	"context"
	"errors"
	"sync"
	"time"

	"fluxitech/mimatour-api/internal/models"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	mu    sync.Mutex
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, errors.New("cache miss")
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
	return nil
}

// fakeRenderer serves canned HTML per URL and records the session lifecycle
type fakeRenderer struct {
	pages   map[string]string
	openErr error

	mu       sync.Mutex
	opened   int
	closed   int
	rendered []string
}

func (r *fakeRenderer) Open(ctx context.Context) (Session, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.mu.Lock()
	r.opened++
	r.mu.Unlock()
	return &fakeSession{r: r}, nil
}

type fakeSession struct {
	r *fakeRenderer
}

func (s *fakeSession) Render(ctx context.Context, url string) (string, error) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.rendered = append(s.r.rendered, url)
	html, ok := s.r.pages[url]
	if !ok {
		return "", errors.New("navigation failed: " + url)
	}
	return html, nil
}

func (s *fakeSession) Close() error {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.closed++
	return nil
}

// stubStrategy returns fixed results and counts calls
type stubStrategy struct {
	name  string
	items []models.RawItem
	err   error
	panic bool
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Collect(ctx context.Context) ([]models.RawItem, error) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	return s.items, s.err
}

// Package testhelpers provides shared fakes and fixtures for tests.
package testhelpers

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// MockBackend is a scripted scoring backend. With Err set every call
// fails; otherwise Response is returned verbatim.
type MockBackend struct {
	mu       sync.Mutex
	Response string
	Err      error
	Calls    int
}

// NewMockBackend creates a backend returning the given raw completion.
func NewMockBackend(response string) *MockBackend {
	return &MockBackend{Response: response}
}

// NewFailingBackend creates a backend that always returns err.
func NewFailingBackend(err error) *MockBackend {
	return &MockBackend{Err: err}
}

func (m *MockBackend) Complete(_ context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockBackend) Health(_ context.Context) error {
	return m.Err
}

// CallCount returns how many Complete calls were made.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockConfigStore is an in-memory agent config store.
type MockConfigStore struct {
	mu      sync.Mutex
	Configs map[string]*domain.AgentConfig
	Err     error
}

// NewMockConfigStore creates an empty in-memory store.
func NewMockConfigStore() *MockConfigStore {
	return &MockConfigStore{Configs: make(map[string]*domain.AgentConfig)}
}

func (m *MockConfigStore) Get(_ context.Context, agentKey string) (*domain.AgentConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	cfg, ok := m.Configs[agentKey]
	if !ok {
		return nil, nil
	}
	return cfg.Clone(), nil
}

// Put stores a config under the given key.
func (m *MockConfigStore) Put(agentKey string, cfg *domain.AgentConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Configs[agentKey] = cfg
}

// ProductPage builds a commerce product snapshot with common pressure
// copy, suitable for end-to-end pipeline tests.
func ProductPage() *domain.ContentRecord {
	content := &domain.ContentRecord{
		Origin:   "https://shop.example.com",
		Path:     "/widgets/42",
		Title:    "Deluxe Widget",
		Body:     "Was $199, now $39 (80% off). Only 2 left in stock! Order now before the deal expires. Hurry, sale ends soon.",
		Headings: []string{"Limited time offer"},
		FormControls: []domain.FormControl{
			{Kind: "checkbox", Label: "Add premium protection plan", Checked: true},
		},
		Metadata: map[string]string{
			"og:type": "product",
		},
		PageType:   domain.PageTypeProduct,
		CapturedAt: time.Now(),
	}
	content.Normalize()
	return content
}

// FeedPage builds a social feed snapshot with charged copy.
func FeedPage() *domain.ContentRecord {
	content := &domain.ContentRecord{
		Origin:   "https://twitter.com",
		Path:     "/home",
		Title:    "Home / Feed",
		Body:     "Doctors don't want you to know this one secret. They are lying to you. Share before it gets taken down!",
		PageType: domain.PageTypeSocial,
		CapturedAt: time.Now(),
	}
	content.Normalize()
	return content
}

// BlankPage builds a snapshot with no manipulative copy.
func BlankPage() *domain.ContentRecord {
	content := &domain.ContentRecord{
		Origin:     "https://docs.example.com",
		Path:       "/manual",
		Title:      "User Manual",
		Body:       "This chapter describes how to assemble the widget. Align part A with part B and tighten the screws.",
		PageType:   domain.PageTypeArticle,
		CapturedAt: time.Now(),
	}
	content.Normalize()
	return content
}

// Package store provides the persistence implementations: in-memory for
// development and tests, PostgreSQL for production, Redis as a read cache.
package store

import (
	"context"
	"sync"

	"github.com/Johndevils/Url-shorter-bot/internal/shortlink"
)

// MemoryLinks is an in-memory implementation of shortlink.Repository.
type MemoryLinks struct {
	mu    sync.RWMutex
	links map[string]shortlink.ShortLink
}

// NewMemoryLinks creates a new in-memory link store.
func NewMemoryLinks() *MemoryLinks {
	return &MemoryLinks{
		links: make(map[string]shortlink.ShortLink),
	}
}

// Save stores a link, failing with ErrCodeTaken when the code already maps
// to a target. Existing mappings are never overwritten.
func (m *MemoryLinks) Save(_ context.Context, link *shortlink.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Code]; ok {
		return shortlink.ErrCodeTaken
	}

	m.links[link.Code] = *link

	return nil
}

func (m *MemoryLinks) GetByCode(_ context.Context, code string) (*shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortlink.ErrNotFound
	}

	return &link, nil
}

// MemoryRegistry is an in-memory user registry. Membership only grows.
type MemoryRegistry struct {
	mu    sync.RWMutex
	chats map[int64]struct{}
}

// NewMemoryRegistry creates a new in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		chats: make(map[int64]struct{}),
	}
}

func (m *MemoryRegistry) Add(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chats[chatID] = struct{}{}

	return nil
}

func (m *MemoryRegistry) All(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.chats))
	for id := range m.chats {
		ids = append(ids, id)
	}

	return ids, nil
}

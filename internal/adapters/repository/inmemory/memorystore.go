package inmemory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/memory"
)

// MemoryStore implements memory.Store with per-namespace ordered slices.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string][]memory.Item
	keys       map[string]map[string]struct{}
}

// NewMemoryStore creates an empty in-memory user memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string][]memory.Item),
		keys:       make(map[string]map[string]struct{}),
	}
}

// Put appends an item under the namespace. Keys are write-once.
func (s *MemoryStore) Put(_ context.Context, ns memory.Namespace, key, text string) error {
	if err := ns.Validate(); err != nil {
		return err
	}
	if key == "" {
		return memory.ErrInvalidKey
	}
	if strings.TrimSpace(text) == "" {
		return memory.ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nsKey := ns.String()
	if s.keys[nsKey] == nil {
		s.keys[nsKey] = make(map[string]struct{})
	}
	if _, exists := s.keys[nsKey][key]; exists {
		return fmt.Errorf("%w: %s", memory.ErrDuplicateKey, key)
	}
	s.keys[nsKey][key] = struct{}{}
	s.namespaces[nsKey] = append(s.namespaces[nsKey], memory.Item{
		Key:       key,
		Text:      text,
		CreatedAt: time.Now(),
	})
	return nil
}

// Search returns all items in the namespace in insertion order.
func (s *MemoryStore) Search(_ context.Context, ns memory.Namespace) ([]memory.Item, error) {
	if err := ns.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.namespaces[ns.String()]
	out := make([]memory.Item, len(items))
	copy(out, items)
	return out, nil
}

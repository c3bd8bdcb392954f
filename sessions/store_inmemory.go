package sessions

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryStore keeps session keys in process memory
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[Key]string // browserID -> key -> value
}

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		values: make(map[string]map[Key]string),
	}
}

func (s *InMemoryStore) Get(_ context.Context, browserID string, key Key) (string, bool, error) {
	if browserID == "" {
		return "", false, fmt.Errorf("browserID is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[browserID][key]
	return value, ok, nil
}

func (s *InMemoryStore) Set(_ context.Context, browserID string, key Key, value string) error {
	if browserID == "" {
		return fmt.Errorf("browserID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[browserID]; !ok {
		s.values[browserID] = make(map[Key]string)
	}
	s.values[browserID][key] = value
	return nil
}

func (s *InMemoryStore) Remove(_ context.Context, browserID string, keys ...Key) error {
	if browserID == "" {
		return fmt.Errorf("browserID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	browserValues, ok := s.values[browserID]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(browserValues, key)
	}

	// Clean up empty browser maps
	if len(browserValues) == 0 {
		delete(s.values, browserID)
	}
	return nil
}

// Len returns the number of browser contexts holding at least one key
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

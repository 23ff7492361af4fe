package store

import (
	"errors"
	"sync"
	"time"

	"weathermood/internal/weather"
)

// ErrNotFound is returned when no model has been stored for a query key.
var ErrNotFound = errors.New("no stored weather for query")

type entry struct {
	model      *weather.WeatherModel
	generation uint64
	storedAt   time.Time
}

// MemoryStore keeps the latest model per query key in memory. Writes carry
// the request generation; a write older than the stored one is discarded so
// late responses can never overwrite a newer request's result.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry)}
}

// SaveLatest stores the model unless a newer generation already holds the
// key. It reports whether the write was accepted.
func (s *MemoryStore) SaveLatest(key string, generation uint64, m *weather.WeatherModel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.entries[key]; ok && cur.generation >= generation {
		return false
	}
	s.entries[key] = entry{model: m, generation: generation, storedAt: time.Now()}
	return true
}

// GetLatest returns the most recently accepted model for the key.
func (s *MemoryStore) GetLatest(key string) (*weather.WeatherModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cur.model, nil
}

// Len reports how many query keys currently hold a model.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

package memory

import (
	"context"
	"sync"

	"github.com/aretw0/mentor/pkg/domain"
)

// Store implements ports.LessonCache in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory lesson cache.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Get returns the cached lesson for the key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lesson, ok := s.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return lesson, nil
}

// Set stores the lesson for the key.
func (s *Store) Set(ctx context.Context, key string, lesson string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = lesson
	return nil
}

// Delete removes the lesson.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys returns the cached topic IDs.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

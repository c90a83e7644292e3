package store

import (
	"context"
	"sync"

	"dossier/internal/rules/models"
	"dossier/pkg/platform/sentinel"
)

// InMemoryStore keeps rule values in a map.
type InMemoryStore struct {
	mu    sync.RWMutex
	rules map[models.Key]int64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{rules: make(map[models.Key]int64)}
}

func (s *InMemoryStore) Find(_ context.Context, key models.Key) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.rules[key]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	return v, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, rules []models.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rules {
		s.rules[r.Key] = r.Value
	}
	return nil
}

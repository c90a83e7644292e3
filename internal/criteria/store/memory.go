package store

import (
	"context"
	"sync"

	"dossier/internal/criteria/models"
	"dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	documents map[string]models.Document
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{documents: make(map[string]models.Document)}
}

func (s *InMemoryStore) Find(_ context.Context, cpid domain.Cpid) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[cpid.String()]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &doc, nil
}

// Save keeps the first document stored for a cpid.
func (s *InMemoryStore) Save(_ context.Context, doc models.Document) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[doc.Cpid.String()]; exists {
		return false, nil
	}
	s.documents[doc.Cpid.String()] = doc
	return true, nil
}

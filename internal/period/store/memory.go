package store

import (
	"context"
	"sync"

	"dossier/internal/period/models"
	"dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

type key struct {
	cpid string
	ocid string
}

// InMemoryStore keeps periods in a map. The write lock makes SaveOrUpdate's
// end date comparison atomic.
type InMemoryStore struct {
	mu      sync.RWMutex
	periods map[key]models.Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{periods: make(map[key]models.Record)}
}

func (s *InMemoryStore) Find(_ context.Context, cpid domain.Cpid, ocid domain.Ocid) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.periods[key{cpid.String(), ocid.String()}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &record, nil
}

func (s *InMemoryStore) SaveOrUpdate(_ context.Context, record models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{record.Cpid.String(), record.Ocid.String()}
	if stored, ok := s.periods[k]; ok && !stored.ExtendsTo(record.Period.EndDate) {
		return sentinel.ErrConflict
	}
	s.periods[k] = record
	return nil
}

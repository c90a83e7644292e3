package store

import (
	"context"
	"sort"
	"sync"

	"dossier/internal/submission/models"
	"dossier/pkg/domain"
	"dossier/pkg/platform/sentinel"
)

type releaseKey struct {
	cpid string
	ocid string
}

// InMemoryStore keeps submissions per release in insertion order.
type InMemoryStore struct {
	mu       sync.RWMutex
	releases map[releaseKey][]models.Submission
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{releases: make(map[releaseKey][]models.Submission)}
}

func keyOf(cpid domain.Cpid, ocid domain.Ocid) releaseKey {
	return releaseKey{cpid: cpid.String(), ocid: ocid.String()}
}

func (s *InMemoryStore) Save(_ context.Context, submission models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := keyOf(submission.Cpid, submission.Ocid)
	for _, existing := range s.releases[k] {
		if existing.ID == submission.ID {
			return sentinel.ErrConflict
		}
	}
	s.releases[k] = append(s.releases[k], submission)
	return nil
}

func (s *InMemoryStore) FindByIDs(_ context.Context, cpid domain.Cpid, ocid domain.Ocid, ids []domain.SubmissionID) ([]models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[domain.SubmissionID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var out []models.Submission
	for _, sub := range s.releases[keyOf(cpid, ocid)] {
		if _, ok := wanted[sub.ID]; ok {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *InMemoryStore) FindAll(_ context.Context, cpid domain.Cpid, ocid domain.Ocid) ([]models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := s.releases[keyOf(cpid, ocid)]
	out := make([]models.Submission, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// UpdateStatuses checks every id before writing any of them.
func (s *InMemoryStore) UpdateStatuses(_ context.Context, cpid domain.Cpid, ocid domain.Ocid, states []models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.releases[keyOf(cpid, ocid)]
	index := make(map[domain.SubmissionID]int, len(subs))
	for i, sub := range subs {
		index[sub.ID] = i
	}
	for _, st := range states {
		if _, ok := index[st.ID]; !ok {
			return sentinel.ErrNotFound
		}
	}
	for _, st := range states {
		subs[index[st.ID]].Status = st.Status
	}
	return nil
}

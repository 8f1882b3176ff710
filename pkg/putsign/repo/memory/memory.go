package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/putsign/putsign/pkg/putsign"
)

// Store is an in-memory implementation of the putsign.GrantStore interface
type Store struct {
	mu     sync.RWMutex
	grants map[uuid.UUID]putsign.Grant
	order  []uuid.UUID
}

// New creates a new in-memory grant store
func New() *Store {
	return &Store{
		grants: make(map[uuid.UUID]putsign.Grant),
	}
}

// RecordGrant stores an issued grant
func (s *Store) RecordGrant(ctx context.Context, grant *putsign.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.grants[grant.ID]; !exists {
		s.order = append(s.order, grant.ID)
	}
	s.grants[grant.ID] = *grant
	return nil
}

// GetGrant retrieves a grant by ID
func (s *Store) GetGrant(ctx context.Context, id uuid.UUID) (*putsign.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grant, exists := s.grants[id]
	if !exists {
		return nil, putsign.ErrGrantNotFound
	}
	return &grant, nil
}

// ListGrants returns recorded grants, newest first. An empty bucket matches
// all buckets.
func (s *Store) ListGrants(ctx context.Context, bucket string) ([]*putsign.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var grants []*putsign.Grant
	for i := len(s.order) - 1; i >= 0; i-- {
		grant := s.grants[s.order[i]]
		if bucket != "" && grant.Bucket != bucket {
			continue
		}
		grants = append(grants, &grant)
	}
	return grants, nil
}

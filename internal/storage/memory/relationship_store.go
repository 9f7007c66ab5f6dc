package memory

import (
	"context"
	"sync"

	"asset-graph-lab/internal/domain"
	"asset-graph-lab/internal/storage"
)

// RelationshipStore is an in-memory implementation of
// storage.RelationshipStore. Records keep insertion order.
type RelationshipStore struct {
	mu    sync.RWMutex
	data  []*domain.Relationship
	index map[string]bool // source|target|kind
}

// NewRelationshipStore creates a new in-memory relationship store.
func NewRelationshipStore() *RelationshipStore {
	return &RelationshipStore{index: make(map[string]bool)}
}

func relationshipKey(r *domain.Relationship) string {
	return r.SourceID + "|" + r.TargetID + "|" + string(r.Kind)
}

// Insert adds a new relationship.
// Returns ErrDuplicateKey for a repeated (source, target, kind).
func (s *RelationshipStore) Insert(_ context.Context, r *domain.Relationship) error {
	if r == nil || r.SourceID == "" || r.TargetID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := relationshipKey(r)
	if s.index[key] {
		return storage.ErrDuplicateKey
	}
	s.index[key] = true
	s.data = append(s.data, r.Clone())
	return nil
}

// GetAll returns all relationships in insertion order.
func (s *RelationshipStore) GetAll(_ context.Context) ([]*domain.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Relationship, 0, len(s.data))
	for _, r := range s.data {
		out = append(out, r.Clone())
	}
	return out, nil
}

// GetByKind returns relationships of one kind in insertion order.
func (s *RelationshipStore) GetByKind(_ context.Context, kind domain.RelationshipKind) ([]*domain.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Relationship
	for _, r := range s.data {
		if r.Kind == kind {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

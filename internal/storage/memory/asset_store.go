package memory

import (
	"context"
	"sort"
	"sync"

	"asset-graph-lab/internal/domain"
	"asset-graph-lab/internal/storage"
)

// AssetStore is an in-memory implementation of storage.AssetStore.
type AssetStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Asset // keyed by asset id
}

// NewAssetStore creates a new in-memory asset store.
func NewAssetStore() *AssetStore {
	return &AssetStore{data: make(map[string]*domain.Asset)}
}

// Insert adds a new asset. Returns ErrDuplicateKey if the id exists.
func (s *AssetStore) Insert(_ context.Context, a *domain.Asset) error {
	if a == nil || a.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.ID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	cp := *a
	s.data[a.ID] = &cp
	return nil
}

// GetByID retrieves an asset by id. Returns ErrNotFound if not exists.
func (s *AssetStore) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *a
	return &cp, nil
}

// GetAll returns all assets sorted by id.
func (s *AssetStore) GetAll(_ context.Context) ([]*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Asset, 0, len(s.data))
	for _, a := range s.data {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetByClass returns assets of one class sorted by id.
func (s *AssetStore) GetByClass(_ context.Context, class domain.AssetClass) ([]*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Asset
	for _, a := range s.data {
		if a.Class == class {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

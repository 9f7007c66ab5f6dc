package memory

import (
	"context"
	"sync"

	"asset-graph-lab/internal/domain"
	"asset-graph-lab/internal/storage"
)

// PriceSeriesStore is an in-memory implementation of storage.PriceSeriesStore.
type PriceSeriesStore struct {
	mu   sync.RWMutex
	data map[string]domain.PriceSeries // keyed by asset id
	seen map[string]map[int64]bool     // asset id -> observed timestamps
}

// NewPriceSeriesStore creates a new in-memory price series store.
func NewPriceSeriesStore() *PriceSeriesStore {
	return &PriceSeriesStore{
		data: make(map[string]domain.PriceSeries),
		seen: make(map[string]map[int64]bool),
	}
}

// Append adds observations to an asset's series. Duplicate timestamps within
// one asset's series return ErrDuplicateKey; the batch is checked up front so
// a rejected batch leaves the store unchanged.
func (s *PriceSeriesStore) Append(_ context.Context, assetID string, points []domain.PricePoint) error {
	if assetID == "" || len(points) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := s.seen[assetID]
	if seen == nil {
		seen = make(map[int64]bool)
		s.seen[assetID] = seen
	}

	batch := make(map[int64]bool, len(points))
	for _, p := range points {
		if seen[p.TimestampMs] || batch[p.TimestampMs] {
			return storage.ErrDuplicateKey
		}
		batch[p.TimestampMs] = true
	}

	s.data[assetID] = append(s.data[assetID], points...)
	s.data[assetID].Sort()
	for ts := range batch {
		seen[ts] = true
	}
	return nil
}

// GetByAssetID returns the series sorted by timestamp ascending.
// Returns ErrNotFound when the asset has no observations.
func (s *PriceSeriesStore) GetByAssetID(_ context.Context, assetID string) (domain.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points, exists := s.data[assetID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return points.Clone(), nil
}

// GetAll returns every series keyed by asset id, each sorted ascending.
func (s *PriceSeriesStore) GetAll(_ context.Context) (map[string]domain.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.PriceSeries, len(s.data))
	for id, points := range s.data {
		out[id] = points.Clone()
	}
	return out, nil
}

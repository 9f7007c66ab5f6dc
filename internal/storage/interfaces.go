// Package storage defines the record stores the graph core consumes. The
// persistence collaborator supplies implementations; the in-memory ones under
// storage/memory back tests and the bundled pipeline binaries.
package storage

import (
	"context"

	"asset-graph-lab/internal/domain"
)

// AssetStore provides access to asset records.
type AssetStore interface {
	// Insert adds a new asset. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, a *domain.Asset) error

	// GetByID retrieves an asset by id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Asset, error)

	// GetAll returns all assets sorted by id.
	GetAll(ctx context.Context) ([]*domain.Asset, error)

	// GetByClass returns assets of one class sorted by id.
	GetByClass(ctx context.Context, class domain.AssetClass) ([]*domain.Asset, error)
}

// RelationshipStore provides access to relationship records.
type RelationshipStore interface {
	// Insert adds a new relationship.
	// Returns ErrDuplicateKey for a repeated (source, target, kind).
	Insert(ctx context.Context, r *domain.Relationship) error

	// GetAll returns all relationships in insertion order.
	GetAll(ctx context.Context) ([]*domain.Relationship, error)

	// GetByKind returns relationships of one kind in insertion order.
	GetByKind(ctx context.Context, kind domain.RelationshipKind) ([]*domain.Relationship, error)
}

// PriceSeriesStore provides access to historical price observations.
type PriceSeriesStore interface {
	// Append adds observations to an asset's series. Duplicate timestamps
	// within one asset's series return ErrDuplicateKey.
	Append(ctx context.Context, assetID string, points []domain.PricePoint) error

	// GetByAssetID returns the series sorted by timestamp ascending.
	// Returns ErrNotFound when the asset has no observations.
	GetByAssetID(ctx context.Context, assetID string) (domain.PriceSeries, error)

	// GetAll returns every series keyed by asset id, each sorted ascending.
	GetAll(ctx context.Context) (map[string]domain.PriceSeries, error)
}

package memory

import (
	"context"
	"errors"
	"testing"

	"asset-graph-lab/internal/domain"
	"asset-graph-lab/internal/storage"
)

func sampleRelationship(source, target string, kind domain.RelationshipKind) *domain.Relationship {
	return &domain.Relationship{SourceID: source, TargetID: target, Kind: kind, Weight: 0.5}
}

func TestRelationshipStore_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()

	_ = store.Insert(ctx, sampleRelationship("B", "C", domain.KindCorrelation))
	_ = store.Insert(ctx, sampleRelationship("A", "B", domain.KindCorrelation))

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// GetAll preserves insertion order, not id order
	if len(all) != 2 || all[0].SourceID != "B" || all[1].SourceID != "A" {
		t.Errorf("unexpected order: %+v", all)
	}
}

func TestRelationshipStore_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()

	_ = store.Insert(ctx, sampleRelationship("A", "B", domain.KindCorrelation))

	// Same (source, target, kind) → duplicate
	err := store.Insert(ctx, sampleRelationship("A", "B", domain.KindCorrelation))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	// Same endpoints, different kind → allowed
	if err := store.Insert(ctx, sampleRelationship("A", "B", domain.KindComposition)); err != nil {
		t.Errorf("expected different kind to insert, got %v", err)
	}
}

func TestRelationshipStore_GetByKind(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()

	_ = store.Insert(ctx, sampleRelationship("A", "IDX", domain.KindComposition))
	_ = store.Insert(ctx, sampleRelationship("A", "B", domain.KindCorrelation))

	compositions, err := store.GetByKind(ctx, domain.KindComposition)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(compositions) != 1 || compositions[0].TargetID != "IDX" {
		t.Errorf("expected only the composition edge, got %+v", compositions)
	}
}

func TestRelationshipStore_CloneOnRead(t *testing.T) {
	ctx := context.Background()
	store := NewRelationshipStore()

	r := sampleRelationship("A", "B", domain.KindCorrelation)
	r.Metadata = map[string]string{"provenance": "rolling_90d"}
	_ = store.Insert(ctx, r)

	all, _ := store.GetAll(ctx)
	all[0].Metadata["provenance"] = "changed"

	again, _ := store.GetAll(ctx)
	if again[0].Metadata["provenance"] != "rolling_90d" {
		t.Error("mutating a read result leaked into the store")
	}
}

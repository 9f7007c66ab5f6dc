package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"asset-graph-lab/internal/domain"
)

func testAssets(ids ...string) []*domain.Asset {
	assets := make([]*domain.Asset, len(ids))
	for i, id := range ids {
		assets[i] = &domain.Asset{
			ID:       id,
			Symbol:   id,
			Name:     "Asset " + id,
			Class:    domain.AssetClassEquity,
			Currency: "USD",
			Price:    100,
		}
	}
	return assets
}

func composition(source, target string, weight float64) *domain.Relationship {
	return &domain.Relationship{SourceID: source, TargetID: target, Kind: domain.KindComposition, Weight: weight}
}

func correlation(source, target string, weight float64) *domain.Relationship {
	return &domain.Relationship{SourceID: source, TargetID: target, Kind: domain.KindCorrelation, Weight: weight, Bidirectional: true}
}

func TestBuild_ValidGraph(t *testing.T) {
	assets := testAssets("A", "B", "IDX")
	rels := []*domain.Relationship{
		composition("A", "IDX", 0.6),
		composition("B", "IDX", 0.4),
	}

	g, err := NewBuilder(zerolog.Nop()).Build(assets, rels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.AssetCount() != 3 {
		t.Errorf("expected 3 assets, got %d", g.AssetCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}
}

func TestBuild_CompositionWeightSumViolation(t *testing.T) {
	// Weights 0.6 + 0.5 = 1.1 ≠ 1.0 → whole build rejected
	assets := testAssets("A", "B", "IDX")
	rels := []*domain.Relationship{
		composition("A", "IDX", 0.6),
		composition("B", "IDX", 0.5),
	}

	g, err := NewBuilder(zerolog.Nop()).Build(assets, rels)
	if g != nil {
		t.Error("expected no graph on integrity failure")
	}
	var integrityErr *IntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if len(integrityErr.Violations) != 1 {
		t.Errorf("expected 1 violation, got %v", integrityErr.Violations)
	}
}

func TestBuild_WeightSumWithinTolerance(t *testing.T) {
	// 0.3333 + 0.3333 + 0.3334 = 1.0 up to float rounding
	assets := testAssets("A", "B", "C", "IDX")
	rels := []*domain.Relationship{
		composition("A", "IDX", 0.3333),
		composition("B", "IDX", 0.3333),
		composition("C", "IDX", 0.3334),
	}

	if _, err := NewBuilder(zerolog.Nop()).Build(assets, rels); err != nil {
		t.Errorf("expected sum within default tolerance to pass, got %v", err)
	}
}

func TestBuild_ReferentialIntegrity(t *testing.T) {
	assets := testAssets("A")
	rels := []*domain.Relationship{correlation("A", "MISSING", 0.5)}

	_, err := NewBuilder(zerolog.Nop()).Build(assets, rels)
	var integrityErr *IntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if !strings.Contains(err.Error(), "MISSING") {
		t.Errorf("expected violation naming the missing asset, got %v", err)
	}
}

func TestBuild_DuplicateAssetID(t *testing.T) {
	assets := append(testAssets("A"), testAssets("A")...)

	_, err := NewBuilder(zerolog.Nop()).Build(assets, nil)
	if err == nil {
		t.Fatal("expected error for duplicate asset id")
	}
}

func TestBuild_DuplicateEdge(t *testing.T) {
	// Same source, target and kind twice → rejected
	assets := testAssets("A", "B")
	rels := []*domain.Relationship{
		correlation("A", "B", 0.5),
		correlation("A", "B", 0.7),
	}

	_, err := NewBuilder(zerolog.Nop()).Build(assets, rels)
	if err == nil {
		t.Fatal("expected error for duplicate edge")
	}
}

func TestBuild_CompositionCycleRejected(t *testing.T) {
	assets := testAssets("A", "B", "C")
	rels := []*domain.Relationship{
		composition("A", "B", 1.0),
		composition("B", "C", 1.0),
		composition("C", "A", 1.0),
	}

	_, err := NewBuilder(zerolog.Nop()).Build(assets, rels)
	if err == nil {
		t.Fatal("expected error for composition cycle")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("expected cycle in message, got %v", err)
	}
}

func TestBuild_CorrelationCycleAllowed(t *testing.T) {
	// Cycle constraint applies to COMPOSITION and FORMULAIC only
	assets := testAssets("A", "B", "C")
	rels := []*domain.Relationship{
		correlation("A", "B", 0.5),
		correlation("B", "C", 0.5),
		correlation("C", "A", 0.5),
	}

	if _, err := NewBuilder(zerolog.Nop()).Build(assets, rels); err != nil {
		t.Errorf("expected correlation cycle to pass, got %v", err)
	}
}

func TestBuild_CollectsAllViolations(t *testing.T) {
	// One build surfaces every problem at once
	assets := testAssets("A", "IDX")
	rels := []*domain.Relationship{
		composition("A", "IDX", 0.5),        // sum ≠ 1.0
		correlation("A", "MISSING", 0.5),    // unknown endpoint
		{SourceID: "A", TargetID: "A", Kind: domain.KindCorrelation, Weight: 0.5}, // self-reference
	}

	_, err := NewBuilder(zerolog.Nop()).Build(assets, rels)
	var integrityErr *IntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if len(integrityErr.Violations) < 3 {
		t.Errorf("expected at least 3 violations, got %v", integrityErr.Violations)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	// Same inputs in a different order produce the same graph
	assets := testAssets("A", "B", "IDX")
	rels := []*domain.Relationship{
		composition("A", "IDX", 0.6),
		composition("B", "IDX", 0.4),
	}
	reversedAssets := []*domain.Asset{assets[2], assets[1], assets[0]}

	g1, err := NewBuilder(zerolog.Nop()).Build(assets, rels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g2, err := NewBuilder(zerolog.Nop()).Build(reversedAssets, rels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids1 := make([]string, 0, g1.AssetCount())
	for _, a := range g1.Assets() {
		ids1 = append(ids1, a.ID)
	}
	ids2 := make([]string, 0, g2.AssetCount())
	for _, a := range g2.Assets() {
		ids2 = append(ids2, a.ID)
	}
	if strings.Join(ids1, ",") != strings.Join(ids2, ",") {
		t.Errorf("asset order differs: %v vs %v", ids1, ids2)
	}
}

// Package graph provides the asset relationship graph: node and edge storage,
// adjacency queries, cycle detection, and build-time integrity validation.
package graph

import (
	"fmt"
	"math"
	"sort"

	"asset-graph-lab/internal/domain"
)

// Direction selects which edges Neighbors considers relative to the anchor asset.
type Direction int

const (
	DirectionOutgoing Direction = iota
	DirectionIncoming
	DirectionBoth
)

// Neighbor pairs a connected asset with the edge that connects it.
type Neighbor struct {
	Asset *domain.Asset
	Edge  *domain.Relationship
}

// RejectedEdge records one edge refused by AddEdges together with the reason.
type RejectedEdge struct {
	Edge   *domain.Relationship
	Reason error
}

// RelationshipGraph is an immutable graph of assets and typed relationships.
// Built once by Builder from a snapshot of records; a new graph is built
// rather than mutated when underlying data changes, so concurrent readers
// never need locking.
type RelationshipGraph struct {
	assets   map[string]*domain.Asset
	outgoing map[string][]*domain.Relationship
	incoming map[string][]*domain.Relationship
	edges    []*domain.Relationship // insertion order

	compositionWeights map[string]map[string]float64
	weightTolerance    float64
}

// newGraph indexes validated assets and edges. Callers guarantee validity.
func newGraph(assets map[string]*domain.Asset, edges []*domain.Relationship, tolerance float64) *RelationshipGraph {
	g := &RelationshipGraph{
		assets:             assets,
		outgoing:           make(map[string][]*domain.Relationship),
		incoming:           make(map[string][]*domain.Relationship),
		edges:              edges,
		compositionWeights: make(map[string]map[string]float64),
		weightTolerance:    tolerance,
	}
	for _, e := range edges {
		g.outgoing[e.SourceID] = append(g.outgoing[e.SourceID], e)
		g.incoming[e.TargetID] = append(g.incoming[e.TargetID], e)
		if e.Kind == domain.KindComposition {
			weights := g.compositionWeights[e.TargetID]
			if weights == nil {
				weights = make(map[string]float64)
				g.compositionWeights[e.TargetID] = weights
			}
			weights[e.SourceID] = e.Weight
		}
	}
	return g
}

// Asset returns the asset with the given id.
// Returns ErrAssetNotFound if the id is unknown.
func (g *RelationshipGraph) Asset(id string) (*domain.Asset, error) {
	a, ok := g.assets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
	}
	return a, nil
}

// Assets returns all assets sorted by id.
func (g *RelationshipGraph) Assets() []*domain.Asset {
	out := make([]*domain.Asset, 0, len(g.assets))
	for _, a := range g.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AssetCount returns the number of assets in the graph.
func (g *RelationshipGraph) AssetCount() int {
	return len(g.assets)
}

// Edges returns all relationships in insertion order.
func (g *RelationshipGraph) Edges() []*domain.Relationship {
	out := make([]*domain.Relationship, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgeCount returns the number of relationships in the graph.
func (g *RelationshipGraph) EdgeCount() int {
	return len(g.edges)
}

// Neighbors returns assets connected to id via edges of the given kinds and
// direction, in edge insertion order. A nil kinds slice matches every kind.
// Bidirectional CORRELATION edges connect in both directions regardless of
// which end they were recorded on.
func (g *RelationshipGraph) Neighbors(id string, kinds []domain.RelationshipKind, dir Direction) ([]Neighbor, error) {
	if _, ok := g.assets[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
	}

	kindSet := make(map[domain.RelationshipKind]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}
	matchKind := func(k domain.RelationshipKind) bool {
		return len(kindSet) == 0 || kindSet[k]
	}

	var out []Neighbor
	for _, e := range g.edges {
		if !matchKind(e.Kind) {
			continue
		}
		outward := e.SourceID == id
		inward := e.TargetID == id
		if !outward && !inward {
			continue
		}
		switch {
		case outward && (dir == DirectionOutgoing || dir == DirectionBoth):
			out = append(out, Neighbor{Asset: g.assets[e.TargetID], Edge: e})
		case inward && (dir == DirectionIncoming || dir == DirectionBoth):
			out = append(out, Neighbor{Asset: g.assets[e.SourceID], Edge: e})
		case outward && dir == DirectionIncoming && e.Bidirectional:
			out = append(out, Neighbor{Asset: g.assets[e.TargetID], Edge: e})
		case inward && dir == DirectionOutgoing && e.Bidirectional:
			out = append(out, Neighbor{Asset: g.assets[e.SourceID], Edge: e})
		}
	}
	return out, nil
}

// CompositionWeights returns component id -> weight for COMPOSITION edges into
// targetID. Weight sums were validated at build time, so callers never see a
// violated sum here. An asset with no composition edges yields an empty map.
func (g *RelationshipGraph) CompositionWeights(targetID string) (map[string]float64, error) {
	if _, ok := g.assets[targetID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, targetID)
	}
	weights := make(map[string]float64, len(g.compositionWeights[targetID]))
	for id, w := range g.compositionWeights[targetID] {
		weights[id] = w
	}
	return weights, nil
}

// AddEdges appends new edges with the same validation as construction and
// returns a new graph; the receiver is left untouched. Edges that fail
// validation, reference unknown assets, break a composition weight sum, or
// would close a cycle for a cycle-sensitive kind are rejected individually
// rather than aborting the whole batch.
func (g *RelationshipGraph) AddEdges(rels []*domain.Relationship) (*RelationshipGraph, []RejectedEdge) {
	accepted := make([]*domain.Relationship, len(g.edges), len(g.edges)+len(rels))
	copy(accepted, g.edges)
	var rejected []RejectedEdge

	for _, rel := range rels {
		if errs := rel.Validate(); len(errs) > 0 {
			rejected = append(rejected, RejectedEdge{Edge: rel, Reason: errs})
			continue
		}
		if _, ok := g.assets[rel.SourceID]; !ok {
			rejected = append(rejected, RejectedEdge{Edge: rel, Reason: fmt.Errorf("%w: %s", ErrAssetNotFound, rel.SourceID)})
			continue
		}
		if _, ok := g.assets[rel.TargetID]; !ok {
			rejected = append(rejected, RejectedEdge{Edge: rel, Reason: fmt.Errorf("%w: %s", ErrAssetNotFound, rel.TargetID)})
			continue
		}
		if dup := duplicateOf(accepted, rel); dup {
			rejected = append(rejected, RejectedEdge{Edge: rel, Reason: fmt.Errorf("duplicate %s relationship %s", rel.Kind, rel.Key())})
			continue
		}
		if acyclicKind(rel.Kind) {
			adj := kindAdjacency(accepted, rel.Kind)
			if path := findPath(adj, rel.TargetID, rel.SourceID); path != nil {
				cycle := append([]string{rel.SourceID}, path[:len(path)-1]...)
				rejected = append(rejected, RejectedEdge{Edge: rel, Reason: &CycleError{Kind: rel.Kind, Cycle: cycle}})
				continue
			}
		}
		accepted = append(accepted, rel.Clone())
	}

	accepted, sumRejections := rejectBrokenCompositionSums(accepted, len(g.edges), g.weightTolerance)
	rejected = append(rejected, sumRejections...)

	return newGraph(g.assets, accepted, g.weightTolerance), rejected
}

// rejectBrokenCompositionSums drops newly appended COMPOSITION edges whose
// target's weights no longer sum to 1 within tolerance. Sums are evaluated per
// target over the whole batch, so a complete composition set added in one call
// passes while a partial or excess one is rejected as a group. The first
// preexisting edges (index < existing) are never dropped.
func rejectBrokenCompositionSums(edges []*domain.Relationship, existing int, tolerance float64) ([]*domain.Relationship, []RejectedEdge) {
	sums := make(map[string]float64)
	hasNew := make(map[string]bool)
	for i, e := range edges {
		if e.Kind != domain.KindComposition {
			continue
		}
		sums[e.TargetID] += e.Weight
		if i >= existing {
			hasNew[e.TargetID] = true
		}
	}

	broken := make(map[string]float64)
	for target := range hasNew {
		if sum := sums[target]; math.Abs(sum-1.0) > tolerance {
			broken[target] = sum
		}
	}
	if len(broken) == 0 {
		return edges, nil
	}

	kept := edges[:existing:existing]
	var rejected []RejectedEdge
	for _, e := range edges[existing:] {
		if e.Kind == domain.KindComposition {
			if sum, bad := broken[e.TargetID]; bad {
				rejected = append(rejected, RejectedEdge{Edge: e, Reason: &IntegrityError{Violations: []string{
					fmt.Sprintf("composition weights into %s would sum to %v, want 1.0 ± %v", e.TargetID, sum, tolerance),
				}}})
				continue
			}
		}
		kept = append(kept, e)
	}
	return kept, rejected
}

// duplicateOf reports whether edges already contains an edge with the same
// source, target, and kind.
func duplicateOf(edges []*domain.Relationship, rel *domain.Relationship) bool {
	for _, e := range edges {
		if e.SourceID == rel.SourceID && e.TargetID == rel.TargetID && e.Kind == rel.Kind {
			return true
		}
	}
	return false
}

// acyclicKind reports whether the subgraph of the given kind must stay a DAG.
// Composition chains and formulaic dependencies may not loop back on
// themselves; correlation edges carry no such constraint.
func acyclicKind(kind domain.RelationshipKind) bool {
	return kind == domain.KindComposition || kind == domain.KindFormulaic
}

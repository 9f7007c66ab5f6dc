// Package metrics computes topology metrics over a built relationship graph.
// All computations are pure functions of the graph snapshot and deterministic
// given the same graph.
package metrics

import (
	"math"
	"sort"

	"asset-graph-lab/internal/domain"
	"asset-graph-lab/internal/graph"
)

// AssetMetrics holds per-asset degree and centrality values.
type AssetMetrics struct {
	AssetID          string
	InDegree         int
	OutDegree        int
	InDegreeByKind   map[domain.RelationshipKind]int
	OutDegreeByKind  map[domain.RelationshipKind]int
	DegreeCentrality float64 // (in + out) / 2(n-1)
	Betweenness      float64 // Brandes betweenness on the directed graph
}

// Snapshot is an immutable set of metrics computed fresh from one graph.
type Snapshot struct {
	PerAsset map[string]*AssetMetrics

	TotalAssets        int
	TotalRelationships int
	Density            float64 // directed edges over n(n-1), in [0, 1]
	ComponentCount     int     // weakly connected components

	AverageWeight    float64 // mean |weight| across all edges
	KindDistribution map[domain.RelationshipKind]int
	TopRelationships []*domain.Relationship // up to 10 by |weight| descending
	QualityScore     float64                // composite in [0, 1]
}

// topRelationshipLimit caps how many relationships the snapshot ranks.
const topRelationshipLimit = 10

// Compute builds a metrics snapshot from the graph.
func Compute(g *graph.RelationshipGraph) *Snapshot {
	assets := g.Assets()
	edges := g.Edges()
	n := len(assets)

	snap := &Snapshot{
		PerAsset:           make(map[string]*AssetMetrics, n),
		TotalAssets:        n,
		TotalRelationships: len(edges),
		KindDistribution:   make(map[domain.RelationshipKind]int),
	}

	for _, a := range assets {
		snap.PerAsset[a.ID] = &AssetMetrics{
			AssetID:         a.ID,
			InDegreeByKind:  make(map[domain.RelationshipKind]int),
			OutDegreeByKind: make(map[domain.RelationshipKind]int),
		}
	}

	weightSum := 0.0
	for _, e := range edges {
		src := snap.PerAsset[e.SourceID]
		dst := snap.PerAsset[e.TargetID]
		src.OutDegree++
		src.OutDegreeByKind[e.Kind]++
		dst.InDegree++
		dst.InDegreeByKind[e.Kind]++
		snap.KindDistribution[e.Kind]++
		weightSum += math.Abs(e.Weight)
	}

	if len(edges) > 0 {
		snap.AverageWeight = weightSum / float64(len(edges))
	}
	if n > 1 {
		snap.Density = float64(len(edges)) / float64(n*(n-1))
		for _, m := range snap.PerAsset {
			m.DegreeCentrality = float64(m.InDegree+m.OutDegree) / float64(2*(n-1))
		}
	}

	computeBetweenness(snap, assets, edges)
	snap.ComponentCount = countComponents(assets, edges)
	snap.TopRelationships = topByWeight(edges)
	snap.QualityScore = qualityScore(snap.AverageWeight, len(edges))

	return snap
}

// Ranked returns asset metrics sorted by betweenness, then degree centrality,
// then id. Intended for ranking assets by systemic importance.
func (s *Snapshot) Ranked() []*AssetMetrics {
	out := make([]*AssetMetrics, 0, len(s.PerAsset))
	for _, m := range s.PerAsset {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Betweenness != out[j].Betweenness {
			return out[i].Betweenness > out[j].Betweenness
		}
		if out[i].DegreeCentrality != out[j].DegreeCentrality {
			return out[i].DegreeCentrality > out[j].DegreeCentrality
		}
		return out[i].AssetID < out[j].AssetID
	})
	return out
}

// computeBetweenness runs Brandes' algorithm for unweighted directed
// betweenness centrality, accumulating into the snapshot.
func computeBetweenness(snap *Snapshot, assets []*domain.Asset, edges []*domain.Relationship) {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
	}
	for src := range adj {
		sort.Strings(adj[src])
	}

	for _, source := range assets {
		s := source.ID

		var stack []string
		predecessors := make(map[string][]string)
		sigma := map[string]float64{s: 1}
		dist := map[string]int{s: 0}

		queue := []string{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range adj[v] {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		delta := make(map[string]float64)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				snap.PerAsset[w].Betweenness += delta[w]
			}
		}
	}
}

// countComponents counts weakly connected components, treating every edge as
// undirected.
func countComponents(assets []*domain.Asset, edges []*domain.Relationship) int {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
		adj[e.TargetID] = append(adj[e.TargetID], e.SourceID)
	}

	visited := make(map[string]bool, len(assets))
	components := 0
	for _, a := range assets {
		if visited[a.ID] {
			continue
		}
		components++
		queue := []string{a.ID}
		visited[a.ID] = true
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range adj[v] {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}
	}
	return components
}

// topByWeight returns up to topRelationshipLimit edges ranked by absolute
// weight descending, breaking ties by source then target id.
func topByWeight(edges []*domain.Relationship) []*domain.Relationship {
	ranked := make([]*domain.Relationship, len(edges))
	copy(ranked, edges)
	sort.Slice(ranked, func(i, j int) bool {
		wi, wj := math.Abs(ranked[i].Weight), math.Abs(ranked[j].Weight)
		if wi != wj {
			return wi > wj
		}
		if ranked[i].SourceID != ranked[j].SourceID {
			return ranked[i].SourceID < ranked[j].SourceID
		}
		return ranked[i].TargetID < ranked[j].TargetID
	})
	if len(ranked) > topRelationshipLimit {
		ranked = ranked[:topRelationshipLimit]
	}
	return ranked
}

// qualityScore blends normalized average edge weight with a saturating edge
// count norm. Weights and the saturation constant follow the report's
// established scoring: 0.7 strength, 0.3 breadth, k = 10.
func qualityScore(avgWeight float64, edgeCount int) float64 {
	const (
		k         = 10.0
		wStrength = 0.7
		wBreadth  = 0.3
	)
	norm := 0.0
	if edgeCount > 0 {
		norm = float64(edgeCount) / (float64(edgeCount) + k)
	}
	return clamp01(wStrength*clamp01(avgWeight) + wBreadth*norm)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

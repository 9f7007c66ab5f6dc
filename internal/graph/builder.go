package graph

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"asset-graph-lab/internal/domain"
)

// DefaultWeightTolerance bounds how far composition weights into one target
// may drift from summing to exactly 1.0.
const DefaultWeightTolerance = 1e-6

// Builder assembles a RelationshipGraph from raw asset and relationship
// records. Stateless and reusable; every call validates from scratch.
type Builder struct {
	tolerance float64
	log       zerolog.Logger
}

// NewBuilder creates a builder with the default weight tolerance.
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{
		tolerance: DefaultWeightTolerance,
		log:       log.With().Str("component", "graph_builder").Logger(),
	}
}

// WithWeightTolerance overrides the composition weight-sum tolerance.
func (b *Builder) WithWeightTolerance(tolerance float64) *Builder {
	b.tolerance = tolerance
	return b
}

// Build validates the records and returns a new immutable graph.
// Validation order: individual asset records, duplicate ids, individual
// relationship records, referential integrity, composition weight sums,
// acyclic composition. Every violation across all stages is collected into
// one IntegrityError; no partial graph is returned on failure.
func (b *Builder) Build(assets []*domain.Asset, rels []*domain.Relationship) (*RelationshipGraph, error) {
	var violations []string

	assetsByID := make(map[string]*domain.Asset, len(assets))
	for _, a := range assets {
		for _, verr := range a.Validate() {
			violations = append(violations, verr.Error())
		}
		if a.ID == "" {
			continue
		}
		if _, dup := assetsByID[a.ID]; dup {
			violations = append(violations, (&domain.ValidationError{
				Kind:     domain.ValidationDuplicateAssetID,
				RecordID: a.ID,
				Message:  "asset id appears more than once",
			}).Error())
			continue
		}
		cp := *a
		assetsByID[a.ID] = &cp
	}

	edges := make([]*domain.Relationship, 0, len(rels))
	for _, r := range rels {
		recordValid := true
		for _, verr := range r.Validate() {
			violations = append(violations, verr.Error())
			recordValid = false
		}
		if _, ok := assetsByID[r.SourceID]; !ok && r.SourceID != "" {
			violations = append(violations, fmt.Sprintf("relationship %s references unknown source asset %q", r.Key(), r.SourceID))
			recordValid = false
		}
		if _, ok := assetsByID[r.TargetID]; !ok && r.TargetID != "" {
			violations = append(violations, fmt.Sprintf("relationship %s references unknown target asset %q", r.Key(), r.TargetID))
			recordValid = false
		}
		if recordValid {
			edges = append(edges, r.Clone())
		}
	}

	violations = append(violations, b.checkCompositionSums(edges)...)
	violations = append(violations, checkDuplicateEdges(edges)...)

	for _, kind := range domain.RelationshipKinds() {
		if kind == domain.KindCorrelation {
			continue
		}
		if cycle := findCycle(kindAdjacency(edges, kind)); cycle != nil {
			cerr := &CycleError{Kind: kind, Cycle: cycle}
			violations = append(violations, cerr.Error())
		}
	}

	if len(violations) > 0 {
		b.log.Warn().Int("violations", len(violations)).Msg("graph build rejected")
		return nil, &IntegrityError{Violations: violations}
	}

	g := newGraph(assetsByID, edges, b.tolerance)
	b.log.Info().
		Int("assets", g.AssetCount()).
		Int("relationships", g.EdgeCount()).
		Msg("graph built")
	return g, nil
}

// checkCompositionSums verifies that COMPOSITION weights into each target sum
// to 1.0 within tolerance. Targets are reported in sorted order.
func (b *Builder) checkCompositionSums(edges []*domain.Relationship) []string {
	sums := make(map[string]float64)
	for _, e := range edges {
		if e.Kind == domain.KindComposition {
			sums[e.TargetID] += e.Weight
		}
	}

	targets := make([]string, 0, len(sums))
	for target := range sums {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	var violations []string
	for _, target := range targets {
		if sum := sums[target]; math.Abs(sum-1.0) > b.tolerance {
			violations = append(violations, fmt.Sprintf(
				"composition weights into %s sum to %v, want 1.0 ± %v", target, sum, b.tolerance))
		}
	}
	return violations
}

// checkDuplicateEdges reports edges repeated with the same source, target,
// and kind. Duplicates would double-count weights downstream.
func checkDuplicateEdges(edges []*domain.Relationship) []string {
	seen := make(map[string]bool, len(edges))
	var violations []string
	for _, e := range edges {
		key := strings.Join([]string{e.SourceID, e.TargetID, string(e.Kind)}, "|")
		if seen[key] {
			violations = append(violations, fmt.Sprintf("duplicate %s relationship %s", e.Kind, e.Key()))
			continue
		}
		seen[key] = true
	}
	return violations
}

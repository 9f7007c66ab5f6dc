// Package reporting produces audit-ready schema reports from a built graph
// and, optionally, a formulaic analysis result.
package reporting

import (
	"fmt"
	"sort"
	"time"

	"asset-graph-lab/internal/analysis"
	"asset-graph-lab/internal/domain"
	"asset-graph-lab/internal/graph"
)

// Thin-composition thresholds: a set this small with a component this heavy
// is flagged as a soft finding.
const (
	thinComponentCount = 3
	thinMaxWeight      = 0.5
)

// Generator produces schema reports. Stateless apart from the clock.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate traverses the graph and assembles the schema report. A nil
// analysis result yields a report with a zero-valued formulaic section.
func (g *Generator) Generate(gr *graph.RelationshipGraph, result *analysis.Result) *SchemaReport {
	report := &SchemaReport{
		GeneratedAt:         g.now(),
		TotalAssets:         gr.AssetCount(),
		AssetsByClass:       make(map[domain.AssetClass]int),
		AssetsBySector:      make(map[string]int),
		RelationshipsByKind: make(map[domain.RelationshipKind]int),
	}

	for _, a := range gr.Assets() {
		report.AssetsByClass[a.Class]++
		sector := a.Sector
		if sector == "" {
			sector = "unclassified"
		}
		report.AssetsBySector[sector]++
	}

	// The analysis overlay graph carries the formulaic edges; prefer it so
	// relationship counts include discovered models.
	edgeGraph := gr
	if result != nil && result.Graph != nil {
		edgeGraph = result.Graph
	}
	edges := edgeGraph.Edges()
	report.TotalRelationships = len(edges)
	for _, e := range edges {
		report.RelationshipsByKind[e.Kind]++
	}

	report.CompositionIntegrity = compositionStatuses(gr)
	report.Findings = append(report.Findings, compositionFindings(report.CompositionIntegrity)...)
	report.Findings = append(report.Findings, isolationFindings(gr)...)

	if result != nil {
		report.Formulaic = summarizeAnalysis(result)
		for _, w := range result.Warnings {
			report.Findings = append(report.Findings, Finding{
				Code:    FindingUnstableModel,
				AssetID: w.TargetID,
				Message: fmt.Sprintf("accepted model for %s is ill-conditioned (condition number %.3g)", w.TargetID, w.ConditionNumber),
			})
		}
	}

	return report
}

// compositionStatuses collects weight-sum status per composition target,
// sorted by target id.
func compositionStatuses(gr *graph.RelationshipGraph) []CompositionStatus {
	var statuses []CompositionStatus
	for _, a := range gr.Assets() {
		weights, err := gr.CompositionWeights(a.ID)
		if err != nil || len(weights) == 0 {
			continue
		}
		status := CompositionStatus{
			TargetID:       a.ID,
			ComponentCount: len(weights),
		}
		for _, w := range weights {
			status.WeightSum += w
			if w > status.MaxWeight {
				status.MaxWeight = w
			}
		}
		status.Balanced = status.ComponentCount >= thinComponentCount || status.MaxWeight <= thinMaxWeight
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].TargetID < statuses[j].TargetID })
	return statuses
}

// compositionFindings turns unbalanced composition sets into findings.
func compositionFindings(statuses []CompositionStatus) []Finding {
	var findings []Finding
	for _, s := range statuses {
		if s.Balanced {
			continue
		}
		findings = append(findings, Finding{
			Code:    FindingThinComposition,
			AssetID: s.TargetID,
			Message: fmt.Sprintf("composition of %s has only %d component(s) with max weight %.2f", s.TargetID, s.ComponentCount, s.MaxWeight),
		})
	}
	return findings
}

// isolationFindings flags assets with no relationships in either direction.
func isolationFindings(gr *graph.RelationshipGraph) []Finding {
	connected := make(map[string]bool)
	for _, e := range gr.Edges() {
		connected[e.SourceID] = true
		connected[e.TargetID] = true
	}

	var findings []Finding
	for _, a := range gr.Assets() {
		if connected[a.ID] {
			continue
		}
		findings = append(findings, Finding{
			Code:    FindingIsolatedAsset,
			AssetID: a.ID,
			Message: fmt.Sprintf("asset %s participates in no relationships", a.ID),
		})
	}
	return findings
}

// summarizeAnalysis folds an analysis result into the report's summary.
func summarizeAnalysis(result *analysis.Result) FormulaicSummary {
	summary := FormulaicSummary{
		TargetsAnalyzed: len(result.Models) + len(result.Undetermined) + len(result.Rejected),
		ModelsAccepted:  len(result.Models),
		Undetermined:    len(result.Undetermined),
		Rejected:        len(result.Rejected),
		Skipped:         len(result.Skipped),
		AcceptanceRate:  result.AcceptanceRate(),
		UnstableFits:    len(result.Warnings),
	}
	if len(result.Models) > 0 {
		sum := 0.0
		for _, m := range result.Models {
			sum += m.FitScore
		}
		summary.AverageFitScore = sum / float64(len(result.Models))
	}
	return summary
}

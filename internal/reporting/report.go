package reporting

import (
	"time"

	"asset-graph-lab/internal/domain"
)

// SchemaReport is a structured, serializable summary of graph composition and
// integrity. A value object: formatting to Markdown, CSV, or JSON is the
// presentation layer's concern.
type SchemaReport struct {
	GeneratedAt time.Time

	TotalAssets        int
	TotalRelationships int

	AssetsByClass       map[domain.AssetClass]int
	AssetsBySector      map[string]int
	RelationshipsByKind map[domain.RelationshipKind]int

	// CompositionIntegrity lists every composition target with its weight-sum
	// status, sorted by target id.
	CompositionIntegrity []CompositionStatus

	// Formulaic summarizes the analysis batch; zero-valued when the report is
	// generated without one.
	Formulaic FormulaicSummary

	// Findings are soft integrity observations. Hard violations never reach a
	// report because the build rejects them.
	Findings []Finding
}

// CompositionStatus describes the composition edges into one target.
type CompositionStatus struct {
	TargetID       string
	ComponentCount int
	WeightSum      float64
	MaxWeight      float64
	Balanced       bool // false for thin sets dominated by one component
}

// FormulaicSummary aggregates analysis outcomes.
type FormulaicSummary struct {
	TargetsAnalyzed int
	ModelsAccepted  int
	Undetermined    int
	Rejected        int
	Skipped         int
	AcceptanceRate  float64
	AverageFitScore float64
	UnstableFits    int
}

// FindingCode classifies a soft integrity finding.
type FindingCode string

const (
	// FindingThinComposition flags a composition set with few components where
	// one component carries a disproportionate weight.
	FindingThinComposition FindingCode = "THIN_COMPOSITION"

	// FindingIsolatedAsset flags an asset with no relationships at all.
	FindingIsolatedAsset FindingCode = "ISOLATED_ASSET"

	// FindingUnstableModel flags an accepted formulaic model whose fit was
	// ill-conditioned.
	FindingUnstableModel FindingCode = "UNSTABLE_MODEL"
)

// Finding is one soft integrity observation.
type Finding struct {
	Code    FindingCode
	AssetID string
	Message string
}

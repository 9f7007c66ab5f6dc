package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"asset-graph-lab/internal/domain"
)

// RenderMarkdown renders the schema report as a Markdown string.
func RenderMarkdown(r *SchemaReport) string {
	var sb strings.Builder

	sb.WriteString("# Asset Relationship Schema Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Assets: %d | Relationships: %d\n\n", r.TotalAssets, r.TotalRelationships))

	sb.WriteString("## Asset Classes\n\n")
	sb.WriteString("| Class | Count |\n")
	sb.WriteString("|-------|-------|\n")
	for _, class := range domain.AssetClasses() {
		if count := r.AssetsByClass[class]; count > 0 {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", class, count))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Sectors\n\n")
	sb.WriteString("| Sector | Count |\n")
	sb.WriteString("|--------|-------|\n")
	for _, sector := range sortedKeys(r.AssetsBySector) {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", sector, r.AssetsBySector[sector]))
	}
	sb.WriteString("\n")

	sb.WriteString("## Relationship Kinds\n\n")
	sb.WriteString("| Kind | Count |\n")
	sb.WriteString("|------|-------|\n")
	for _, kind := range domain.RelationshipKinds() {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", kind, r.RelationshipsByKind[kind]))
	}
	sb.WriteString("\n")

	if len(r.CompositionIntegrity) > 0 {
		sb.WriteString("## Composition Integrity\n\n")
		sb.WriteString("| Target | Components | Weight Sum | Max Weight | Status |\n")
		sb.WriteString("|--------|------------|------------|------------|--------|\n")
		for _, s := range r.CompositionIntegrity {
			status := "BALANCED"
			if !s.Balanced {
				status = "THIN"
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %.6f | %.4f | %s |\n",
				s.TargetID, s.ComponentCount, s.WeightSum, s.MaxWeight, status))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Formulaic Analysis\n\n")
	if r.Formulaic.TargetsAnalyzed == 0 {
		sb.WriteString("No formulaic analysis has been run against this graph.\n\n")
	} else {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Targets Analyzed | %d |\n", r.Formulaic.TargetsAnalyzed))
		sb.WriteString(fmt.Sprintf("| Models Accepted | %d |\n", r.Formulaic.ModelsAccepted))
		sb.WriteString(fmt.Sprintf("| Undetermined | %d |\n", r.Formulaic.Undetermined))
		sb.WriteString(fmt.Sprintf("| Rejected | %d |\n", r.Formulaic.Rejected))
		sb.WriteString(fmt.Sprintf("| Skipped | %d |\n", r.Formulaic.Skipped))
		sb.WriteString(fmt.Sprintf("| Acceptance Rate | %.2f%% |\n", r.Formulaic.AcceptanceRate*100))
		sb.WriteString(fmt.Sprintf("| Average Fit Score | %.4f |\n", r.Formulaic.AverageFitScore))
		sb.WriteString(fmt.Sprintf("| Unstable Fits | %d |\n", r.Formulaic.UnstableFits))
		sb.WriteString("\n")
	}

	sb.WriteString("## Findings\n\n")
	if len(r.Findings) == 0 {
		sb.WriteString("No integrity findings.\n")
	} else {
		for _, f := range r.Findings {
			sb.WriteString(fmt.Sprintf("- **%s** [%s]: %s\n", f.Code, f.AssetID, f.Message))
		}
	}

	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

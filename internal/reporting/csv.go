package reporting

import (
	"fmt"
	"strings"
)

// RenderCompositionCSV renders the composition integrity section as CSV.
func RenderCompositionCSV(r *SchemaReport) string {
	var sb strings.Builder

	sb.WriteString("target_id,component_count,weight_sum,max_weight,balanced\n")
	for _, s := range r.CompositionIntegrity {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%t\n",
			s.TargetID, s.ComponentCount, s.WeightSum, s.MaxWeight, s.Balanced))
	}

	return sb.String()
}

// RenderFindingsCSV renders the findings section as CSV.
func RenderFindingsCSV(r *SchemaReport) string {
	var sb strings.Builder

	sb.WriteString("code,asset_id,message\n")
	for _, f := range r.Findings {
		msg := strings.ReplaceAll(f.Message, ",", ";")
		sb.WriteString(fmt.Sprintf("%s,%s,%s\n", f.Code, f.AssetID, msg))
	}

	return sb.String()
}

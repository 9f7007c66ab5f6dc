package domain

// ModelTerm is one component of a formulaic model.
type ModelTerm struct {
	ComponentID string  // asset contributing to the target's price
	Coefficient float64 // fitted regression coefficient
}

// FormulaicModel expresses a target asset's price as a linear combination of
// component assets' prices. Term order follows the fitted candidate order.
type FormulaicModel struct {
	ID              string      // model identifier, shared by all emitted edges
	TargetID        string      // asset whose price the model explains
	Terms           []ModelTerm // ordered (component, coefficient) pairs
	Intercept       float64
	FitScore        float64 // coefficient of determination, in [0, 1]
	SampleSize      int     // aligned observations used for the fit
	Unstable        bool    // ill-conditioned fit, result flagged but kept
	ConditionNumber float64 // design-matrix condition number from the fit
}

// Edges realizes the model as FORMULAIC relationships, one per term,
// each directed from the component to the target and tagged with the model id.
func (m *FormulaicModel) Edges() []*Relationship {
	edges := make([]*Relationship, 0, len(m.Terms))
	for _, term := range m.Terms {
		edges = append(edges, &Relationship{
			SourceID: term.ComponentID,
			TargetID: m.TargetID,
			Kind:     KindFormulaic,
			Weight:   term.Coefficient,
			ModelID:  m.ID,
		})
	}
	return edges
}

// ComponentIDs returns the component asset ids in term order.
func (m *FormulaicModel) ComponentIDs() []string {
	ids := make([]string, len(m.Terms))
	for i, term := range m.Terms {
		ids[i] = term.ComponentID
	}
	return ids
}

package domain

import (
	"fmt"
	"math"
)

// RelationshipKind classifies a directed edge between two assets.
type RelationshipKind string

const (
	// KindComposition states that source is a weighted constituent of target,
	// e.g. an index member. Composition weights into a shared target sum to 1.
	KindComposition RelationshipKind = "COMPOSITION"

	// KindCorrelation records statistical co-movement. Stored directed with an
	// optional Bidirectional flag; direction alone carries no lead/lag meaning.
	KindCorrelation RelationshipKind = "CORRELATION"

	// KindFormulaic states that target's price is a function of source's
	// price. Produced only by the analyzer; the formulaic subgraph is a DAG.
	KindFormulaic RelationshipKind = "FORMULAIC"
)

// String returns the string representation of RelationshipKind.
func (k RelationshipKind) String() string {
	return string(k)
}

// IsValid checks if the kind is a recognized value.
func (k RelationshipKind) IsValid() bool {
	return k == KindComposition || k == KindCorrelation || k == KindFormulaic
}

// RelationshipKinds returns all recognized kinds in a fixed order.
func RelationshipKinds() []RelationshipKind {
	return []RelationshipKind{KindComposition, KindCorrelation, KindFormulaic}
}

// Relationship is a typed, directed edge between two assets.
type Relationship struct {
	SourceID      string
	TargetID      string
	Kind          RelationshipKind
	Weight        float64           // composition share, correlation coefficient, or model coefficient
	Bidirectional bool              // CORRELATION only: edge is traversable both ways
	ModelID       string            // FORMULAIC only: owning model identifier
	Metadata      map[string]string // free-form provenance
}

// Key returns a stable identifier for diagnostics.
func (r *Relationship) Key() string {
	return fmt.Sprintf("%s->%s", r.SourceID, r.TargetID)
}

// Validate checks all relationship invariants and collects every violation found.
// Referential integrity against a concrete asset set is the builder's concern.
func (r *Relationship) Validate() ValidationErrors {
	var errs ValidationErrors

	if r.SourceID == "" || r.TargetID == "" {
		errs = append(errs, &ValidationError{
			Kind:     ValidationMissingField,
			RecordID: r.Key(),
			Message:  "relationship requires both source and target ids",
		})
	}
	if r.SourceID != "" && r.SourceID == r.TargetID {
		errs = append(errs, &ValidationError{
			Kind:     ValidationSelfReference,
			RecordID: r.Key(),
			Message:  "relationship may not reference the same asset on both ends",
		})
	}
	if !r.Kind.IsValid() {
		errs = append(errs, &ValidationError{
			Kind:     ValidationUnknownKind,
			RecordID: r.Key(),
			Message:  fmt.Sprintf("unrecognized relationship kind %q", r.Kind),
		})
	}
	if math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) {
		errs = append(errs, &ValidationError{
			Kind:     ValidationInvalidWeight,
			RecordID: r.Key(),
			Message:  fmt.Sprintf("weight must be finite, got %v", r.Weight),
		})
	} else {
		switch r.Kind {
		case KindComposition:
			if r.Weight <= 0 || r.Weight > 1 {
				errs = append(errs, &ValidationError{
					Kind:     ValidationInvalidWeight,
					RecordID: r.Key(),
					Message:  fmt.Sprintf("composition weight must be in (0, 1], got %v", r.Weight),
				})
			}
		case KindCorrelation:
			if r.Weight < -1 || r.Weight > 1 {
				errs = append(errs, &ValidationError{
					Kind:     ValidationInvalidWeight,
					RecordID: r.Key(),
					Message:  fmt.Sprintf("correlation weight must be in [-1, 1], got %v", r.Weight),
				})
			}
		}
	}
	if r.Bidirectional && r.Kind != KindCorrelation {
		errs = append(errs, &ValidationError{
			Kind:     ValidationInvalidWeight,
			RecordID: r.Key(),
			Message:  fmt.Sprintf("bidirectional flag is only valid for %s edges", KindCorrelation),
		})
	}

	return errs
}

// Clone returns a deep copy of the relationship.
func (r *Relationship) Clone() *Relationship {
	cp := *r
	if r.Metadata != nil {
		cp.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

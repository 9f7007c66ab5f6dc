package graph

import (
	"errors"
	"fmt"
	"strings"

	"asset-graph-lab/internal/domain"
)

// ErrAssetNotFound is returned when a queried asset id is not in the graph.
var ErrAssetNotFound = errors.New("asset not found")

// IntegrityError aggregates every referential, weight-sum, or structural
// violation found while building a graph. A build that produces one returns
// no partial graph.
type IntegrityError struct {
	Violations []string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("graph integrity: %d violation(s): %s",
		len(e.Violations), strings.Join(e.Violations, "; "))
}

// CycleError reports a cycle among edges of one kind. Cycle holds asset ids
// in walk order; the edge from the last id back to the first closes the cycle.
type CycleError struct {
	Kind  domain.RelationshipKind
	Cycle []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency among %s edges: %s -> %s",
		e.Kind, strings.Join(e.Cycle, " -> "), e.Cycle[0])
}

package graph

import (
	"sort"

	"asset-graph-lab/internal/domain"
)

// kindAdjacency builds a source -> sorted targets map over edges of one kind.
func kindAdjacency(edges []*domain.Relationship, kind domain.RelationshipKind) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range edges {
		if e.Kind == kind {
			adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
		}
	}
	for src := range adj {
		sort.Strings(adj[src])
	}
	return adj
}

// findPath returns a node path from start to goal following adjacency, or nil
// when goal is unreachable. The returned path includes both endpoints.
func findPath(adj map[string][]string, start, goal string) []string {
	if start == goal {
		return []string{start}
	}
	visited := map[string]bool{start: true}
	parent := make(map[string]string)
	queue := []string{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range adj[node] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = node
			if next == goal {
				return assemblePath(parent, start, goal)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// assemblePath walks parent links back from goal to start.
func assemblePath(parent map[string]string, start, goal string) []string {
	var rev []string
	for node := goal; ; node = parent[node] {
		rev = append(rev, node)
		if node == start {
			break
		}
	}
	path := make([]string, len(rev))
	for i, node := range rev {
		path[len(rev)-1-i] = node
	}
	return path
}

// HasCycle reports whether the subgraph of the given kind contains a cycle.
func (g *RelationshipGraph) HasCycle(kind domain.RelationshipKind) bool {
	return findCycle(kindAdjacency(g.edges, kind)) != nil
}

// findCycle returns one cycle in walk order (the edge from the last id back
// to the first closes it), or nil when the adjacency is acyclic. Nodes are
// explored in sorted order so the reported cycle is deterministic.
func findCycle(adj map[string][]string) []string {
	const (
		white = 0 // unvisited
		grey  = 1 // on the current DFS stack
		black = 2 // fully explored
	)
	color := make(map[string]int, len(adj))

	roots := make([]string, 0, len(adj))
	for src := range adj {
		roots = append(roots, src)
	}
	sort.Strings(roots)

	var stack []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = grey
		stack = append(stack, node)
		for _, next := range adj[node] {
			switch color[next] {
			case grey:
				// Found a back edge; the cycle is the stack suffix from next.
				for i, n := range stack {
					if n == next {
						cycle = append(cycle, stack[i:]...)
						return true
					}
				}
			case white:
				if visit(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = black
		return false
	}

	for _, root := range roots {
		if color[root] == white && visit(root) {
			return cycle
		}
	}
	return nil
}

// TopologicalOrder returns every asset id ordered consistently with all edges
// of the given kind. Assets untouched by that kind participate with no
// constraints; ties break lexicographically so the result is deterministic.
// Fails with CycleError carrying the offending cycle if one exists.
func (g *RelationshipGraph) TopologicalOrder(kind domain.RelationshipKind) ([]string, error) {
	adj := kindAdjacency(g.edges, kind)

	indegree := make(map[string]int, len(g.assets))
	for id := range g.assets {
		indegree[id] = 0
	}
	for _, targets := range adj {
		for _, t := range targets {
			indegree[t]++
		}
	}

	ready := make([]string, 0, len(indegree))
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(indegree))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		order = append(order, node)
		for _, next := range adj[node] {
			indegree[next]--
			if indegree[next] == 0 {
				at := sort.SearchStrings(ready, next)
				ready = append(ready, "")
				copy(ready[at+1:], ready[at:])
				ready[at] = next
			}
		}
	}

	if len(order) < len(indegree) {
		return nil, &CycleError{Kind: kind, Cycle: findCycle(adj)}
	}
	return order, nil
}

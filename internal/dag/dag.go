// Package dag analyzes the import relation between modules of a build.
// It answers which modules import which, finds circular imports, and
// computes transitive importers for diagnostics.
package dag

import (
	"fmt"
	"slices"
)

// Node is one module in the import graph.
type Node struct {
	// ID is the module id.
	ID int
	// Label is a human readable name, usually the module path.
	Label string
}

// Graph is a directed graph from importer to imported module.
type Graph struct {
	nodes     map[int]*Node
	imports   map[int][]int // importer -> imported
	importers map[int][]int // imported -> importers
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[int]*Node),
		imports:   make(map[int][]int),
		importers: make(map[int][]int),
	}
}

// AddNode adds a node, updating the label if it already exists.
func (g *Graph) AddNode(id int, label string) {
	if n, exists := g.nodes[id]; exists {
		n.Label = label
		return
	}
	g.nodes[id] = &Node{ID: id, Label: label}
	g.imports[id] = []int{}
	g.importers[id] = []int{}
}

// AddEdge records that from imports to. Self imports are allowed and
// reported as cycles.
func (g *Graph) AddEdge(from, to int) error {
	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("importer node %d does not exist", from)
	}
	if _, exists := g.nodes[to]; !exists {
		return fmt.Errorf("imported node %d does not exist", to)
	}

	if !slices.Contains(g.imports[from], to) {
		g.imports[from] = append(g.imports[from], to)
	}
	if !slices.Contains(g.importers[to], from) {
		g.importers[to] = append(g.importers[to], from)
	}
	return nil
}

// GetNode returns a node by id.
func (g *Graph) GetNode(id int) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Imports returns the modules id imports, in insertion order.
func (g *Graph) Imports(id int) []int {
	return g.imports[id]
}

// Importers returns the modules that import id, in insertion order.
func (g *Graph) Importers(id int) []int {
	return g.importers[id]
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, to := range g.imports {
		count += len(to)
	}
	return count
}

func (g *Graph) sortedIDs() []int {
	ids := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// HasCycle returns true if the graph contains a circular import, along
// with one cycle path that starts and ends at the same id.
// Nodes are visited in id order so the reported cycle is deterministic.
func (g *Graph) HasCycle() (bool, []int) {
	visited := make(map[int]bool)
	onStack := make(map[int]bool)
	parent := make(map[int]int)

	var cyclePath []int

	var dfs func(id int) bool
	dfs = func(id int) bool {
		visited[id] = true
		onStack[id] = true

		for _, next := range g.imports[id] {
			if !visited[next] {
				parent[next] = id
				if dfs(next) {
					return true
				}
			} else if onStack[next] {
				cyclePath = []int{next}
				for curr := id; curr != next; curr = parent[curr] {
					cyclePath = append([]int{curr}, cyclePath...)
				}
				cyclePath = append([]int{next}, cyclePath...)
				return true
			}
		}

		onStack[id] = false
		return false
	}

	for _, id := range g.sortedIDs() {
		if !visited[id] && dfs(id) {
			return true, cyclePath
		}
	}
	return false, nil
}

// Dependents returns every module that imports id directly or
// transitively, sorted by id.
func (g *Graph) Dependents(id int) []int {
	seen := make(map[int]bool)

	var mark func(n int)
	mark = func(n int) {
		for _, imp := range g.importers[n] {
			if !seen[imp] {
				seen[imp] = true
				mark(imp)
			}
		}
	}
	mark(id)

	result := make([]int, 0, len(seen))
	for n := range seen {
		result = append(result, n)
	}
	slices.Sort(result)
	return result
}

// Leaves returns modules that import nothing, sorted by id.
func (g *Graph) Leaves() []int {
	var leaves []int
	for _, id := range g.sortedIDs() {
		if len(g.imports[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Labels maps ids to node labels, leaving unknown ids as numbers.
func (g *Graph) Labels(ids []int) []string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		if n, ok := g.GetNode(id); ok {
			labels[i] = n.Label
		} else {
			labels[i] = fmt.Sprintf("%d", id)
		}
	}
	return labels
}

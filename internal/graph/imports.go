package graph

import "github.com/leapstack-labs/leappack/internal/dag"

// ImportGraph returns the import relation between the graph's modules,
// with edges added in specifier order.
func (g *Graph) ImportGraph() *dag.Graph {
	d := dag.NewGraph()
	for _, m := range g.Modules {
		d.AddNode(m.ID, m.Path)
	}
	for _, m := range g.Modules {
		for _, spec := range m.Specifiers {
			if id, ok := m.Mapping[spec]; ok {
				_ = d.AddEdge(m.ID, id)
			}
		}
	}
	return d
}

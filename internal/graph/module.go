// Package graph discovers the modules an entry point transitively imports.
//
// Discovery is breadth-first over each module's import specifiers in source
// order. Every module receives an id from a counter local to one build, so
// ids are a pure function of discovery order: the entry is always id 0 and
// the same file tree always produces the same graph.
package graph

// Module is one discovered source unit.
type Module struct {
	// ID is assigned at creation from the build's counter and never reused.
	ID int
	// Path is the canonical absolute path of the source file.
	Path string
	// Specifiers are the raw import strings in appearance order.
	Specifiers []string
	// Code is the transformed, executable module body.
	Code string
	// Mapping maps each specifier to the id of the module it resolved to.
	Mapping map[string]int
}

// Graph is the ordered set of modules discovered by one build.
// Modules[i].ID == i and Modules[0] is the entry.
type Graph struct {
	Modules []*Module
}

// Entry returns the entry module, or nil for an empty graph.
func (g *Graph) Entry() *Module {
	if len(g.Modules) == 0 {
		return nil
	}
	return g.Modules[0]
}

// Len returns the number of modules.
func (g *Graph) Len() int {
	return len(g.Modules)
}

// Module returns the module with the given id.
func (g *Graph) Module(id int) (*Module, bool) {
	if id < 0 || id >= len(g.Modules) {
		return nil, false
	}
	return g.Modules[id], true
}

// Paths returns the distinct source paths in first-discovery order.
func (g *Graph) Paths() []string {
	seen := make(map[string]bool, len(g.Modules))
	paths := make([]string, 0, len(g.Modules))
	for _, m := range g.Modules {
		if !seen[m.Path] {
			seen[m.Path] = true
			paths = append(paths, m.Path)
		}
	}
	return paths
}

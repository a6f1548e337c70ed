package dag

import (
	"testing"
)

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := NewGraph()

	g.AddNode(0, "entry.js")
	g.AddNode(1, "a.js")
	g.AddNode(2, "b.js")

	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}

	if err := g.AddEdge(0, 1); err != nil {
		t.Errorf("failed to add edge: %v", err)
	}
	if err := g.AddEdge(1, 2); err != nil {
		t.Errorf("failed to add edge: %v", err)
	}
	// duplicate edges are ignored
	if err := g.AddEdge(1, 2); err != nil {
		t.Errorf("failed to add duplicate edge: %v", err)
	}

	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}

	g.AddNode(1, "renamed.js")
	if n, _ := g.GetNode(1); n.Label != "renamed.js" {
		t.Errorf("expected label to be updated, got %q", n.Label)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("re-adding a node should keep its edges, got %d", g.EdgeCount())
	}
}

func TestGraph_AddEdge_InvalidNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, "entry.js")

	if err := g.AddEdge(0, 9); err == nil {
		t.Error("expected error for nonexistent imported node")
	}
	if err := g.AddEdge(9, 0); err == nil {
		t.Error("expected error for nonexistent importer node")
	}
}

func TestGraph_ImportsAndImporters(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, "entry.js")
	g.AddNode(1, "a.js")
	g.AddNode(2, "c.js")

	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(0, 2)
	_ = g.AddEdge(1, 2)

	if got := g.Imports(0); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected entry to import [1 2], got %v", got)
	}
	if got := g.Importers(2); len(got) != 2 {
		t.Errorf("expected c.js to have 2 importers, got %v", got)
	}
}

func TestGraph_HasCycle_NoCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, "entry.js")
	g.AddNode(1, "a.js")
	g.AddNode(2, "b.js")

	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(1, 2)
	_ = g.AddEdge(0, 2)

	if hasCycle, path := g.HasCycle(); hasCycle {
		t.Errorf("expected no cycle, but found: %v", path)
	}
}

func TestGraph_HasCycle_WithCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, "entry.js")
	g.AddNode(1, "a.js")
	g.AddNode(2, "b.js")

	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(1, 2)
	_ = g.AddEdge(2, 1)

	hasCycle, path := g.HasCycle()
	if !hasCycle {
		t.Fatal("expected cycle to be detected")
	}
	want := []int{1, 2, 1}
	if len(path) != len(want) {
		t.Fatalf("expected cycle path %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("expected cycle path %v, got %v", want, path)
			break
		}
	}
}

func TestGraph_HasCycle_SelfImport(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, "entry.js")
	_ = g.AddEdge(0, 0)

	hasCycle, path := g.HasCycle()
	if !hasCycle {
		t.Fatal("expected self import to be a cycle")
	}
	if len(path) != 2 || path[0] != 0 || path[1] != 0 {
		t.Errorf("expected [0 0], got %v", path)
	}
}

func TestGraph_Dependents(t *testing.T) {
	g := NewGraph()
	for id, label := range []string{"entry.js", "a.js", "b.js", "c.js", "d.js"} {
		g.AddNode(id, label)
	}
	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(0, 2)
	_ = g.AddEdge(1, 3)
	_ = g.AddEdge(2, 4)

	got := g.Dependents(3)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("expected dependents [0 1], got %v", got)
	}
	if got := g.Dependents(0); len(got) != 0 {
		t.Errorf("entry should have no dependents, got %v", got)
	}
}

func TestGraph_LeavesAndLabels(t *testing.T) {
	g := NewGraph()
	g.AddNode(0, "entry.js")
	g.AddNode(1, "a.js")
	g.AddNode(2, "b.js")
	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(0, 2)

	leaves := g.Leaves()
	if len(leaves) != 2 || leaves[0] != 1 || leaves[1] != 2 {
		t.Errorf("expected leaves [1 2], got %v", leaves)
	}

	labels := g.Labels([]int{2, 7})
	if labels[0] != "b.js" || labels[1] != "7" {
		t.Errorf("unexpected labels %v", labels)
	}
}

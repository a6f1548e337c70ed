package commands

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leappack/internal/cli/output"
	"github.com/leapstack-labs/leappack/internal/dag"
	"github.com/leapstack-labs/leappack/internal/graph"
	"github.com/spf13/cobra"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	var why string

	cmd := &cobra.Command{
		Use:   "graph [entry]",
		Short: "Show the module graph",
		Long: `Discover the module graph from the entry point and print every module
with its id, path and specifier mapping. No bundle is written.

With --why, only the modules that import the given file directly or
transitively are listed.`,
		Example: `  # Show the graph of the configured entry
  leappack graph

  # Which modules pull in lodash.js?
  leappack graph --why src/vendor/lodash.js

  # Output as JSON
  leappack graph -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args, why)
		},
	}

	cmd.Flags().StringVar(&why, "why", "", "List the modules that import this file")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string, why string) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	b, err := newBundler(cfg, cmdCtx.Logger, args)
	if err != nil {
		return err
	}

	g, err := b.BuildGraph(cmd.Context())
	if err != nil {
		return err
	}
	imports := g.ImportGraph()

	ids := make([]int, g.Len())
	for i := range ids {
		ids[i] = i
	}
	if why != "" {
		ids, err = whyIDs(g, imports, why)
		if err != nil {
			return err
		}
	}

	out := graphOutput(g, imports, ids)

	if ok, err := r.Structured(out); ok {
		return err
	}

	root := cfg.ProjectRoot
	t := graphTable(root, out)
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Module graph"))
		r.Println("")
		r.Println(t.RenderMarkdown())
	} else {
		r.Header(1, "Module graph")
		t.SetStyle(table.StyleLight)
		r.Println(t.Render())
	}
	r.Println("")
	r.Printf("%d modules, %d files, %d imports\n", imports.NodeCount(), out.Files, out.Edges)
	if len(out.Leaves) > 0 {
		r.Printf("leaves: %s\n", idList(out.Leaves))
	}
	if len(out.Cycle) > 0 {
		r.Println(r.Styles().Warning.Render("circular import: " + cycleString(root, out.Cycle)))
	}
	return nil
}

// whyIDs returns the ids of every module that imports the file at target.
func whyIDs(g *graph.Graph, imports *dag.Graph, target string) ([]int, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", target, err)
	}

	seen := make(map[int]bool)
	found := false
	for _, m := range g.Modules {
		if m.Path != abs {
			continue
		}
		found = true
		for _, id := range imports.Dependents(m.ID) {
			seen[id] = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%s is not part of the module graph", target)
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func graphOutput(g *graph.Graph, imports *dag.Graph, ids []int) output.GraphOutput {
	out := output.GraphOutput{
		Entry:   g.Entry().Path,
		Modules: make([]output.GraphModule, 0, len(ids)),
		Files:   len(g.Paths()),
		Edges:   imports.EdgeCount(),
		Leaves:  imports.Leaves(),
	}
	if out.Leaves == nil {
		out.Leaves = []int{}
	}
	for _, id := range ids {
		m := g.Modules[id]
		importedBy := slices.Clone(imports.Importers(id))
		slices.Sort(importedBy)
		if importedBy == nil {
			importedBy = []int{}
		}
		specifiers := m.Specifiers
		if specifiers == nil {
			specifiers = []string{}
		}
		out.Modules = append(out.Modules, output.GraphModule{
			ID:         m.ID,
			Path:       m.Path,
			Specifiers: specifiers,
			Mapping:    m.Mapping,
			ImportedBy: importedBy,
		})
	}
	if hasCycle, path := imports.HasCycle(); hasCycle {
		out.Cycle = imports.Labels(path)
	}
	return out
}

func graphTable(root string, out output.GraphOutput) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Path", "Imports", "Imported by"})
	for _, m := range out.Modules {
		mapping := make([]string, 0, len(m.Specifiers))
		for _, spec := range m.Specifiers {
			mapping = append(mapping, fmt.Sprintf("%s -> %d", spec, m.Mapping[spec]))
		}
		t.AppendRow(table.Row{m.ID, relPath(root, m.Path), strings.Join(mapping, ", "), idList(m.ImportedBy)})
	}
	return t
}

func idList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}

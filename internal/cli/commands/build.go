package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/leappack/internal/bundler"
	"github.com/leapstack-labs/leappack/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "build [entry]",
		Short: "Bundle an entry module and its imports",
		Long: `Discover every module reachable from the entry point, transform each
to CommonJS and write a single self-executing bundle.

The entry defaults to the configured entry (example/entry.js) and the
bundle is written to the configured output path (dist/main.js).

Output adapts to environment:
  - Terminal: Styled summary
  - Piped/Scripted: Markdown summary (agent-friendly)`,
		Example: `  # Bundle the configured entry
  leappack build

  # Bundle a specific entry into a specific file
  leappack build src/index.ts --out public/app.js

  # Print the bundle instead of writing it
  leappack build --stdout | node

  # Summary as JSON
  leappack build -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, toStdout)
		},
	}

	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the bundle to stdout instead of writing it")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, toStdout bool) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	b, err := newBundler(cfg, cmdCtx.Logger, args)
	if err != nil {
		return err
	}

	result, err := b.Build(cmd.Context())
	if err != nil {
		return err
	}

	if toStdout {
		_, err := fmt.Fprint(r.Writer(), result.Bundle)
		return err
	}

	if err := b.Write(result, cfg.Out); err != nil {
		return err
	}

	summary := output.BuildOutput{
		BuildID:    result.BuildID,
		Entry:      result.Graph.Entry().Path,
		Out:        cfg.Out,
		Modules:    result.Graph.Len(),
		Files:      len(result.Graph.Paths()),
		Bytes:      len(result.Bundle),
		DurationMS: result.Duration.Milliseconds(),
		Cycle:      result.Cycle,
	}

	if ok, err := r.Structured(summary); ok {
		return err
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		buildMarkdown(r, cfg.ProjectRoot, summary)
		return nil
	}
	buildText(r, cfg.ProjectRoot, summary, result)
	return nil
}

func buildText(r *output.Renderer, root string, s output.BuildOutput, result *bundler.Result) {
	styles := r.Styles()

	r.Header(1, "Bundle")
	r.Printf("  %s %s\n", styles.Muted.Render("entry:  "), styles.Path.Render(relPath(root, s.Entry)))
	r.Printf("  %s %s\n", styles.Muted.Render("output: "), styles.Path.Render(relPath(root, s.Out)))
	r.Printf("  %s %d (%d files)\n", styles.Muted.Render("modules:"), s.Modules, s.Files)
	r.Printf("  %s %d\n", styles.Muted.Render("bytes:  "), s.Bytes)
	r.Println("")

	if len(s.Cycle) > 0 {
		r.Println(styles.Warning.Render("! circular import: " + cycleString(root, s.Cycle)))
	}
	r.Println(styles.Success.Render(fmt.Sprintf("✓ Built %s in %s", result.BuildID, result.Duration.Round(time.Millisecond))))
}

func buildMarkdown(r *output.Renderer, root string, s output.BuildOutput) {
	r.Println(output.FormatHeader(1, "Bundle"))
	r.Println("")
	r.Println(output.FormatKeyValue("Build", s.BuildID))
	r.Println(output.FormatKeyValue("Entry", relPath(root, s.Entry)))
	r.Println(output.FormatKeyValue("Output", relPath(root, s.Out)))
	r.Println(output.FormatKeyValue("Modules", fmt.Sprintf("%d", s.Modules)))
	r.Println(output.FormatKeyValue("Files", fmt.Sprintf("%d", s.Files)))
	r.Println(output.FormatKeyValue("Bytes", fmt.Sprintf("%d", s.Bytes)))
	if len(s.Cycle) > 0 {
		r.Println(output.FormatKeyValue("Circular import", cycleString(root, s.Cycle)))
	}
}

func cycleString(root string, cycle []string) string {
	parts := make([]string, len(cycle))
	for i, p := range cycle {
		parts[i] = relPath(root, p)
	}
	return strings.Join(parts, " -> ")
}

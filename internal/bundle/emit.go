// Package bundle serializes a module graph into a single self-contained
// script. The script carries a minimal CommonJS loader: every module body
// is wrapped in a factory taking require, module and exports, and the
// loader resolves specifiers through each module's mapping.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leappack/internal/graph"
)

// Options controls the emitted runtime.
type Options struct {
	// Memoize caches each module's exports after the first require, giving
	// one instance per id. Without it every require re-runs the factory.
	Memoize bool
	// Banner is written verbatim before the bundle.
	Banner string
	// Root, when set, labels each factory with its path relative to Root.
	Root string
}

// ErrEmptyGraph is returned when there is no entry module to run.
var ErrEmptyGraph = errors.New("module graph is empty")

// Emit returns the bundle text for g. Output is byte-identical for equal
// graphs and options.
func Emit(g *graph.Graph, opts Options) (string, error) {
	if g == nil || g.Len() == 0 {
		return "", ErrEmptyGraph
	}

	var sb strings.Builder
	if opts.Banner != "" {
		sb.WriteString(opts.Banner)
		if !strings.HasSuffix(opts.Banner, "\n") {
			sb.WriteByte('\n')
		}
	}

	sb.WriteString(runtimeHeader)
	if opts.Memoize {
		sb.WriteString(runtimeCache)
	}
	sb.WriteString(runtimeRequireStart)
	if opts.Memoize {
		sb.WriteString(runtimeCacheLookup)
	}
	sb.WriteString(runtimeRequireBody)
	if opts.Memoize {
		sb.WriteString(runtimeCacheStore)
	}
	sb.WriteString(runtimeRequireEnd)

	for i, m := range g.Modules {
		if m.ID != i {
			return "", fmt.Errorf("module %s has id %d at position %d", m.Path, m.ID, i)
		}
		if err := writeModule(&sb, g, m, opts); err != nil {
			return "", err
		}
	}

	sb.WriteString(runtimeFooter)
	return sb.String(), nil
}

func writeModule(sb *strings.Builder, g *graph.Graph, m *graph.Module, opts Options) error {
	for spec, id := range m.Mapping {
		if _, ok := g.Module(id); !ok {
			return fmt.Errorf("module %s maps %q to unknown id %d", m.Path, spec, id)
		}
	}

	// encoding/json sorts map keys
	mapping, err := json.Marshal(nonNil(m.Mapping))
	if err != nil {
		return fmt.Errorf("failed to encode mapping for %s: %w", m.Path, err)
	}

	fmt.Fprintf(sb, "%d: [function (require, module, exports) {\n", m.ID)
	if label := relLabel(opts.Root, m.Path); label != "" {
		fmt.Fprintf(sb, "// %s\n", label)
	}
	sb.WriteString(m.Code)
	if !strings.HasSuffix(m.Code, "\n") {
		sb.WriteByte('\n')
	}
	fmt.Fprintf(sb, "}, %s],\n", mapping)
	return nil
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func relLabel(root, path string) string {
	if root == "" {
		return ""
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(filepath.ToSlash(rel))
}

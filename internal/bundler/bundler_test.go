package bundler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dop251/goja"
	"github.com/leapstack-labs/leappack/internal/graph"
	"github.com/leapstack-labs/leappack/internal/testutil"
	"github.com/leapstack-labs/leappack/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, bundle string) []any {
	t.Helper()

	var recorded []any
	vm := goja.New()
	require.NoError(t, vm.Set("record", func(call goja.FunctionCall) goja.Value {
		recorded = append(recorded, call.Argument(0).Export())
		return goja.Undefined()
	}))

	_, err := vm.RunString(bundle)
	require.NoError(t, err)
	return recorded
}

func newBundler(t *testing.T, cfg Config) *Bundler {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	b, err := New(cfg)
	require.NoError(t, err)
	return b
}

func TestBuild_EndToEnd(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"example/entry.js":   "import message from './message.js';\nrecord(message);\n",
		"example/message.js": "import { name } from './name.js';\nexport default `hello ${name}!`;\n",
		"example/name.js":    "export const name = 'world';\n",
	})

	b := newBundler(t, Config{
		Entry:   filepath.Join(root, "example", "entry.js"),
		Dedupe:  true,
		Memoize: true,
	})

	result, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.BuildID)
	assert.Empty(t, result.Cycle)
	require.Equal(t, 3, result.Graph.Len())
	assert.Equal(t, map[string]int{"./message.js": 1}, result.Graph.Modules[0].Mapping)
	assert.Equal(t, map[string]int{"./name.js": 2}, result.Graph.Modules[1].Mapping)

	assert.Equal(t, []any{"hello world!"}, execute(t, result.Bundle))
}

func TestBuild_TypeScriptWithExtensionProbing(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"src/main.ts":       "import { double } from './math';\nrecord(double(21));\n",
		"src/math/index.ts": "export const double = (n: number): number => n * 2;\n",
	})

	b := newBundler(t, Config{
		Entry:      filepath.Join(root, "src", "main.ts"),
		Dedupe:     true,
		Memoize:    true,
		Extensions: []string{".ts", ".js"},
	})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "math", "index.ts"), result.Graph.Modules[1].Path)
	assert.Equal(t, []any{int64(42)}, execute(t, result.Bundle))
}

func TestBuild_DynamicImport(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"entry.js": "import('./lazy.js').then((m) => record(m.v));\nrecord('entry');\n",
		"lazy.js":  "export const v = 'lazy';\n",
	})

	b := newBundler(t, Config{
		Entry:   filepath.Join(root, "entry.js"),
		Dedupe:  true,
		Memoize: true,
	})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.Graph.Len())
	assert.Equal(t, map[string]int{"./lazy.js": 1}, result.Graph.Modules[0].Mapping)
	assert.NotContains(t, result.Bundle, `import("./lazy.js")`)

	// the promise callback runs after the synchronous body
	assert.Equal(t, []any{"entry", "lazy"}, execute(t, result.Bundle))
}

func TestBuild_TypeOnlyImportFromDeclarationFile(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"src/main.ts":    "import { Greeting } from './types';\nconst g: Greeting = { text: 'hi' };\nrecord(g.text);\n",
		"src/types.d.ts": "export interface Greeting { text: string }\n",
	})

	b := newBundler(t, Config{
		Entry:      filepath.Join(root, "src", "main.ts"),
		Dedupe:     true,
		Memoize:    true,
		Extensions: []string{".js", ".mjs", ".jsx", ".ts", ".tsx", ".json"},
	})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Graph.Len())
	assert.Empty(t, result.Graph.Modules[0].Specifiers)
	assert.Equal(t, []any{"hi"}, execute(t, result.Bundle))
}

func diamondTree(t *testing.T) string {
	return testutil.WriteTree(t, map[string]string{
		"entry.js": "import './a.js';\nimport './b.js';\n",
		"a.js":     "import './c.js';\n",
		"b.js":     "import './c.js';\n",
		"c.js":     "record('c');\n",
	})
}

func TestBuild_DiamondLiteral(t *testing.T) {
	root := diamondTree(t)

	b := newBundler(t, Config{Entry: filepath.Join(root, "entry.js")})
	result, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Graph.Len())
	assert.Equal(t, []any{"c", "c"}, execute(t, result.Bundle))
}

func TestBuild_DiamondShared(t *testing.T) {
	root := diamondTree(t)

	b := newBundler(t, Config{Entry: filepath.Join(root, "entry.js"), Dedupe: true, Memoize: true, Concurrency: 4})
	result, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Graph.Len())
	assert.Equal(t, []any{"c"}, execute(t, result.Bundle))
}

func TestBuild_Deterministic(t *testing.T) {
	root := diamondTree(t)

	for _, dedupe := range []bool{false, true} {
		b := newBundler(t, Config{Entry: filepath.Join(root, "entry.js"), Dedupe: dedupe, Memoize: dedupe})

		first, err := b.Build(context.Background())
		require.NoError(t, err)
		second, err := b.Build(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first.Graph, second.Graph)
		assert.Equal(t, first.Bundle, second.Bundle)
		assert.NotEqual(t, first.BuildID, second.BuildID)
	}
}

func TestBuild_CycleIsReported(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"entry.js": "import { b } from './b.js';\nexport const a = 'a';\nrecord(b);\n",
		"b.js":     "import * as entry from './entry.js';\nexport const b = 'b';\nexport function later() { return entry.a; }\n",
	})

	logger, logs := testutil.NewCaptureLogger(slog.LevelInfo)
	b := newBundler(t, Config{Entry: filepath.Join(root, "entry.js"), Dedupe: true, Memoize: true, Logger: logger})

	result, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "entry.js"),
		filepath.Join(root, "b.js"),
		filepath.Join(root, "entry.js"),
	}, result.Cycle)
	assert.Contains(t, logs.String(), "circular import")
	assert.Equal(t, []any{"b"}, execute(t, result.Bundle))
}

func TestBuild_ParseErrorProducesNothing(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"entry.js":  "import './broken.js';\n",
		"broken.js": "export const = ;\n",
	})

	b := newBundler(t, Config{Entry: filepath.Join(root, "entry.js"), Dedupe: true})
	result, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)

	var pe *transform.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, filepath.Join(root, "broken.js"), pe.Path)
}

func TestBuild_ReadError(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"entry.js": "import './gone.js';\n",
	})

	b := newBundler(t, Config{Entry: filepath.Join(root, "entry.js")})
	_, err := b.Build(context.Background())

	var re *graph.ReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, filepath.Join(root, "gone.js"), re.Path)
}

func TestBuild_RootLabels(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"src/entry.js": "import './lib/a.js';\n",
		"src/lib/a.js": "record('a');\n",
	})

	b := newBundler(t, Config{Entry: filepath.Join(root, "src", "entry.js"), Root: root, Banner: "/* app */"})
	result, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Contains(t, result.Bundle, "// src/lib/a.js\n")
	assert.Equal(t, []any{"a"}, execute(t, result.Bundle))
}

func TestBuildGraph(t *testing.T) {
	root := diamondTree(t)

	b := newBundler(t, Config{Entry: filepath.Join(root, "entry.js"), Dedupe: true})
	g, err := b.BuildGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry is required")

	_, err = New(Config{Entry: "entry.js", Target: "es3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "dist", "main.js")

	require.NoError(t, WriteArtifact(out, "first"))
	require.NoError(t, WriteArtifact(out, "second"))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")
	assert.Equal(t, "main.js", entries[0].Name())
}

func TestWriteArtifact_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "dist")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	err := WriteArtifact(filepath.Join(blocker, "main.js"), "bundle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output directory")
}

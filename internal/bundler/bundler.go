// Package bundler runs one build: it discovers the module graph from the
// entry point, emits the bundle and writes the artifact.
package bundler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leappack/internal/bundle"
	"github.com/leapstack-labs/leappack/internal/graph"
	"github.com/leapstack-labs/leappack/internal/transform"
)

// Config holds bundler configuration.
type Config struct {
	// Entry is the path of the entry module
	Entry string
	// Target is the language level of emitted code (es2015, esnext, ...)
	Target string
	// Dedupe shares one module per path instead of one per import
	Dedupe bool
	// Memoize makes the runtime require cache exports per module id
	Memoize bool
	// Concurrency is the number of sibling imports loaded in parallel
	Concurrency int
	// MaxModules bounds the graph size (zero for the default)
	MaxModules int
	// CacheSize is the in-build transform cache size (zero disables it)
	CacheSize int
	// Extensions are probed for extensionless specifiers
	Extensions []string
	// Banner is prepended to the bundle
	Banner string
	// Root labels modules with paths relative to it (empty for no labels)
	Root string
	// Transformer overrides the esbuild transformer (optional)
	Transformer transform.Transformer
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Result is the outcome of one successful build.
type Result struct {
	BuildID  string
	Graph    *graph.Graph
	Bundle   string
	Cycle    []string
	Duration time.Duration
}

// Bundler produces bundles from an entry module.
type Bundler struct {
	cfg         Config
	transformer transform.Transformer
	logger      *slog.Logger
}

// New creates a bundler, constructing the esbuild transformer unless one
// is supplied.
func New(cfg Config) (*Bundler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.Entry == "" {
		return nil, fmt.Errorf("entry is required")
	}

	t := cfg.Transformer
	if t == nil {
		esb, err := transform.NewEsbuild(cfg.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to create transformer: %w", err)
		}
		t = esb
	}

	return &Bundler{cfg: cfg, transformer: t, logger: logger}, nil
}

// Build discovers the graph and emits the bundle. Nothing is written.
func (b *Bundler) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	buildID := uuid.NewString()
	logger := b.logger.With("build_id", buildID)

	logger.Info("building bundle", "entry", b.cfg.Entry, "dedupe", b.cfg.Dedupe, "memoize", b.cfg.Memoize)

	g, err := b.graphBuilder(logger).Build(ctx, b.cfg.Entry)
	if err != nil {
		return nil, fmt.Errorf("failed to build module graph: %w", err)
	}

	var cycle []string
	imports := g.ImportGraph()
	if hasCycle, path := imports.HasCycle(); hasCycle {
		cycle = imports.Labels(path)
		logger.Warn("circular import", "cycle", cycle)
		if !b.cfg.Memoize {
			logger.Warn("circular imports recurse forever at runtime without memoize")
		}
	}

	root := b.cfg.Root
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}

	text, err := bundle.Emit(g, bundle.Options{
		Memoize: b.cfg.Memoize,
		Banner:  b.cfg.Banner,
		Root:    root,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to emit bundle: %w", err)
	}

	result := &Result{
		BuildID:  buildID,
		Graph:    g,
		Bundle:   text,
		Cycle:    cycle,
		Duration: time.Since(start),
	}

	logger.Info("bundle built", "modules", g.Len(), "files", len(g.Paths()), "bytes", len(text), "duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// BuildGraph discovers the module graph without emitting a bundle.
func (b *Bundler) BuildGraph(ctx context.Context) (*graph.Graph, error) {
	g, err := b.graphBuilder(b.logger).Build(ctx, b.cfg.Entry)
	if err != nil {
		return nil, fmt.Errorf("failed to build module graph: %w", err)
	}
	return g, nil
}

func (b *Bundler) graphBuilder(logger *slog.Logger) *graph.Builder {
	return graph.NewBuilder(b.transformer, graph.Options{
		Dedupe:      b.cfg.Dedupe,
		MaxModules:  b.cfg.MaxModules,
		Concurrency: b.cfg.Concurrency,
		CacheSize:   b.cfg.CacheSize,
		Extensions:  b.cfg.Extensions,
	}, logger)
}

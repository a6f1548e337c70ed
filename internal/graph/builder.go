package graph

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/leapstack-labs/leappack/internal/resolve"
	"github.com/leapstack-labs/leappack/internal/transform"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxModules bounds a build when no limit is configured.
const DefaultMaxModules = 10000

// Options controls graph discovery.
type Options struct {
	// Dedupe gives every canonical path exactly one module, so shared and
	// circular imports resolve to the same id. Without it each import
	// occurrence creates a fresh module.
	Dedupe bool
	// MaxModules aborts the build with a *LimitError once exceeded.
	// Zero means DefaultMaxModules.
	MaxModules int
	// Concurrency is the number of imports of one module loaded in
	// parallel. Ids are still assigned in specifier order.
	Concurrency int
	// CacheSize enables an in-build transform cache of that many entries.
	CacheSize int
	// Extensions are probed for specifiers that do not name a file.
	Extensions []string
}

// Builder discovers module graphs.
type Builder struct {
	transformer transform.Transformer
	resolver    *resolve.Resolver
	opts        Options
	logger      *slog.Logger
}

// NewBuilder creates a graph builder backed by t.
func NewBuilder(t transform.Transformer, opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxModules <= 0 {
		opts.MaxModules = DefaultMaxModules
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Builder{
		transformer: t,
		resolver:    resolve.New(opts.Extensions...),
		opts:        opts,
		logger:      logger,
	}
}

// Build discovers every module reachable from entryPath. Any read, parse or
// resolution failure aborts the whole traversal and no graph is returned.
func (b *Builder) Build(ctx context.Context, entryPath string) (*Graph, error) {
	abs, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, &ResolutionError{Specifier: entryPath, Err: err}
	}
	entry, err := b.resolver.Locate(abs)
	if err != nil {
		return nil, &ResolutionError{Specifier: entryPath, Err: err}
	}

	assets, err := NewAssetBuilder(b.transformer, b.logger, b.opts.CacheSize)
	if err != nil {
		return nil, err
	}

	root, err := assets.Build(entry)
	if err != nil {
		return nil, err
	}

	modules := []*Module{root}
	byPath := map[string]int{root.Path: root.ID}

	for i := 0; i < len(modules); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m := modules[i]
		paths, err := b.resolveAll(m)
		if err != nil {
			return nil, err
		}

		loaded, err := b.loadAll(ctx, assets, paths, b.pending(paths, byPath))
		if err != nil {
			return nil, err
		}

		for j, spec := range m.Specifiers {
			if b.opts.Dedupe {
				if id, ok := byPath[paths[j]]; ok {
					m.Mapping[spec] = id
					continue
				}
			}
			if len(modules) >= b.opts.MaxModules {
				return nil, &LimitError{Limit: b.opts.MaxModules, Path: paths[j]}
			}

			child := assets.assign(loaded[j])
			byPath[child.Path] = child.ID
			m.Mapping[spec] = child.ID
			modules = append(modules, child)
		}
	}

	b.logger.Debug("graph discovered", "entry", entry, "modules", len(modules), "dedupe", b.opts.Dedupe)
	return &Graph{Modules: modules}, nil
}

// resolveAll maps every specifier of m onto a module file.
func (b *Builder) resolveAll(m *Module) ([]string, error) {
	dir := filepath.Dir(m.Path)
	paths := make([]string, len(m.Specifiers))
	for j, spec := range m.Specifiers {
		p, err := b.resolver.Locate(b.resolver.Resolve(dir, spec))
		if err != nil {
			return nil, &ResolutionError{Importer: m.Path, Specifier: spec, Err: err}
		}
		paths[j] = p
	}
	return paths, nil
}

// pending returns the indexes of paths that need a new module.
func (b *Builder) pending(paths []string, byPath map[string]int) []int {
	idx := make([]int, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for j, p := range paths {
		if b.opts.Dedupe {
			if _, ok := byPath[p]; ok || seen[p] {
				continue
			}
			seen[p] = true
		}
		idx = append(idx, j)
	}
	return idx
}

// loadAll loads paths[j] for every j in pending. The result is indexed like
// paths; entries not in pending are nil.
func (b *Builder) loadAll(ctx context.Context, assets *AssetBuilder, paths []string, pending []int) ([]*Module, error) {
	loaded := make([]*Module, len(paths))

	if b.opts.Concurrency == 1 || len(pending) < 2 {
		for _, j := range pending {
			m, err := assets.load(paths[j])
			if err != nil {
				return nil, err
			}
			loaded[j] = m
		}
		return loaded, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(b.opts.Concurrency, len(pending)))

	for _, j := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// each goroutine owns index j
			m, err := assets.load(paths[j])
			if err != nil {
				return err
			}
			loaded[j] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loaded, nil
}

// BuildGraph discovers the graph for entryPath with default options.
func BuildGraph(ctx context.Context, t transform.Transformer, entryPath string) (*Graph, error) {
	g, err := NewBuilder(t, Options{Dedupe: true}, nil).Build(ctx, entryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph for %s: %w", entryPath, err)
	}
	return g, nil
}

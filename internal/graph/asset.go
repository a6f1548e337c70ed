package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/leapstack-labs/leappack/internal/transform"
)

// transformed is a cached transformer result for one source text.
type transformed struct {
	source     string
	specifiers []string
	code       string
}

// AssetBuilder creates Module records for single files. Its id counter is
// scoped to the builder, so one AssetBuilder serves exactly one build.
//
// load is safe for concurrent use; assign and Build are not.
type AssetBuilder struct {
	transformer transform.Transformer
	logger      *slog.Logger
	cache       *lru.Cache[string, transformed]
	nextID      int
}

// NewAssetBuilder creates an asset builder. A positive cacheSize enables an
// LRU of transformer results keyed by path, reused only when the file's
// source is unchanged.
func NewAssetBuilder(t transform.Transformer, logger *slog.Logger, cacheSize int) (*AssetBuilder, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	b := &AssetBuilder{transformer: t, logger: logger}
	if cacheSize > 0 {
		cache, err := lru.New[string, transformed](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create transform cache: %w", err)
		}
		b.cache = cache
	}
	return b, nil
}

// Build reads, analyzes and transforms the file at path and returns a
// Module with the next id and an empty mapping.
func (b *AssetBuilder) Build(path string) (*Module, error) {
	m, err := b.load(path)
	if err != nil {
		return nil, err
	}
	return b.assign(m), nil
}

// load does everything Build does except id assignment.
func (b *AssetBuilder) load(path string) (*Module, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the import graph
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	source := string(content)

	if b.cache != nil {
		if hit, ok := b.cache.Get(path); ok && hit.source == source {
			b.logger.Debug("transform cache hit", "path", path)
			return &Module{ID: -1, Path: path, Specifiers: slices.Clone(hit.specifiers), Code: hit.code}, nil
		}
	}

	specifiers, err := b.transformer.ExtractSpecifiers(path, source)
	if err != nil {
		return nil, transformError(path, err)
	}

	code, err := b.transformer.Transform(path, source)
	if err != nil {
		return nil, transformError(path, err)
	}

	if b.cache != nil {
		b.cache.Add(path, transformed{source: source, specifiers: slices.Clone(specifiers), code: code})
	}

	return &Module{ID: -1, Path: path, Specifiers: specifiers, Code: code}, nil
}

// assign gives m the next id and an empty mapping.
func (b *AssetBuilder) assign(m *Module) *Module {
	m.ID = b.nextID
	b.nextID++
	m.Mapping = make(map[string]int, len(m.Specifiers))

	b.logger.Debug("created asset", "id", m.ID, "path", m.Path, "specifiers", len(m.Specifiers))
	return m
}

func transformError(path string, err error) error {
	var pe *transform.ParseError
	if errors.As(err, &pe) {
		return err
	}
	return fmt.Errorf("failed to transform %s: %w", path, err)
}

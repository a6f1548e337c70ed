// Package config provides the project-level configuration shared by the
// CLI and the bundler: default values and config file discovery.
package config

import (
	"github.com/leapstack-labs/leappack/internal/graph"
	"github.com/leapstack-labs/leappack/internal/transform"
)

// Default configuration values.
const (
	DefaultEntry       = "example/entry.js"
	DefaultOut         = "dist/main.js"
	DefaultTarget      = transform.DefaultTarget
	DefaultConcurrency = 1
	DefaultMaxModules  = graph.DefaultMaxModules
	DefaultCacheSize   = 256
	DefaultDedupe      = true
	DefaultMemoize     = true
)

// DefaultExtensions returns the extensions probed for extensionless
// specifiers, in priority order.
func DefaultExtensions() []string {
	return []string{".js", ".mjs", ".jsx", ".ts", ".tsx", ".json"}
}

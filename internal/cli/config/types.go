// Package config provides configuration management for the leappack CLI.
//
// Values are layered with koanf: defaults, then leappack.yaml, then
// LEAPPACK_* environment variables, then explicitly set flags.
package config

import (
	sharedcfg "github.com/leapstack-labs/leappack/internal/config"
)

// Config holds all CLI configuration options.
type Config struct {
	Entry        string   `koanf:"entry"`
	Out          string   `koanf:"out"`
	Target       string   `koanf:"target"`
	Dedupe       bool     `koanf:"dedupe"`
	Memoize      bool     `koanf:"memoize"`
	Concurrency  int      `koanf:"concurrency"`
	MaxModules   int      `koanf:"max_modules"`
	CacheSize    int      `koanf:"cache_size"`
	Extensions   []string `koanf:"extensions"`
	Banner       string   `koanf:"banner"`
	Verbose      bool     `koanf:"verbose"`
	OutputFormat string   `koanf:"output"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultEntry  = sharedcfg.DefaultEntry
	DefaultOut    = sharedcfg.DefaultOut
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	return &Config{
		Entry:        DefaultEntry,
		Out:          DefaultOut,
		Target:       sharedcfg.DefaultTarget,
		Dedupe:       sharedcfg.DefaultDedupe,
		Memoize:      sharedcfg.DefaultMemoize,
		Concurrency:  sharedcfg.DefaultConcurrency,
		MaxModules:   sharedcfg.DefaultMaxModules,
		CacheSize:    sharedcfg.DefaultCacheSize,
		Extensions:   sharedcfg.DefaultExtensions(),
		OutputFormat: DefaultOutput,
	}
}

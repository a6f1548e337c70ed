package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leappack/internal/transform"
)

// OutputFormats lists the accepted values of the output option.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Entry == "" {
		return fmt.Errorf("entry is required")
	}
	if c.Out == "" {
		return fmt.Errorf("out is required")
	}
	if !transform.ValidTarget(c.Target) {
		return fmt.Errorf("unknown target %q (valid: %s)", c.Target, strings.Join(transform.Targets(), ", "))
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.MaxModules < 1 {
		return fmt.Errorf("max_modules must be at least 1, got %d", c.MaxModules)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (valid: %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	return nil
}

package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/leapstack-labs/leappack/internal/bundler"
	"github.com/leapstack-labs/leappack/internal/cli/config"
	"github.com/leapstack-labs/leappack/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or defaults when no
// configuration has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Defaults()
}

// entryPath picks the entry module: the positional argument when given
// (relative to the working directory), otherwise the configured entry.
func entryPath(cfg *config.Config, args []string) (string, error) {
	entry := cfg.Entry
	if len(args) > 0 && args[0] != "" {
		entry = args[0]
	}
	abs, err := filepath.Abs(entry)
	if err != nil {
		return "", fmt.Errorf("failed to resolve entry %q: %w", entry, err)
	}
	return abs, nil
}

// newBundler creates a bundler from the configuration.
func newBundler(cfg *config.Config, logger *slog.Logger, args []string) (*bundler.Bundler, error) {
	entry, err := entryPath(cfg, args)
	if err != nil {
		return nil, err
	}

	root := cfg.ProjectRoot
	if root == "" {
		root = filepath.Dir(entry)
	}

	return bundler.New(bundler.Config{
		Entry:       entry,
		Target:      cfg.Target,
		Dedupe:      cfg.Dedupe,
		Memoize:     cfg.Memoize,
		Concurrency: cfg.Concurrency,
		MaxModules:  cfg.MaxModules,
		CacheSize:   cfg.CacheSize,
		Extensions:  cfg.Extensions,
		Banner:      cfg.Banner,
		Root:        root,
		Logger:      logger,
	})
}

// relPath shortens path relative to root for display.
func relPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

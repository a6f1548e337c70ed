// Package cli provides the command-line interface for leappack.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/leappack/internal/cli/commands"
	"github.com/leapstack-labs/leappack/internal/cli/config"
	"github.com/leapstack-labs/leappack/internal/transform"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leappack",
		Short: "leappack - JavaScript module bundler",
		Long: `leappack bundles a JavaScript or TypeScript entry module and everything
it imports into a single self-executing file.

Each module is transformed to CommonJS with esbuild and wrapped in a
factory; a small runtime resolves require calls through per-module
specifier mappings.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, config.LoggerKey(), logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Built with Go and esbuild
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./leappack.yaml)")
	flags.String("entry", "", "Entry module (default: example/entry.js)")
	flags.String("out", "", "Bundle output path (default: dist/main.js)")
	flags.String("target", "", "Language level of emitted code (es5 ... esnext)")
	flags.Bool("dedupe", true, "Share one module per file instead of one per import")
	flags.Bool("memoize", true, "Cache module exports at runtime")
	flags.Int("concurrency", 1, "Number of sibling imports loaded in parallel")
	flags.Int("max-modules", 0, "Maximum number of modules in the graph")
	flags.Int("cache-size", 0, "Transform cache size (0 disables it)")
	flags.StringSlice("extensions", nil, "Extensions probed for extensionless imports")
	flags.String("banner", "", "Text prepended to the bundle")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.StringP("output", "o", "", "Output format (auto|text|markdown|json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return transform.Targets(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewGraphCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for leappack.

To load completions:

Bash:
  $ source <(leappack completion bash)

Zsh:
  $ leappack completion zsh > "${fpath[1]}/_leappack"

Fish:
  $ leappack completion fish | source

PowerShell:
  PS> leappack completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
	"ocp/internal/paths"
	"ocp/internal/settings"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	project bool

	// Shared state injected into commands
	workDir string
)

// Command group IDs for organizing help output
const (
	GroupCore        = "core"
	GroupMaintenance = "maintenance"
	GroupConfig      = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ocp",
	Short: "Profile and preset manager for opencode configuration",
	Long: `ocp manages named configuration profiles for opencode.

Profiles are JSON/JSONC documents kept in a user-global store or a
per-project store (discovered via a .opencode marker directory). The
active profile can be applied onto the opencode config path, with a
timestamped backup of whatever was there before.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	var err error
	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocp: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	// Global settings plus an optional per-project override decide the
	// mode once; commands read the resolved value from context.
	cfg, err := settings.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if root, rootErr := paths.FindProjectRoot(workDir); rootErr == nil {
		proj, projErr := settings.LoadProject(paths.ProjectDir(root))
		if projErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", projErr)
		}
		cfg.Mode = settings.ResolveMode(proj, cfg)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, logger)
	ctx = output.WithPrinter(ctx, os.Stdout)
	ctx = settings.WithSettings(ctx, cfg)

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'ocp -h' for help")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug diagnostics")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().BoolVarP(&project, "project", "p", false, "Operate on the project store instead of the global one")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupMaintenance, Title: "Maintenance Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newUseCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newStatusCmd())

	// Maintenance commands
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newBackupsCmd())
	rootCmd.AddCommand(newSchemaCmd())

	// Configuration commands
	rootCmd.AddCommand(newConfigCmd())
}

package main

import (
	"github.com/spf13/cobra"

	"ocp/internal/output"
	"ocp/internal/paths"
	"ocp/internal/settings"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage tool settings",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage ocp's own settings.

Global settings: ~/.config/ocp/config.toml
Project override: .opencode/ocp.toml`,
		Example: `  ocp config init   # Create default settings file
  ocp config show   # Show effective settings`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default settings file",
		Args:  cobra.NoArgs,
		Example: `  ocp config init      # Create ~/.config/ocp/config.toml
  ocp config init -f   # Overwrite an existing file
  ocp config init -s   # Print the template to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := output.FromContext(cmd.Context())

			if stdout {
				p.Print(settings.DefaultSettingsTemplate())
				return nil
			}

			path, err := settings.Init(force)
			if err != nil {
				return err
			}

			p.Printf("Created settings file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing settings file")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print the template to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := output.FromContext(ctx)
			cfg := settings.FromContext(ctx)

			p.Printf("mode = %q\n", cfg.Mode)
			p.Printf("backup_retention_days = %d\n", cfg.BackupRetentionDays)
			p.Println()
			p.Printf("global store: %s\n", paths.GlobalRoot())
			p.Printf("target path:  %s\n", paths.TargetPath(targetFileName))

			if root, err := paths.FindProjectRoot(workDir); err == nil {
				p.Printf("project root: %s\n", root)
			} else {
				p.Println("project root: (none)")
			}
			return nil
		},
	}

	return cmd
}

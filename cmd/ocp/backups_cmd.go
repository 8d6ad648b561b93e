package main

import (
	"time"

	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
	"ocp/internal/paths"
	"ocp/internal/settings"
	"ocp/internal/store"
)

func newBackupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backups",
		Short:   "Manage config backups",
		GroupID: GroupMaintenance,
		Example: `  ocp backups clean             # Remove global backups past retention
  ocp backups clean --project   # Same for the project store
  ocp backups clean --days 7    # Override the retention window`,
	}

	cmd.AddCommand(newBackupsCleanCmd())

	return cmd
}

func newBackupsCleanCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove backups past the retention window",
		Args:  cobra.NoArgs,
		Long: `Remove backups older than the retention window.

The window comes from backup_retention_days in the tool settings
(default 30), overridable with --days. Files that cannot be removed are
skipped; the sweep never fails halfway.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)
			cfg := settings.FromContext(ctx)

			if days <= 0 {
				days = cfg.BackupRetentionDays
			}
			maxAge := time.Duration(days) * 24 * time.Hour

			var removed int
			if project {
				root, err := paths.FindProjectRoot(workDir)
				if err != nil {
					return err
				}
				removed = store.OpenProject(root, cfg.Mode).CleanupBackups(maxAge)
			} else {
				removed = globalStore(ctx).CleanupBackups(maxAge)
			}

			l.Debug("cleaned backups", "days", days, "removed", removed)
			p.Printf("Removed %d backup(s) older than %d days\n", removed, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention window in days (defaults to the configured value)")

	return cmd
}

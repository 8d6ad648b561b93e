package main

import (
	"time"

	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
	"ocp/internal/schema"
	"ocp/internal/store"
	"ocp/internal/ui"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schema",
		Short:   "Manage the opencode config schema",
		GroupID: GroupMaintenance,
		Example: `  ocp schema update   # Fetch and cache the published schema`,
	}

	cmd.AddCommand(newSchemaUpdateCmd())

	return cmd
}

func newSchemaUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch and cache the published config schema",
		Args:  cobra.NoArgs,
		Long: `Fetch the config schema the application publishes and cache it for
offline validation.

A single request is made; when it fails, the schema bundled with the
binary is cached instead and the failure is reported. The cache carries
a metadata sidecar recording which source the copy came from.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)

			// Verbose diagnostics would interleave with the repaints.
			var spin *ui.Spinner
			if !l.IsVerbose() {
				spin = ui.NewSpinner("Fetching config schema")
				spin.Start()
			}

			content, source, fetchErr := schema.Fetch(ctx)

			if spin != nil {
				spin.Stop()
			}

			path, err := globalStore(ctx).SaveCacheFile("schemas", schema.SchemaFileName, string(content), store.CacheMeta{
				Source:    source,
				FetchedAt: time.Now().UTC(),
			})
			if err != nil {
				return err
			}

			if fetchErr != nil {
				l.Printf("Warning: %v, cached the bundled copy instead\n", fetchErr)
			}
			p.Printf("Cached schema (%s) at %s\n", source, path)
			return nil
		},
	}

	return cmd
}

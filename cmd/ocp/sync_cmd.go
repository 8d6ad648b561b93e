package main

import (
	"errors"

	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Short:   "Adopt config files added outside the tool",
		GroupID: GroupMaintenance,
		Args:    cobra.NoArgs,
		Long: `Reconcile the global index with the configs directory.

Config files dropped in by hand (or synced from another machine) gain a
minimal index entry derived from the filename. Running sync again with
no new files is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)

			if project {
				// The project store has no index; files are authoritative.
				return errors.New("sync applies to the global store only")
			}

			added, existing, err := globalStore(ctx).SyncProfiles()
			if err != nil {
				return err
			}

			l.Debug("synced", "added", len(added), "existing", len(existing))

			if len(added) == 0 {
				p.Println("Index is up to date")
				return nil
			}
			for _, id := range added {
				p.Printf("Adopted %s\n", id)
			}
			return nil
		},
	}

	return cmd
}

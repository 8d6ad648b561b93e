package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List profiles in the resolved scope",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Example: `  ocp list            # Global profiles
  ocp list --project  # Profiles of the surrounding project`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)

			mgr, scope, err := resolveManager(ctx)
			if err != nil {
				return err
			}

			ids, err := mgr.List()
			if err != nil {
				return err
			}
			active, err := mgr.Active()
			if err != nil {
				return err
			}

			l.Debug("listing", "scope", scope, "count", len(ids))

			if len(ids) == 0 {
				l.Printf("No %ss in the %s store\n", docNoun(ctx), scope)
				return nil
			}

			if scope == "global" {
				// The global index carries names and timestamps.
				idx := globalStore(ctx).LoadIndex()
				w := tabwriter.NewWriter(p.Writer(), 0, 4, 2, ' ', 0)
				for _, id := range ids {
					marker := " "
					if id == active {
						marker = "*"
					}
					name, updated := id, ""
					if entry := idx.Find(id); entry != nil {
						name = entry.Name
						updated = entry.UpdatedAt.Local().Format("2006-01-02 15:04")
					}
					fmt.Fprintf(w, "%s %s\t%s\t%s\n", marker, id, name, updated)
				}
				return w.Flush()
			}

			for _, id := range ids {
				marker := " "
				if id == active {
					marker = "*"
				}
				p.Printf("%s %s\n", marker, id)
			}
			return nil
		},
	}

	return cmd
}

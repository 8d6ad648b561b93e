package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
	"ocp/internal/ui/prompt"
)

func newRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:               "remove <id>",
		Short:             "Delete a profile and its config file",
		Aliases:           []string{"rm"},
		GroupID:           GroupCore,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeIDs,
		Long: `Delete a profile from the resolved store.

Removes both the raw config file and the index entry. If the deleted
profile was the active one, the active reference is cleared.`,
		Example: `  ocp remove old-setup      # Confirm, then delete
  ocp remove old-setup -f   # Delete without confirmation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)

			id := args[0]

			mgr, scope, err := resolveManager(ctx)
			if err != nil {
				return err
			}

			if !force {
				result, err := prompt.Confirm(fmt.Sprintf("Delete %s %q from the %s store?", docNoun(ctx), id, scope))
				if err != nil {
					return err
				}
				if result.Cancelled || !result.Confirmed {
					p.Println("Cancelled")
					return nil
				}
			}

			l.Debug("removing", "id", id, "scope", scope)

			if err := mgr.Remove(id); err != nil {
				return err
			}

			p.Printf("Removed %s %q\n", docNoun(ctx), id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")

	return cmd
}

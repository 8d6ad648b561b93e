package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
	"ocp/internal/ui/prompt"
)

func newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "use [id]",
		Short:             "Mark a profile as active",
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeIDs,
		Long: `Mark a profile as the active one in the resolved store.

With no id, an interactive selection prompt lists the available
profiles. Activation only records the selection; 'ocp apply' writes
it onto the opencode config path.`,
		Example: `  ocp use work   # Activate by id
  ocp use        # Pick interactively`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)

			mgr, scope, err := resolveManager(ctx)
			if err != nil {
				return err
			}

			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				ids, err := mgr.List()
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					return fmt.Errorf("no %ss in the %s store", docNoun(ctx), scope)
				}
				result, err := prompt.Select(fmt.Sprintf("Select a %s", docNoun(ctx)), ids)
				if err != nil {
					return err
				}
				if result.Cancelled {
					p.Println("Cancelled")
					return nil
				}
				id = result.Value
			}

			l.Debug("activating", "id", id, "scope", scope)

			if err := mgr.Activate(id); err != nil {
				return err
			}

			p.Printf("Active %s is now %q\n", docNoun(ctx), id)
			return nil
		},
	}

	return cmd
}

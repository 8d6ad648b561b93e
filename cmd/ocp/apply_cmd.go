package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
	"ocp/internal/paths"
)

// targetFileName is the filename of the opencode config the tool writes.
const targetFileName = "opencode.json"

func newApplyCmd() *cobra.Command {
	var (
		target         string
		skipValidation bool
	)

	cmd := &cobra.Command{
		Use:               "apply [id]",
		Short:             "Write a profile onto the opencode config path",
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeIDs,
		Long: `Write a profile's content onto the opencode config path.

The existing target file is backed up first (timestamp-prefixed copy in
the store's backup directory); the profile content is then written
verbatim, preceded by a single provenance header line, and the profile
becomes the active one. With no id, the currently active profile is
re-applied.`,
		Example: `  ocp apply work              # Apply by id
  ocp apply                   # Re-apply the active profile
  ocp apply work --target ./opencode.json`,
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
				id, err = mgr.Active()
				if err != nil {
					return err
				}
				if id == "" {
					return fmt.Errorf("no active %s in the %s store (run 'ocp use' first)", docNoun(ctx), scope)
				}
			}

			if !skipValidation {
				raw, err := mgr.Get(id)
				if err != nil {
					return err
				}
				if err := validateOrAbort(ctx, raw.Content); err != nil {
					return err
				}
			}

			if target == "" {
				target = paths.TargetPath(targetFileName)
			}

			l.Debug("applying", "id", id, "scope", scope, "target", target)

			backupPath, err := mgr.ApplyTo(id, target)
			if err != nil {
				return err
			}

			if backupPath != "" {
				l.Printf("Backed up previous config to %s\n", backupPath)
			}
			p.Printf("Applied %s %q to %s\n", docNoun(ctx), id, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target file to write (defaults to the opencode config path)")
	cmd.Flags().BoolVar(&skipValidation, "no-validate", false, "Skip schema validation")

	return cmd
}

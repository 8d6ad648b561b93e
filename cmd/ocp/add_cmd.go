package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
)

func newAddCmd() *cobra.Command {
	var skipValidation bool

	cmd := &cobra.Command{
		Use:     "add <id> [file]",
		Short:   "Import a config document under an id",
		GroupID: GroupCore,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Import a config document into the resolved store.

The document is validated against the opencode config schema before
anything is written. Re-adding an existing id replaces its content.
With no file argument (or "-") the document is read from stdin.`,
		Example: `  ocp add work ./work.jsonc      # Import a file
  cat cfg.json | ocp add work    # Import from stdin
  ocp add work cfg.json -p       # Into the project store`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)

			id := args[0]
			fileArg := ""
			if len(args) == 2 {
				fileArg = args[1]
			}

			content, ext, err := readContent(fileArg)
			if err != nil {
				return err
			}

			if !skipValidation {
				if err := validateOrAbort(ctx, content); err != nil {
					return err
				}
			}

			mgr, scope, err := resolveManager(ctx)
			if err != nil {
				return err
			}

			l.Debug("importing", "id", id, "scope", scope, "ext", ext)

			if err := mgr.Add(id, content, ext); err != nil {
				return fmt.Errorf("import %s: %w", id, err)
			}

			p.Printf("Added %s %q to the %s store\n", docNoun(ctx), id, scope)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipValidation, "no-validate", false, "Skip schema validation")

	return cmd
}

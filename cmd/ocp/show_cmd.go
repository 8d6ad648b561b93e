package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ocp/internal/diff"
	"ocp/internal/jsonfile"
	"ocp/internal/log"
	"ocp/internal/merge"
	"ocp/internal/output"
	"ocp/internal/paths"
	"ocp/internal/settings"
	"ocp/internal/store"
)

func newShowCmd() *cobra.Command {
	var merged bool

	cmd := &cobra.Command{
		Use:               "show [id]",
		Short:             "Show a profile's content",
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeIDs,
		Long: `Show a profile's raw content.

With --merged, the global and project active documents are deep-merged
(project wins per key) and rendered as an annotated view: added and
overridden keys carry +/- markers with the side that contributed them.`,
		Example: `  ocp show work       # Raw content by id
  ocp show            # Raw content of the active profile
  ocp show --merged   # Effective global+project view`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := output.FromContext(ctx)

			if merged {
				if len(args) > 0 {
					return errors.New("--merged shows the active documents; an id cannot be given")
				}
				return showMerged(cmd)
			}

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
					return fmt.Errorf("no active %s in the %s store", docNoun(ctx), scope)
				}
			}

			raw, err := mgr.Get(id)
			if err != nil {
				return err
			}

			p.Print(raw.Content)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&merged, "merged", "m", false, "Show the merged global+project view")

	return cmd
}

// showMerged renders the effective document: global active as base,
// project active as override.
func showMerged(cmd *cobra.Command) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)
	p := output.FromContext(ctx)
	mode := settings.FromContext(ctx).Mode

	base, err := activeDocument(store.OpenDefault(mode))
	if err != nil {
		return fmt.Errorf("global document: %w", err)
	}

	override := map[string]any{}
	if root, rootErr := paths.FindProjectRoot(workDir); rootErr == nil {
		override, err = activeDocument(store.OpenProject(root, mode))
		if err != nil {
			return fmt.Errorf("project document: %w", err)
		}
	} else {
		l.Debug("no project root, merged view is global only")
	}

	mergedDoc := merge.Merge(base, override)

	r := diff.NewRenderer("global", "project")
	r.Color = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	p.Print(r.Render(base, mergedDoc, override))
	return nil
}

// activeDocument decodes the active profile of a scope into a document.
// No active profile means an empty document, not an error.
func activeDocument(mgr store.Manager) (map[string]any, error) {
	id, err := mgr.Active()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return map[string]any{}, nil
	}

	raw, err := mgr.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Dangling active reference, treated as no document.
			return map[string]any{}, nil
		}
		return nil, err
	}

	var doc map[string]any
	if err := jsonfile.DecodeLenient([]byte(raw.Content), &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", raw.Path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

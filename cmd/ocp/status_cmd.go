package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"ocp/internal/log"
	"ocp/internal/output"
	"ocp/internal/paths"
)

func newStatusCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Compare the opencode config with the active profile",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Compare the current opencode config file with the active profile.

Reports whether the target drifted from the applied profile (manual
edits, or a different tool rewrote it) and shows a line diff when it
did. The provenance header written by 'ocp apply' is ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)

			mgr, scope, err := resolveManager(ctx)
			if err != nil {
				return err
			}

			id, err := mgr.Active()
			if err != nil {
				return err
			}
			if id == "" {
				return fmt.Errorf("no active %s in the %s store", docNoun(ctx), scope)
			}

			raw, err := mgr.Get(id)
			if err != nil {
				return err
			}

			if target == "" {
				target = paths.TargetPath(targetFileName)
			}

			data, err := os.ReadFile(target)
			if errors.Is(err, os.ErrNotExist) {
				p.Printf("Target %s does not exist (active %s: %q, never applied?)\n", target, docNoun(ctx), id)
				return nil
			}
			if err != nil {
				return err
			}

			current := stripHeader(string(data))
			l.Debug("comparing", "id", id, "target", target)

			if current == raw.Content {
				p.Printf("In sync: %s matches %s %q\n", target, docNoun(ctx), id)
				return nil
			}

			p.Printf("Drift: %s differs from %s %q\n\n", target, docNoun(ctx), id)
			p.Print(lineDiff(raw.Content, current))
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target file to compare (defaults to the opencode config path)")

	return cmd
}

// stripHeader drops the provenance line 'ocp apply' writes, so only
// real content differences count as drift.
func stripHeader(content string) string {
	if strings.HasPrefix(content, "// ocp:") {
		if _, rest, found := strings.Cut(content, "\n"); found {
			return rest
		}
		return ""
	}
	return content
}

// lineDiff renders a line-oriented diff between want and got, with
// -/+ prefixes and unchanged lines as context.
func lineDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

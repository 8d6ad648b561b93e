package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ocp/internal/paths"
	"ocp/internal/schema"
	"ocp/internal/settings"
	"ocp/internal/store"
)

// resolveManager picks the store for the invocation: the project store
// when --project is set (requires a discoverable project root), the
// global store otherwise. The mode was resolved once in Execute.
func resolveManager(ctx context.Context) (store.Manager, string, error) {
	mode := settings.FromContext(ctx).Mode

	if project {
		root, err := paths.FindProjectRoot(workDir)
		if errors.Is(err, paths.ErrNoProjectRoot) {
			return nil, "", fmt.Errorf("no project root found: no %s directory in %s or any parent", paths.MarkerDirName, workDir)
		}
		if err != nil {
			return nil, "", err
		}
		return store.OpenProject(root, mode), "project", nil
	}

	return store.OpenDefault(mode), "global", nil
}

// globalStore returns the global store for the resolved mode, for
// operations that only exist at global scope (index sync, schema cache).
func globalStore(ctx context.Context) *store.Store {
	return store.OpenDefault(settings.FromContext(ctx).Mode)
}

// docNoun names the managed document kind for messages.
func docNoun(ctx context.Context) string {
	if settings.FromContext(ctx).Mode == settings.ModePreset {
		return "preset"
	}
	return "profile"
}

// loadSchemaData returns the cached schema copy when present, the
// bundled one otherwise.
func loadSchemaData(s *store.Store) []byte {
	path := filepath.Join(s.CacheDir(), "schemas", schema.SchemaFileName)
	if data, err := os.ReadFile(path); err == nil {
		return data
	}
	return schema.Bundled()
}

// validateOrAbort checks content against the schema and returns an
// error listing every violation. Nothing is written on failure.
func validateOrAbort(ctx context.Context, content string) error {
	res, err := schema.Validate(loadSchemaData(globalStore(ctx)), content)
	if err != nil {
		return err
	}
	if res.Valid {
		return nil
	}
	return fmt.Errorf("document fails schema validation:\n  %s", strings.Join(res.Errors, "\n  "))
}

// readContent reads the document to import: from a file argument, or
// from stdin when the argument is absent or "-".
func readContent(fileArg string) (content, ext string, err error) {
	if fileArg == "" || fileArg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), store.ExtJSON, nil
	}

	data, err := os.ReadFile(fileArg)
	if err != nil {
		return "", "", err
	}

	ext = filepath.Ext(fileArg)
	if ext != store.ExtJSON && ext != store.ExtJSONC {
		ext = store.ExtJSON
	}
	return string(data), ext, nil
}

// completeIDs provides completion for profile/preset id arguments.
func completeIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	mgr, _, err := resolveManager(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ids, err := mgr.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// Package paths locates the project root and derives all store paths.
//
// A directory is a project root when it contains the .opencode marker
// directory. The global store lives under the user's config directory;
// the target file is the well-known path the opencode application reads.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// MarkerDirName identifies a project root.
const MarkerDirName = ".opencode"

const (
	profilesDirName = "profiles"
	presetsDirName  = "presets"
	backupsDirName  = "backups"
	cacheDirName    = "cache"
	rcFileName      = "ocprc.json"
)

// ErrNoProjectRoot is returned by FindProjectRoot when no ancestor
// directory contains the marker.
var ErrNoProjectRoot = errors.New("no project root found")

// FindProjectRoot walks up from startDir looking for the marker directory.
// The filesystem root itself is also checked. startDir defaults to the
// current working directory when empty.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := normalizeStart(startDir)
	if err != nil {
		return "", err
	}

	for {
		info, err := os.Stat(filepath.Join(dir, MarkerDirName))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}

// ResolveProjectRoot is like FindProjectRoot but never fails on a missing
// marker: it returns startDir itself, treating the current location as an
// ad-hoc project root.
func ResolveProjectRoot(startDir string) (string, error) {
	start, err := normalizeStart(startDir)
	if err != nil {
		return "", err
	}

	root, err := FindProjectRoot(start)
	if errors.Is(err, ErrNoProjectRoot) {
		return start, nil
	}
	if err != nil {
		return "", err
	}
	return root, nil
}

func normalizeStart(startDir string) (string, error) {
	if startDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(startDir)
}

// ProjectDir returns the marker directory under a project root.
func ProjectDir(root string) string {
	return filepath.Join(root, MarkerDirName)
}

// ProjectProfilesDir returns the project configs directory for profile mode.
func ProjectProfilesDir(root string) string {
	return filepath.Join(root, MarkerDirName, profilesDirName)
}

// ProjectPresetsDir returns the project configs directory for preset mode.
func ProjectPresetsDir(root string) string {
	return filepath.Join(root, MarkerDirName, presetsDirName)
}

// ProjectRCPath returns the project run-control file path.
func ProjectRCPath(root string) string {
	return filepath.Join(root, MarkerDirName, rcFileName)
}

// ProjectBackupsDir returns the project backup directory.
func ProjectBackupsDir(root string) string {
	return filepath.Join(root, MarkerDirName, backupsDirName)
}

// EnsureProjectDirs idempotently creates the marker directory and the
// configs subdirectory under root.
func EnsureProjectDirs(root, configsDir string) error {
	if err := os.MkdirAll(ProjectDir(root), 0o755); err != nil {
		return err
	}
	return os.MkdirAll(configsDir, 0o755)
}

// configHome returns the base config directory, honoring XDG_CONFIG_HOME.
// On Windows APPDATA takes the role of the config home; when unset the
// ~/.config fallback applies there too.
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

// GlobalRoot returns the global store root directory.
func GlobalRoot() string {
	return filepath.Join(configHome(), "ocp")
}

// GlobalBackupsDir returns the backup directory under a global store root.
func GlobalBackupsDir(root string) string {
	return filepath.Join(root, backupsDirName)
}

// GlobalCacheDir returns the cache directory under a global store root.
func GlobalCacheDir(root string) string {
	return filepath.Join(root, cacheDirName)
}

// TargetPath returns the well-known file the opencode application reads
// its active configuration from.
func TargetPath(filename string) string {
	return filepath.Join(configHome(), "opencode", filename)
}

// Package settings manages the tool's own configuration.
//
// Global settings live in ~/.config/ocp/config.toml; a project can override
// them with .opencode/ocp.toml. The effective mode is resolved once per
// invocation (see ResolveMode) and threaded through the command context —
// business logic never reads settings files directly.
package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Mode selects which kind of document the tool manages.
type Mode string

const (
	// ModeProfile manages full opencode configuration profiles.
	ModeProfile Mode = "profile"
	// ModePreset manages the leaner preset documents.
	ModePreset Mode = "preset"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeProfile || m == ModePreset
}

// DefaultBackupRetentionDays is how long backups are kept before
// 'backups clean' removes them.
const DefaultBackupRetentionDays = 30

// Settings holds the global tool configuration.
type Settings struct {
	Mode                Mode `toml:"mode"`
	BackupRetentionDays int  `toml:"backup_retention_days"`
}

// ProjectSettings holds per-project overrides from .opencode/ocp.toml.
// Zero values mean "not set" (inherit from global).
type ProjectSettings struct {
	Mode Mode `toml:"mode"`
}

// ProjectFileName is the per-project settings file, relative to the
// marker directory.
const ProjectFileName = "ocp.toml"

// Default returns the default settings.
func Default() Settings {
	return Settings{
		Mode:                ModeProfile,
		BackupRetentionDays: DefaultBackupRetentionDays,
	}
}

// configPath returns the path to the global settings file.
func configPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "ocp", "config.toml"), nil
}

// Load reads the global settings file.
// Returns Default() if the file doesn't exist (no error).
// Returns Default() plus an error if the file exists but is invalid.
func Load() (Settings, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}

	return loadFile(path)
}

func loadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read settings file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse settings file %s: %w", path, err)
	}

	if cfg.Mode != "" && !cfg.Mode.Valid() {
		return Default(), fmt.Errorf("invalid mode %q in %s: must be \"profile\" or \"preset\"", cfg.Mode, path)
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeProfile
	}
	if cfg.BackupRetentionDays <= 0 {
		cfg.BackupRetentionDays = DefaultBackupRetentionDays
	}

	return cfg, nil
}

// LoadProject reads per-project settings from the marker directory under root.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadProject(markerDir string) (*ProjectSettings, error) {
	path := filepath.Join(markerDir, ProjectFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read project settings %s: %w", path, err)
	}

	var ps ProjectSettings
	if err := toml.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("parse project settings %s: %w", path, err)
	}

	if ps.Mode != "" && !ps.Mode.Valid() {
		return nil, fmt.Errorf("invalid mode %q in %s: must be \"profile\" or \"preset\"", ps.Mode, path)
	}

	return &ps, nil
}

// ResolveMode returns the effective mode for an invocation.
// Precedence: project override > global setting > default.
// Pure function of its inputs; project may be nil.
func ResolveMode(project *ProjectSettings, global Settings) Mode {
	if project != nil && project.Mode != "" {
		return project.Mode
	}
	if global.Mode != "" {
		return global.Mode
	}
	return ModeProfile
}

type ctxKey struct{}

// WithSettings attaches settings to the context.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext retrieves settings from context.
// Returns Default() if none are attached.
func FromContext(ctx context.Context) Settings {
	if s, ok := ctx.Value(ctxKey{}).(Settings); ok {
		return s
	}
	return Default()
}

const defaultSettings = `# ocp configuration
# Config location: ~/.config/ocp/config.toml

# Document mode: "profile" (full opencode configs) or "preset"
# A project can override this in .opencode/ocp.toml
# mode = "profile"

# How long to keep backups before 'ocp backups clean' removes them
# backup_retention_days = 30
`

// DefaultSettingsTemplate returns the default settings file content.
func DefaultSettingsTemplate() string {
	return defaultSettings
}

// Init creates a default settings file at ~/.config/ocp/config.toml.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("settings file already exists: %s (use -f to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultSettings), 0o644); err != nil {
		return "", err
	}

	return path, nil
}

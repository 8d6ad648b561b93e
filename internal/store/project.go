package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ocp/internal/jsonfile"
	"ocp/internal/paths"
	"ocp/internal/settings"
)

// RC is the project run-control record. A profile at project scope is
// identified solely by its filename stem, so the rc only carries the
// active selection and the preset flavor. Type is owned by the
// consuming ecosystem ("omo" or "slim") and preserved verbatim on
// rewrite, unknown values included.
type RC struct {
	ActiveProfileID string `json:"activeProfileId,omitempty"`
	Type            string `json:"type,omitempty"`
}

// ProjectStore is the per-project scope rooted at a discovered (or
// ad-hoc) project root. No metadata index exists at this scope — raw
// files plus the rc record are the whole state.
type ProjectStore struct {
	root       string
	configsDir string
	rcPath     string
	backupsDir string
}

// OpenProject returns the project store under root for the given mode.
func OpenProject(root string, mode settings.Mode) *ProjectStore {
	configsDir := paths.ProjectProfilesDir(root)
	if mode == settings.ModePreset {
		configsDir = paths.ProjectPresetsDir(root)
	}
	return &ProjectStore{
		root:       root,
		configsDir: configsDir,
		rcPath:     paths.ProjectRCPath(root),
		backupsDir: paths.ProjectBackupsDir(root),
	}
}

// Root returns the project root directory.
func (p *ProjectStore) Root() string { return p.root }

// ConfigsDir returns the project raw config directory.
func (p *ProjectStore) ConfigsDir() string { return p.configsDir }

// BackupsDir returns the project backup directory.
func (p *ProjectStore) BackupsDir() string { return p.backupsDir }

// LoadRC reads the run-control record. Absent or corrupt files yield
// the zero record — a broken local file never blocks the tool.
func (p *ProjectStore) LoadRC() *RC {
	var rc RC
	if err := jsonfile.Load(p.rcPath, &rc); err != nil {
		return &RC{}
	}
	return &rc
}

// SaveRC atomically persists the run-control record, creating the
// marker directory if needed.
func (p *ProjectStore) SaveRC(rc *RC) error {
	return jsonfile.Save(p.rcPath, rc)
}

// ListProfiles returns deduplicated ids across both dialects. When both
// exist for one id the permissive dialect is the one resolution picks,
// matching ProfileConfigPath.
func (p *ProjectStore) ListProfiles() []string {
	return listConfigIDs(p.configsDir)
}

// ProfileConfigPath resolves the raw file for an id, preferring the
// permissive dialect.
func (p *ProjectStore) ProfileConfigPath(id string) (string, bool) {
	return resolveConfigPath(p.configsDir, id)
}

// ProfileConfigRaw reads the resolved raw file for an id.
func (p *ProjectStore) ProfileConfigRaw(id string) (*RawConfig, error) {
	return readConfigRaw(p.configsDir, id)
}

// SaveProfileConfigRaw writes content verbatim under the project
// configs directory, ensuring the marker layout and the version-control
// ignore entry for backups exist.
func (p *ProjectStore) SaveProfileConfigRaw(id, content, ext string) (string, error) {
	if err := paths.EnsureProjectDirs(p.root, p.configsDir); err != nil {
		return "", err
	}
	if err := p.ensureGitignore(); err != nil {
		return "", err
	}
	return writeConfigRaw(p.configsDir, id, content, ext)
}

// DeleteProfile removes the raw files for an id and clears the active
// reference when it pointed at the deleted profile.
func (p *ProjectStore) DeleteProfile(id string) error {
	if _, ok := p.ProfileConfigPath(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := removeConfigFiles(p.configsDir, id); err != nil {
		return err
	}

	rc := p.LoadRC()
	if rc.ActiveProfileID == id {
		rc.ActiveProfileID = ""
		return p.SaveRC(rc)
	}
	return nil
}

// ActivateProfile records id as the active selection in the rc record.
func (p *ProjectStore) ActivateProfile(id string) error {
	if _, ok := p.ProfileConfigPath(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	rc := p.LoadRC()
	rc.ActiveProfileID = id
	return p.SaveRC(rc)
}

// CreateBackup copies sourcePath into the project backup directory.
// A missing source returns "" without error.
func (p *ProjectStore) CreateBackup(sourcePath string) (string, error) {
	return createBackup(sourcePath, p.backupsDir)
}

// CleanupBackups deletes project backups older than maxAge, swallowing
// per-item errors.
func (p *ProjectStore) CleanupBackups(maxAge time.Duration) int {
	return cleanupBackups(p.backupsDir, maxAge)
}

// Apply backs up the target file, writes the profile content with the
// provenance header, and records the id as active in the rc record.
func (p *ProjectStore) Apply(id, targetPath string) (string, error) {
	raw, err := p.ProfileConfigRaw(id)
	if err != nil {
		return "", err
	}

	backupPath, err := p.CreateBackup(targetPath)
	if err != nil {
		return "", err
	}

	if err := writeTarget(targetPath, id, raw.Content); err != nil {
		return "", err
	}

	if err := p.ActivateProfile(id); err != nil {
		return "", err
	}
	return backupPath, nil
}

// gitignoreEntry excludes the backups directory from version control.
const gitignoreEntry = "backups/"

// ensureGitignore makes sure the marker directory's .gitignore lists
// the backups directory. Existing content is preserved.
func (p *ProjectStore) ensureGitignore() error {
	path := filepath.Join(paths.ProjectDir(p.root), ".gitignore")

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == gitignoreEntry {
			return nil
		}
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += gitignoreEntry + "\n"

	return os.WriteFile(path, []byte(content), 0o644)
}

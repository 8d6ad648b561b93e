// Package store owns the on-disk layout for profile and preset stores.
//
// The global store keeps a rich index (names, timestamps, active id)
// next to a configs directory of raw files; the project store tracks
// raw files only, with activation state in a small run-control record.
// Both satisfy Manager, selected once per invocation by the resolved
// mode.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ocp/internal/jsonfile"
	"ocp/internal/paths"
	"ocp/internal/settings"
)

// File extensions for the two config dialects. The permissive,
// comment-tolerant dialect is preferred wherever both exist for an id.
const (
	ExtJSON  = ".json"
	ExtJSONC = ".jsonc"
)

// ErrNotFound is returned when a specific profile or preset id does not
// exist. Distinct from first-use empty state, which is not an error.
var ErrNotFound = errors.New("profile not found")

// RawConfig is the literal text of a profile's configuration file plus
// its resolved path. Content is preserved byte-for-byte.
type RawConfig struct {
	Path    string
	Content string
}

// Store is the user-global scope. Layout under root:
// an index file, a configs subdirectory, backups/ and cache/.
type Store struct {
	root       string
	configsDir string
	indexPath  string
}

// Open returns the global store for the given root and mode.
// Profile mode uses configs/ + index.json; preset mode keeps its
// leaner documents apart under presets/ + presets.json.
func Open(root string, mode settings.Mode) *Store {
	configs, index := "configs", "index.json"
	if mode == settings.ModePreset {
		configs, index = "presets", "presets.json"
	}
	return &Store{
		root:       root,
		configsDir: filepath.Join(root, configs),
		indexPath:  filepath.Join(root, index),
	}
}

// OpenDefault returns the global store at the default root.
func OpenDefault(mode settings.Mode) *Store {
	return Open(paths.GlobalRoot(), mode)
}

// Root returns the store root directory.
func (s *Store) Root() string { return s.root }

// ConfigsDir returns the raw config directory.
func (s *Store) ConfigsDir() string { return s.configsDir }

// BackupsDir returns the backup directory.
func (s *Store) BackupsDir() string { return paths.GlobalBackupsDir(s.root) }

// CacheDir returns the cache directory.
func (s *Store) CacheDir() string { return paths.GlobalCacheDir(s.root) }

// LoadIndex reads the index file. An absent or unparseable index yields
// a fresh empty one — first use and a corrupt local file are both
// normal states, never errors.
func (s *Store) LoadIndex() *Index {
	var idx Index
	if err := jsonfile.Load(s.indexPath, &idx); err != nil {
		return NewIndex()
	}
	if idx.StoreVersion == "" {
		idx.StoreVersion = StoreVersion
	}
	if idx.Profiles == nil {
		idx.Profiles = []Profile{}
	}
	return &idx
}

// SaveIndex atomically persists the index. Must follow every mutation
// of profiles or the active reference.
func (s *Store) SaveIndex(idx *Index) error {
	return jsonfile.Save(s.indexPath, idx)
}

// ProfileConfigPath resolves the raw file for an id, preferring the
// permissive dialect. Returns "" and false when neither dialect exists.
func (s *Store) ProfileConfigPath(id string) (string, bool) {
	return resolveConfigPath(s.configsDir, id)
}

// ProfileConfigRaw reads the resolved raw file for an id.
// Returns ErrNotFound when neither dialect file exists.
func (s *Store) ProfileConfigRaw(id string) (*RawConfig, error) {
	return readConfigRaw(s.configsDir, id)
}

// SaveProfileConfigRaw writes content verbatim to <configsDir>/<id><ext>,
// creating parent directories as needed.
func (s *Store) SaveProfileConfigRaw(id, content, ext string) (string, error) {
	return writeConfigRaw(s.configsDir, id, content, ext)
}

// DeleteProfileConfig removes the raw config files for an id.
// Missing files are not an error.
func (s *Store) DeleteProfileConfig(id string) error {
	return removeConfigFiles(s.configsDir, id)
}

// AddProfile imports content under the given id. Re-importing an
// existing id replaces its content and bumps UpdatedAt; the index entry
// is never partially updated.
func (s *Store) AddProfile(id, name, content, ext string) (*Profile, error) {
	if id == "" {
		return nil, errors.New("profile id must not be empty")
	}
	if name == "" {
		name = id
	}

	if _, err := s.SaveProfileConfigRaw(id, content, ext); err != nil {
		return nil, err
	}

	idx := s.LoadIndex()
	now := time.Now().UTC()

	p := idx.Find(id)
	if p != nil {
		p.UpdatedAt = now
	} else {
		idx.Profiles = append(idx.Profiles, Profile{
			ID:        id,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
		p = &idx.Profiles[len(idx.Profiles)-1]
	}

	if err := s.SaveIndex(idx); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProfile removes the raw files and the index entry for an id.
// When the deleted profile was active, the active reference is cleared
// in the same index save — callers never have to clean that up.
func (s *Store) DeleteProfile(id string) error {
	idx := s.LoadIndex()
	if !idx.remove(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.DeleteProfileConfig(id); err != nil {
		return err
	}

	return s.SaveIndex(idx)
}

// ActivateProfile records id as the active selection.
func (s *Store) ActivateProfile(id string) error {
	idx := s.LoadIndex()
	if idx.Find(id) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	idx.ActiveProfileID = id
	return s.SaveIndex(idx)
}

// SyncProfiles reconciles out-of-band file additions with the index:
// every config file without an index entry gains a minimal one (id and
// name from the filename stem, timestamps set to discovery time).
// The index is persisted only when something was added, which makes
// repeated runs idempotent.
func (s *Store) SyncProfiles() (added, existing []string, err error) {
	idx := s.LoadIndex()

	for _, id := range listConfigIDs(s.configsDir) {
		if idx.Find(id) != nil {
			existing = append(existing, id)
			continue
		}
		now := time.Now().UTC()
		idx.Profiles = append(idx.Profiles, Profile{
			ID:        id,
			Name:      id,
			CreatedAt: now,
			UpdatedAt: now,
		})
		added = append(added, id)
	}

	if len(added) > 0 {
		if err := s.SaveIndex(idx); err != nil {
			return nil, nil, err
		}
	}
	return added, existing, nil
}

// CreateBackup copies sourcePath into the backup directory under a
// timestamp-prefixed name. A missing source is not an error: there was
// simply nothing to back up, and "" is returned.
func (s *Store) CreateBackup(sourcePath string) (string, error) {
	return createBackup(sourcePath, s.BackupsDir())
}

// CleanupBackups deletes backups older than maxAge. Per-item errors are
// swallowed; only the count of removed files is reported.
func (s *Store) CleanupBackups(maxAge time.Duration) int {
	return cleanupBackups(s.BackupsDir(), maxAge)
}

// CacheMeta records the provenance of a cached asset.
type CacheMeta struct {
	Source    string    `json:"source"` // "downloaded" or "bundled"
	FetchedAt time.Time `json:"fetchedAt"`
}

// SaveCacheFile writes a cache artifact plus a metadata sidecar under
// the store's cache directory. dir must be a plain subdirectory name;
// anything that would escape the cache directory is rejected.
func (s *Store) SaveCacheFile(dir, filename, content string, meta CacheMeta) (string, error) {
	if !safePathSegment(dir) || !safePathSegment(filename) {
		return "", fmt.Errorf("unsafe cache path %q/%q", dir, filename)
	}

	targetDir := filepath.Join(s.CacheDir(), dir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(targetDir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}

	if err := jsonfile.Save(path+".meta.json", meta); err != nil {
		return "", err
	}
	return path, nil
}

// Apply backs up the target file and writes the profile's content to it,
// preceded by a single provenance header line, then records the id as
// active. Returns the backup path ("" when the target did not exist).
func (s *Store) Apply(id, targetPath string) (string, error) {
	raw, err := s.ProfileConfigRaw(id)
	if err != nil {
		return "", err
	}

	backupPath, err := s.CreateBackup(targetPath)
	if err != nil {
		return "", err
	}

	if err := writeTarget(targetPath, id, raw.Content); err != nil {
		return "", err
	}

	if err := s.ActivateProfile(id); err != nil {
		return "", err
	}
	return backupPath, nil
}

// writeTarget writes header + verbatim content to the target path.
func writeTarget(targetPath, id, content string) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return err
	}
	header := fmt.Sprintf("// ocp: %q applied %s\n", id, time.Now().UTC().Format(time.RFC3339))
	return os.WriteFile(targetPath, []byte(header+content), 0o644)
}

// resolveConfigPath prefers the permissive dialect over the strict one.
func resolveConfigPath(configsDir, id string) (string, bool) {
	for _, ext := range []string{ExtJSONC, ExtJSON} {
		path := filepath.Join(configsDir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func readConfigRaw(configsDir, id string) (*RawConfig, error) {
	path, ok := resolveConfigPath(configsDir, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &RawConfig{Path: path, Content: string(data)}, nil
}

func writeConfigRaw(configsDir, id, content, ext string) (string, error) {
	if ext != ExtJSON && ext != ExtJSONC {
		return "", fmt.Errorf("unsupported config extension %q", ext)
	}
	if err := os.MkdirAll(configsDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(configsDir, id+ext)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func removeConfigFiles(configsDir, id string) error {
	for _, ext := range []string{ExtJSONC, ExtJSON} {
		err := os.Remove(filepath.Join(configsDir, id+ext))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// listConfigIDs returns deduplicated filename stems across both
// dialects, sorted by first appearance of the directory listing.
func listConfigIDs(configsDir string) []string {
	entries, err := os.ReadDir(configsDir)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ExtJSON && ext != ExtJSONC {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func safePathSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}

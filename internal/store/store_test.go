package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ocp/internal/settings"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return Open(t.TempDir(), settings.ModeProfile)
}

func TestLoadIndex_FirstUse(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	idx := s.LoadIndex()

	if idx.StoreVersion != StoreVersion {
		t.Errorf("storeVersion = %q, want %q", idx.StoreVersion, StoreVersion)
	}
	if len(idx.Profiles) != 0 {
		t.Errorf("fresh index should have no profiles, got %d", len(idx.Profiles))
	}
	if idx.ActiveProfileID != "" {
		t.Errorf("fresh index should have no active profile, got %q", idx.ActiveProfileID)
	}
}

func TestLoadIndex_CorruptFallsBackToFresh(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := os.MkdirAll(s.Root(), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(s.indexPath, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	idx := s.LoadIndex()
	if len(idx.Profiles) != 0 || idx.ActiveProfileID != "" {
		t.Errorf("corrupt index should yield fresh state, got %+v", idx)
	}
}

func TestAddProfile_CreateAndReimport(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	created, err := s.AddProfile("work", "Work Setup", `{"a":1}`, ExtJSON)
	if err != nil {
		t.Fatalf("AddProfile: %v", err)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}

	updated, err := s.AddProfile("work", "Work Setup", `{"a":2}`, ExtJSON)
	if err != nil {
		t.Fatalf("AddProfile reimport: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("reimport must not change createdAt")
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Error("reimport must bump updatedAt")
	}

	idx := s.LoadIndex()
	if len(idx.Profiles) != 1 {
		t.Fatalf("reimport must not duplicate, got %d profiles", len(idx.Profiles))
	}

	raw, err := s.ProfileConfigRaw("work")
	if err != nil {
		t.Fatalf("ProfileConfigRaw: %v", err)
	}
	if raw.Content != `{"a":2}` {
		t.Errorf("content = %q, want replaced content", raw.Content)
	}
}

func TestProfileConfigPath_PrefersPermissiveDialect(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.SaveProfileConfigRaw("dual", `{"strict":true}`, ExtJSON); err != nil {
		t.Fatalf("save json: %v", err)
	}
	if _, err := s.SaveProfileConfigRaw("dual", `{"permissive":true}`, ExtJSONC); err != nil {
		t.Fatalf("save jsonc: %v", err)
	}

	path, ok := s.ProfileConfigPath("dual")
	if !ok {
		t.Fatal("config path not resolved")
	}
	if filepath.Ext(path) != ExtJSONC {
		t.Errorf("resolved %q, want the %s dialect", path, ExtJSONC)
	}

	raw, err := s.ProfileConfigRaw("dual")
	if err != nil {
		t.Fatalf("ProfileConfigRaw: %v", err)
	}
	if raw.Content != `{"permissive":true}` {
		t.Errorf("raw content came from wrong dialect: %q", raw.Content)
	}
}

func TestProfileConfigRaw_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.ProfileConfigRaw("ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteProfile_ClearsActiveReference(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.AddProfile("work", "work", `{}`, ExtJSON); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}
	if err := s.ActivateProfile("work"); err != nil {
		t.Fatalf("ActivateProfile: %v", err)
	}

	if err := s.DeleteProfile("work"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}

	idx := s.LoadIndex()
	if idx.ActiveProfileID != "" {
		t.Errorf("activeProfileId = %q, want cleared", idx.ActiveProfileID)
	}
	if idx.Find("work") != nil {
		t.Error("deleted profile still in index")
	}
	if _, ok := s.ProfileConfigPath("work"); ok {
		t.Error("raw config file not removed")
	}
}

func TestDeleteProfile_KeepsUnrelatedActive(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, id := range []string{"one", "two"} {
		if _, err := s.AddProfile(id, id, `{}`, ExtJSON); err != nil {
			t.Fatalf("AddProfile %s: %v", id, err)
		}
	}
	if err := s.ActivateProfile("one"); err != nil {
		t.Fatalf("ActivateProfile: %v", err)
	}

	if err := s.DeleteProfile("two"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}

	if got := s.LoadIndex().ActiveProfileID; got != "one" {
		t.Errorf("activeProfileId = %q, want one", got)
	}
}

func TestActivateProfile_UnknownID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.ActivateProfile("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestIndex_DanglingActiveTolerated(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.AddProfile("real", "real", `{}`, ExtJSON); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}

	idx := s.LoadIndex()
	idx.ActiveProfileID = "vanished"
	if err := s.SaveIndex(idx); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}

	// Lookup of the dangling reference is "not found", never a crash.
	reloaded := s.LoadIndex()
	if reloaded.Find(reloaded.ActiveProfileID) != nil {
		t.Error("dangling reference resolved to a profile")
	}
	if _, err := s.ProfileConfigRaw(reloaded.ActiveProfileID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestIndex_FindByNameCaseInsensitive(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.AddProfile("work", "Work Setup", `{}`, ExtJSON); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}

	idx := s.LoadIndex()
	if p := idx.FindByName("work setup"); p == nil || p.ID != "work" {
		t.Errorf("FindByName(lowercase) = %v, want work", p)
	}
	if p := idx.FindByName("WORK SETUP"); p == nil || p.ID != "work" {
		t.Errorf("FindByName(uppercase) = %v, want work", p)
	}
	if idx.FindByName("nope") != nil {
		t.Error("FindByName matched a nonexistent name")
	}
}

func TestSyncProfiles_AdoptsOrphansIdempotently(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.AddProfile("tracked", "tracked", `{}`, ExtJSON); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}

	// Out-of-band copy, both dialects for one id plus a stray file.
	if err := os.WriteFile(filepath.Join(s.ConfigsDir(), "orphan.jsonc"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.ConfigsDir(), "orphan.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.ConfigsDir(), "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	added, existing, err := s.SyncProfiles()
	if err != nil {
		t.Fatalf("SyncProfiles: %v", err)
	}
	if len(added) != 1 || added[0] != "orphan" {
		t.Errorf("added = %v, want [orphan]", added)
	}
	if len(existing) != 1 || existing[0] != "tracked" {
		t.Errorf("existing = %v, want [tracked]", existing)
	}

	// Second run with no filesystem change: nothing added.
	added, _, err = s.SyncProfiles()
	if err != nil {
		t.Fatalf("SyncProfiles second run: %v", err)
	}
	if len(added) != 0 {
		t.Errorf("second run added = %v, want none", added)
	}
}

func TestSaveCacheFile_WritesSidecar(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	path, err := s.SaveCacheFile("schemas", "config.json", `{"$schema":"x"}`, CacheMeta{Source: "downloaded"})
	if err != nil {
		t.Fatalf("SaveCacheFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `{"$schema":"x"}` {
		t.Errorf("cache content = %q", data)
	}

	meta, err := os.ReadFile(path + ".meta.json")
	if err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	if !strings.Contains(string(meta), `"downloaded"`) {
		t.Errorf("sidecar missing provenance: %s", meta)
	}
}

func TestSaveCacheFile_RejectsPathEscape(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, bad := range []struct{ dir, file string }{
		{"..", "x.json"},
		{"schemas", "../x.json"},
		{"a/b", "x.json"},
		{"", "x.json"},
	} {
		if _, err := s.SaveCacheFile(bad.dir, bad.file, "x", CacheMeta{}); err == nil {
			t.Errorf("SaveCacheFile(%q, %q) should fail", bad.dir, bad.file)
		}
	}
}

func TestApply_EndToEnd(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	targetDir := t.TempDir()
	target := filepath.Join(targetDir, "opencode.json")

	// Existing target content that must be backed up.
	if err := os.WriteFile(target, []byte(`{"old":true}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := s.AddProfile("default", "default", `{"a":1}`, ExtJSON); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}

	ids, err := s.List()
	if err != nil || len(ids) != 1 || ids[0] != "default" {
		t.Fatalf("List = %v, %v; want [default]", ids, err)
	}

	backupPath, err := s.Apply("default", target)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Target: one header line, then verbatim content.
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile target: %v", err)
	}
	lines := strings.SplitN(string(data), "\n", 2)
	if !strings.HasPrefix(lines[0], "// ocp:") {
		t.Errorf("missing provenance header, got %q", lines[0])
	}
	if lines[1] != `{"a":1}` {
		t.Errorf("target content = %q, want verbatim profile content", lines[1])
	}

	// Backup: <timestamp>__<original-filename> in the backup directory.
	if filepath.Dir(backupPath) != s.BackupsDir() {
		t.Errorf("backup in %q, want %q", filepath.Dir(backupPath), s.BackupsDir())
	}
	base := filepath.Base(backupPath)
	if !strings.HasSuffix(base, "__opencode.json") {
		t.Errorf("backup name = %q, want <timestamp>__opencode.json", base)
	}
	if _, ok := backupTimestamp(base); !ok {
		t.Errorf("backup name %q has no parseable timestamp prefix", base)
	}
	backed, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("ReadFile backup: %v", err)
	}
	if string(backed) != `{"old":true}` {
		t.Errorf("backup content = %q, want previous target content", backed)
	}

	// Active selection recorded.
	if got := s.LoadIndex().ActiveProfileID; got != "default" {
		t.Errorf("activeProfileId = %q, want default", got)
	}
}

func TestApply_NoExistingTarget(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.AddProfile("p", "p", `{}`, ExtJSON); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}

	target := filepath.Join(t.TempDir(), "fresh", "opencode.json")
	backupPath, err := s.Apply("p", target)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if backupPath != "" {
		t.Errorf("backup = %q, want none for missing target", backupPath)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("target not written: %v", err)
	}
}

func TestOpen_PresetModeUsesSeparateLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	profiles := Open(root, settings.ModeProfile)
	presets := Open(root, settings.ModePreset)

	if profiles.ConfigsDir() == presets.ConfigsDir() {
		t.Error("profile and preset configs must not share a directory")
	}
	if profiles.indexPath == presets.indexPath {
		t.Error("profile and preset indexes must not share a file")
	}

	// Documents added in one mode are invisible to the other.
	if _, err := presets.AddProfile("lean", "lean", `{}`, ExtJSON); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}
	if ids, _ := profiles.List(); len(ids) != 0 {
		t.Errorf("profile store sees preset documents: %v", ids)
	}
}

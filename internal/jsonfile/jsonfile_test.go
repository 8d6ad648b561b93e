package jsonfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.json")

	type Data struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	original := Data{Name: "test", Count: 42}

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var loaded Data
	if err := Load(path, &loaded); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Name != original.Name || loaded.Count != original.Count {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", loaded, original)
	}
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nonexistent.json")

	var data map[string]any
	err := Load(path, &data)
	if err == nil {
		t.Fatal("expected error for non-existent file, got nil")
	}
	if !os.IsNotExist(err) {
		t.Errorf("expected os.IsNotExist error, got %v", err)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a", "b", "c", "data.json")

	if err := Save(path, map[string]string{"key": "value"}); err != nil {
		t.Fatalf("Save failed to create directories: %v", err)
	}

	var loaded map[string]string
	if err := Load(path, &loaded); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded["key"] != "value" {
		t.Errorf("expected key=value, got key=%s", loaded["key"])
	}
}

func TestSave_Atomic(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "atomic.json")

	if err := Save(path, map[string]int{"v": 1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(path, map[string]int{"v": 2}); err != nil {
		t.Fatalf("Save overwrite failed: %v", err)
	}

	// No temp file left behind
	if _, err := os.Stat(path + ".tmp"); err == nil {
		t.Error("temp file should not exist after successful save")
	}

	var loaded map[string]int
	if err := Load(path, &loaded); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded["v"] != 2 {
		t.Errorf("expected v=2, got v=%d", loaded["v"])
	}
}

func TestDecodeLenient_Comments(t *testing.T) {
	t.Parallel()

	input := []byte(`{
  // model to use
  "model": "big", /* inline */
  "tools": ["a", "b",],
}`)

	var doc map[string]any
	if err := DecodeLenient(input, &doc); err != nil {
		t.Fatalf("DecodeLenient failed: %v", err)
	}
	if doc["model"] != "big" {
		t.Errorf("model = %v, want big", doc["model"])
	}
}

func TestDecodeLenient_StrictJSON(t *testing.T) {
	t.Parallel()

	var doc map[string]any
	if err := DecodeLenient([]byte(`{"a":1}`), &doc); err != nil {
		t.Fatalf("DecodeLenient failed on strict JSON: %v", err)
	}
	if doc["a"] != float64(1) {
		t.Errorf("a = %v, want 1", doc["a"])
	}
}

func TestLoadLenient_File(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "conf.jsonc")
	if err := os.WriteFile(path, []byte("{\n// comment\n\"x\": true\n}"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var doc map[string]any
	if err := LoadLenient(path, &doc); err != nil {
		t.Fatalf("LoadLenient failed: %v", err)
	}
	if doc["x"] != true {
		t.Errorf("x = %v, want true", doc["x"])
	}
}

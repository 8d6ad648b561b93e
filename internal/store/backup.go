package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// backupTimeLayout is an ISO-8601 timestamp with colons replaced so the
// prefix is filename-safe on every platform.
const backupTimeLayout = "2006-01-02T15-04-05"

// backupSeparator joins the timestamp prefix and the original filename.
const backupSeparator = "__"

// createBackup copies sourcePath into backupsDir under
// <timestamp>__<filename>. Returns "" without error when the source
// does not exist.
func createBackup(sourcePath, backupsDir string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(backupsDir, 0o755); err != nil {
		return "", err
	}

	name := time.Now().UTC().Format(backupTimeLayout) + backupSeparator + filepath.Base(sourcePath)
	backupPath := filepath.Join(backupsDir, name)

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(backupPath)
		return "", err
	}
	return backupPath, nil
}

// cleanupBackups removes backup files older than maxAge, judged by the
// timestamp encoded in the filename (modtime as fallback). Per-item
// errors are swallowed so one undeletable file cannot abort the sweep;
// only the removed count is reported.
func cleanupBackups(backupsDir string, maxAge time.Duration) int {
	entries, err := os.ReadDir(backupsDir)
	if err != nil {
		return 0
	}

	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ts, ok := backupTimestamp(entry.Name())
		if !ok {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			ts = info.ModTime().UTC()
		}

		if ts.After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(backupsDir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed
}

// backupTimestamp parses the timestamp prefix of a backup filename.
func backupTimestamp(name string) (time.Time, bool) {
	prefix, _, found := strings.Cut(name, backupSeparator)
	if !found {
		return time.Time{}, false
	}
	ts, err := time.Parse(backupTimeLayout, prefix)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

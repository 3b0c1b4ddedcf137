package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ErrNotInStore is returned when a referenced key has no record in the
// index. Callers at the command boundary turn it into an "add it first"
// hint.
var ErrNotInStore = errors.New("not in knowledge base")

const indexVersion = "1.0"

// Timestamp formats t as UTC ISO-8601 with a Z suffix, the format every
// persisted document uses.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

// Now returns the current time in the persisted timestamp format.
func Now() string {
	return Timestamp(time.Now())
}

// loadJSON reads path into v. A missing file returns os.ErrNotExist
// untouched so callers can lazily initialize; anything unparseable is a
// hard error, never a silent reset.
func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("corrupt index %s: %w", path, err)
	}
	return nil
}

// writeJSON serializes v and atomically replaces path via a temp file and
// rename, so a crash mid-write cannot truncate the document.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// MergeTags folds new tags into existing ones with set semantics and
// returns the result sorted.
func MergeTags(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	for _, t := range existing {
		seen[t] = true
	}
	for _, t := range added {
		seen[t] = true
	}

	merged := make([]string, 0, len(seen))
	for t := range seen {
		merged = append(merged, t)
	}
	sort.Strings(merged)
	return merged
}

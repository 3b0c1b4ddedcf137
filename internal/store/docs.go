package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/halvard/kb/internal/models"
)

// DocIndex is the whole document index, one record per copied file.
type DocIndex struct {
	Version     string                           `json:"version"`
	PDFs        map[string]models.DocumentRecord `json:"pdfs"`
	LastUpdated string                           `json:"last_updated"`
}

// DocStore owns the document index under the notes directory.
type DocStore struct {
	Layout Layout
}

// NewDocStore returns a document store over the given knowledge base root.
func NewDocStore(root string) *DocStore {
	return &DocStore{Layout: Layout{Root: root}}
}

// Load reads the document index, initializing an empty document on first
// use.
func (s *DocStore) Load() (*DocIndex, error) {
	var idx DocIndex
	err := loadJSON(s.Layout.DocIndexFile(), &idx)
	if errors.Is(err, os.ErrNotExist) {
		return &DocIndex{
			Version:     indexVersion,
			PDFs:        map[string]models.DocumentRecord{},
			LastUpdated: Now(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if idx.PDFs == nil {
		idx.PDFs = map[string]models.DocumentRecord{}
	}
	return &idx, nil
}

// Save stamps last_updated and atomically rewrites the document index.
func (s *DocStore) Save(idx *DocIndex) error {
	if err := s.Layout.Init(); err != nil {
		return err
	}
	idx.LastUpdated = Now()
	return writeJSON(s.Layout.DocIndexFile(), idx)
}

// Get returns the record for filename, or ErrNotInStore.
func (s *DocStore) Get(filename string) (models.DocumentRecord, error) {
	idx, err := s.Load()
	if err != nil {
		return models.DocumentRecord{}, err
	}
	rec, ok := idx.PDFs[filename]
	if !ok {
		return models.DocumentRecord{}, fmt.Errorf("document %q: %w", filename, ErrNotInStore)
	}
	return rec, nil
}

// Upsert inserts or replaces the record for filename.
func (s *DocStore) Upsert(filename string, rec models.DocumentRecord) error {
	idx, err := s.Load()
	if err != nil {
		return err
	}
	idx.PDFs[filename] = rec
	return s.Save(idx)
}

// Remove deletes the record and, unlike repository removal, also deletes
// the copied file and summary artifact: one record owns at most one copy
// and one summary.
func (s *DocStore) Remove(filename string) (models.DocumentRecord, error) {
	idx, err := s.Load()
	if err != nil {
		return models.DocumentRecord{}, err
	}
	rec, ok := idx.PDFs[filename]
	if !ok {
		return models.DocumentRecord{}, fmt.Errorf("document %q: %w", filename, ErrNotInStore)
	}

	if rec.LocalPath != "" {
		os.Remove(rec.LocalPath)
	}
	if rec.SummaryPath != "" {
		os.Remove(rec.SummaryPath)
	}

	delete(idx.PDFs, filename)
	if err := s.Save(idx); err != nil {
		return models.DocumentRecord{}, err
	}
	return rec, nil
}

// FileHash returns the first 16 hex characters of the file's SHA-256
// digest, used for identity reference rather than integrity checks.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/halvard/kb/internal/models"
)

// RepoIndex is the whole repository index document. Every mutation is
// load-modify-save of this structure; there is no partial-update API.
type RepoIndex struct {
	Version     string                             `json:"version"`
	Repos       map[string]models.RepositoryRecord `json:"repos"`
	LastUpdated string                             `json:"last_updated"`
}

// RepoStore owns the repository index file. Concurrent writers are not
// synchronized; the last save wins.
type RepoStore struct {
	Layout Layout
}

// NewRepoStore returns a store over the given knowledge base root.
func NewRepoStore(root string) *RepoStore {
	return &RepoStore{Layout: Layout{Root: root}}
}

// Load reads the index, initializing an empty document on first use.
func (s *RepoStore) Load() (*RepoIndex, error) {
	var idx RepoIndex
	err := loadJSON(s.Layout.IndexFile(), &idx)
	if errors.Is(err, os.ErrNotExist) {
		return &RepoIndex{
			Version:     indexVersion,
			Repos:       map[string]models.RepositoryRecord{},
			LastUpdated: Now(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if idx.Repos == nil {
		idx.Repos = map[string]models.RepositoryRecord{}
	}
	return &idx, nil
}

// Save stamps last_updated and atomically rewrites the index file.
func (s *RepoStore) Save(idx *RepoIndex) error {
	if err := s.Layout.Init(); err != nil {
		return err
	}
	idx.LastUpdated = Now()
	return writeJSON(s.Layout.IndexFile(), idx)
}

// Get returns the record for key, or ErrNotInStore.
func (s *RepoStore) Get(key string) (models.RepositoryRecord, error) {
	idx, err := s.Load()
	if err != nil {
		return models.RepositoryRecord{}, err
	}
	rec, ok := idx.Repos[key]
	if !ok {
		return models.RepositoryRecord{}, fmt.Errorf("repository %q: %w", key, ErrNotInStore)
	}
	return rec, nil
}

// Upsert inserts or replaces the record for key.
func (s *RepoStore) Upsert(key string, rec models.RepositoryRecord) error {
	idx, err := s.Load()
	if err != nil {
		return err
	}
	idx.Repos[key] = rec
	return s.Save(idx)
}

// Remove deletes the record for key. The on-disk clone and notes file are
// left untouched; the store and the filesystem are deliberately decoupled.
func (s *RepoStore) Remove(key string) error {
	idx, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := idx.Repos[key]; !ok {
		return fmt.Errorf("repository %q: %w", key, ErrNotInStore)
	}
	delete(idx.Repos, key)
	return s.Save(idx)
}

// NewRepositoryRecord builds a fresh record for (owner, name) with the
// add-time metadata snapshot.
func (s *RepoStore) NewRepositoryRecord(owner, name, description string, meta models.RepoMetadata) models.RepositoryRecord {
	return models.RepositoryRecord{
		URL:        models.RepoURL(owner, name),
		AddedAt:    Timestamp(time.Now()),
		Tags:       []string{},
		Status:     models.StatusBookmarked,
		Notes:      "",
		KeyFiles:   []string{},
		Summary:    description,
		LocalPath:  s.Layout.RepoPath(owner, name),
		LastSynced: nil,
		Metadata:   meta,
	}
}

// WriteNotesFile mirrors a record's notes into the companion markdown file.
func (s *RepoStore) WriteNotesFile(owner, name, key, note string) (string, error) {
	if err := s.Layout.Init(); err != nil {
		return "", err
	}
	path := s.Layout.NotesFile(owner, name)
	content := fmt.Sprintf("# %s\n\n%s\n", key, note)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write notes file: %w", err)
	}
	return path, nil
}

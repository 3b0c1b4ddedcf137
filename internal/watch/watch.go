package watch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/halvard/kb/internal/models"
	"github.com/halvard/kb/internal/store"
)

// ErrNotWatched is returned when a check references a repository that has
// no snapshot on disk.
var ErrNotWatched = errors.New("repository is not being watched")

// Store persists one snapshot file per watched repository under the
// changes directory. Snapshots never expire; every check rewrites them.
type Store struct {
	Layout store.Layout
}

// NewStore returns a snapshot store over the given knowledge base root.
func NewStore(root string) *Store {
	return &Store{Layout: store.Layout{Root: root}}
}

// Watch records the observed state as the new baseline, unconditionally
// overwriting any existing snapshot.
func (s *Store) Watch(owner, name string, observed models.ObservedState) (models.WatchSnapshot, error) {
	snap := models.WatchSnapshot{
		Repo:          owner + "/" + name,
		LastChecked:   store.Now(),
		LatestRelease: observed.Release,
		LatestCommit:  observed.Commit,
	}
	if err := s.write(owner, name, snap); err != nil {
		return models.WatchSnapshot{}, err
	}
	return snap, nil
}

// Check compares the stored snapshot against observed and reports which
// pointers advanced. The snapshot is rewritten with the observed values and
// a fresh last_checked even when nothing changed, so the timestamp always
// reflects the last check.
func (s *Store) Check(owner, name string, observed models.ObservedState) (models.ChangeReport, error) {
	old, err := s.load(owner, name)
	if err != nil {
		return models.ChangeReport{}, err
	}

	report := models.ChangeReport{
		Repo:           owner + "/" + name,
		ReleaseChanged: !equal(old.LatestRelease, observed.Release),
		CommitChanged:  !equal(old.LatestCommit, observed.Commit),
		OldRelease:     old.LatestRelease,
		NewRelease:     observed.Release,
		OldCommit:      old.LatestCommit,
		NewCommit:      observed.Commit,
	}

	old.LastChecked = store.Now()
	old.LatestRelease = observed.Release
	old.LatestCommit = observed.Commit
	if err := s.write(owner, name, old); err != nil {
		return models.ChangeReport{}, err
	}
	return report, nil
}

// Watched lists the (owner, name) pairs with a snapshot on disk, derived
// from the snapshot filenames. Malformed filenames are skipped, not fatal.
func (s *Store) Watched() ([][2]string, error) {
	entries, err := os.ReadDir(s.Layout.ChangesDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read changes directory: %w", err)
	}

	var repos [][2]string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".json")
		parts := strings.Split(stem, "__")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		repos = append(repos, [2]string{parts[0], parts[1]})
	}
	return repos, nil
}

// Snapshot returns the stored baseline for one repository.
func (s *Store) Snapshot(owner, name string) (models.WatchSnapshot, error) {
	return s.load(owner, name)
}

// CheckAll runs Check for every watched repository using fetch to obtain
// the current remote state. A failure for one repository is collected and
// does not stop the rest.
func (s *Store) CheckAll(fetch func(owner, name string) (models.ObservedState, error)) ([]models.ChangeReport, []error) {
	repos, err := s.Watched()
	if err != nil {
		return nil, []error{err}
	}

	var reports []models.ChangeReport
	var errs []error
	for _, r := range repos {
		owner, name := r[0], r[1]
		observed, err := fetch(owner, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", owner, name, err))
			continue
		}
		report, err := s.Check(owner, name, observed)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", owner, name, err))
			continue
		}
		reports = append(reports, report)
	}
	return reports, errs
}

func (s *Store) load(owner, name string) (models.WatchSnapshot, error) {
	path := s.Layout.SnapshotFile(owner, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return models.WatchSnapshot{}, fmt.Errorf("%s/%s: %w", owner, name, ErrNotWatched)
	}
	if err != nil {
		return models.WatchSnapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap models.WatchSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.WatchSnapshot{}, fmt.Errorf("corrupt snapshot %s: %w", path, err)
	}
	return snap, nil
}

func (s *Store) write(owner, name string, snap models.WatchSnapshot) error {
	if err := s.Layout.Init(); err != nil {
		return err
	}
	path := s.Layout.SnapshotFile(owner, name)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/halvard/kb/internal/models"
)

// Layout describes the fixed directory structure under the knowledge base
// root. All persisted state lives below Root as plain JSON and text files.
type Layout struct {
	Root string
}

// DefaultRoot returns the default knowledge base location,
// $HOME/.config/github-kb.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "github-kb"), nil
}

func (l Layout) IndexFile() string    { return filepath.Join(l.Root, "index.json") }
func (l Layout) ReposDir() string     { return filepath.Join(l.Root, "repos") }
func (l Layout) NotesDir() string     { return filepath.Join(l.Root, "notes") }
func (l Layout) ChangesDir() string   { return filepath.Join(l.Root, "changes") }
func (l Layout) DocIndexFile() string { return filepath.Join(l.NotesDir(), "pdf_index.json") }

// RepoPath returns the clone destination for a repository.
func (l Layout) RepoPath(owner, name string) string {
	return filepath.Join(l.ReposDir(), models.RepoDirName(owner, name))
}

// NotesFile returns the companion notes file for a repository.
func (l Layout) NotesFile(owner, name string) string {
	return filepath.Join(l.NotesDir(), models.RepoDirName(owner, name)+".md")
}

// SnapshotFile returns the watch snapshot file for a repository.
func (l Layout) SnapshotFile(owner, name string) string {
	return filepath.Join(l.ChangesDir(), models.RepoDirName(owner, name)+".json")
}

// Init creates the directory structure if it does not exist yet.
func (l Layout) Init() error {
	for _, dir := range []string{l.Root, l.ReposDir(), l.NotesDir(), l.ChangesDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// TempKB points the configuration at a throwaway knowledge base root and
// returns it. Viper state is restored when the test ends.
func TempKB(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	viper.Set("kb.root", root)
	viper.Set("limits.key_files", 50)
	viper.Set("limits.release_lines", 50)
	viper.Set("limits.findings", 10)
	viper.Set("limits.commits", 20)
	viper.Set("limits.releases", 10)
	viper.Set("timeouts.api_seconds", 10)
	viper.Set("timeouts.git_seconds", 30)
	viper.Set("timeouts.log_seconds", 60)
	viper.Set("timeouts.clone_seconds", 300)

	t.Cleanup(viper.Reset)
	return root
}

// TempGitRepo creates a git repository with one initial commit for tests
// that drive the VCS gateway.
type TempGitRepo struct {
	Path string
	t    *testing.T
}

// NewTempGitRepo initializes a repository under t.TempDir().
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()

	dir := t.TempDir()
	r := &TempGitRepo{Path: dir, t: t}

	r.git("init")
	r.git("config", "user.name", "Test User")
	r.git("config", "user.email", "test@example.com")

	r.CreateFile("README.md", "# Test Repository\n")
	r.Commit("Initial commit")
	return r
}

// CreateFile writes a file relative to the repository root.
func (r *TempGitRepo) CreateFile(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.t.Fatalf("failed to create file: %v", err)
	}
}

// Commit stages and commits all changes.
func (r *TempGitRepo) Commit(message string) {
	r.t.Helper()
	r.git("add", ".")
	r.git("commit", "-m", message)
}

// Tag creates a lightweight tag at HEAD.
func (r *TempGitRepo) Tag(name string) {
	r.t.Helper()
	r.git("tag", name)
}

func (r *TempGitRepo) git(args ...string) {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	if out, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

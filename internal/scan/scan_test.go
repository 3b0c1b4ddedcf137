package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestAnalyze(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/x\n")
	writeFile(t, root, "README.md", "# x\n")
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "internal/server/server.go", "package server\n")
	writeFile(t, root, "docs/guide.md", "# guide\n")
	writeFile(t, root, ".git/config", "[core]\n")
	writeFile(t, root, "Makefile", "all:\n")

	a, err := Analyze(root, 50)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	wantKeyFiles := []string{"Makefile", "README.md", "go.mod", "main.go"}
	if len(a.KeyFiles) != len(wantKeyFiles) {
		t.Fatalf("key files = %v, want %v", a.KeyFiles, wantKeyFiles)
	}
	for i, want := range wantKeyFiles {
		if a.KeyFiles[i] != want {
			t.Errorf("key file %d = %q, want %q", i, a.KeyFiles[i], want)
		}
	}

	if a.FileCounts[".go"] != 2 {
		t.Errorf(".go count = %d, want 2", a.FileCounts[".go"])
	}
	if a.FileCounts["no-extension"] != 1 {
		t.Errorf("no-extension count = %d, want 1 (Makefile)", a.FileCounts["no-extension"])
	}

	// Hidden directories never contribute.
	for ext := range a.FileCounts {
		if ext == ".git" {
			t.Error("hidden directory leaked into file counts")
		}
	}

	var dirs []string
	for _, d := range a.TopDirs {
		dirs = append(dirs, d.Name)
	}
	if len(dirs) != 2 || dirs[0] != "docs" || dirs[1] != "internal" {
		t.Errorf("top dirs = %v, want [docs internal]", dirs)
	}
}

func TestAnalyzeKeyFilesCap(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "")
	writeFile(t, root, "README.md", "")
	writeFile(t, root, "Makefile", "")

	a, err := Analyze(root, 2)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(a.KeyFiles) != 2 {
		t.Errorf("key files = %v, want exactly 2", a.KeyFiles)
	}
}

func TestFindChangelog(t *testing.T) {
	root := t.TempDir()

	if _, _, ok := FindChangelog(root); ok {
		t.Error("empty directory should have no changelog")
	}

	writeFile(t, root, "HISTORY.md", "## 1.0\n")
	content, path, ok := FindChangelog(root)
	if !ok {
		t.Fatal("expected to find HISTORY.md")
	}
	if content != "## 1.0\n" {
		t.Errorf("content = %q", content)
	}
	if filepath.Base(path) != "HISTORY.md" {
		t.Errorf("path = %q", path)
	}

	// CHANGELOG.md wins over HISTORY.md.
	writeFile(t, root, "CHANGELOG.md", "## 2.0\n")
	_, path, ok = FindChangelog(root)
	if !ok || filepath.Base(path) != "CHANGELOG.md" {
		t.Errorf("expected CHANGELOG.md to take precedence, got %q", path)
	}
}

func TestFindReadme(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# hello\n")

	content, path, ok := FindReadme(root)
	if !ok {
		t.Fatal("expected to find README.md")
	}
	if content != "# hello\n" || filepath.Base(path) != "README.md" {
		t.Errorf("got %q from %q", content, path)
	}
}

func TestFindPDFs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/paper.pdf", "%PDF")
	writeFile(t, root, "docs/deep/REPORT.PDF", "%PDF")
	writeFile(t, root, "notes.txt", "")
	writeFile(t, root, ".hidden/secret.pdf", "%PDF")

	pdfs, err := FindPDFs(root)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	want := []string{
		filepath.Join("docs", "deep", "REPORT.PDF"),
		filepath.Join("docs", "paper.pdf"),
	}
	if len(pdfs) != len(want) {
		t.Fatalf("pdfs = %v, want %v", pdfs, want)
	}
	for i := range want {
		if pdfs[i] != want[i] {
			t.Errorf("pdf %d = %q, want %q", i, pdfs[i], want[i])
		}
	}
}

func TestTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "")
	writeFile(t, root, "pkg/b.go", "")
	writeFile(t, root, "pkg/deep/c.go", "")
	writeFile(t, root, "node_modules/x/y.js", "")

	out := Tree(root, 2)

	if !strings.Contains(out, "pkg") || !strings.Contains(out, "b.go") {
		t.Errorf("tree missing expected entries:\n%s", out)
	}
	if strings.Contains(out, "c.go") {
		t.Errorf("tree exceeded depth 2:\n%s", out)
	}
	if strings.Contains(out, "node_modules") {
		t.Errorf("tree should skip node_modules:\n%s", out)
	}
	if !strings.HasPrefix(out, filepath.Base(root)) {
		t.Errorf("tree should start with the root name:\n%s", out)
	}
}

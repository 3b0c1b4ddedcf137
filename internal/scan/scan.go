// Package scan walks cloned working copies: key-file discovery for the
// analyze pass, changelog lookup, and PDF discovery for the document
// index.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// importantFiles are the entry points and build/docs files the analyze
// pass records as key_files.
var importantFiles = map[string]bool{
	"package.json": true, "setup.py": true, "Cargo.toml": true, "go.mod": true,
	"pom.xml": true, "build.gradle": true,
	"Makefile": true, "CMakeLists.txt": true, "Dockerfile": true, "docker-compose.yml": true,
	"index.js": true, "index.ts": true, "main.py": true, "main.go": true,
	"main.rs": true, "main.c": true, "main.cpp": true,
	"app.py": true, "server.js": true, "server.ts": true, "index.html": true,
	"README.md": true, "CONTRIBUTING.md": true, "LICENSE": true,
}

// changelogNames are the filenames probed, in order, when looking for a
// changelog.
var changelogNames = []string{
	"CHANGELOG.md", "CHANGELOG", "CHANGELOG.txt",
	"CHANGES.md", "CHANGES", "CHANGES.txt",
	"HISTORY.md", "HISTORY", "HISTORY.txt",
	"RELEASES.md", "NEWS.md",
}

// Analysis summarizes a repository working copy.
type Analysis struct {
	KeyFiles   []string
	FileCounts map[string]int
	TopDirs    []DirEntry
}

// DirEntry is a top-level directory and its recursive file count.
type DirEntry struct {
	Name  string
	Files int
}

// Analyze walks root and returns key files (sorted, capped), file counts
// by extension, and top-level directory sizes. Hidden paths are skipped.
func Analyze(root string, keyFilesCap int) (*Analysis, error) {
	a := &Analysis{FileCounts: map[string]int{}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if importantFiles[d.Name()] {
			a.KeyFiles = append(a.KeyFiles, rel)
		}

		ext := filepath.Ext(d.Name())
		if ext == "" {
			ext = "no-extension"
		}
		a.FileCounts[ext]++

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(a.KeyFiles)
	if keyFilesCap > 0 && len(a.KeyFiles) > keyFilesCap {
		a.KeyFiles = a.KeyFiles[:keyFilesCap]
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		count := 0
		filepath.WalkDir(filepath.Join(root, e.Name()), func(path string, d fs.DirEntry, err error) error {
			if err == nil && d != nil && !d.IsDir() {
				count++
			}
			return nil
		})
		a.TopDirs = append(a.TopDirs, DirEntry{Name: e.Name(), Files: count})
	}
	sort.Slice(a.TopDirs, func(i, j int) bool { return a.TopDirs[i].Name < a.TopDirs[j].Name })

	return a, nil
}

// FindChangelog returns the contents of the first changelog-style file
// found at the top of root, or ok=false when none exists.
func FindChangelog(root string) (content string, path string, ok bool) {
	for _, name := range changelogNames {
		p := filepath.Join(root, name)
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		return string(data), p, true
	}
	return "", "", false
}

// FindReadme returns the contents of the first README variant at the top
// of root.
func FindReadme(root string) (content string, path string, ok bool) {
	for _, name := range []string{"README.md", "README", "README.txt", "README.rst"} {
		p := filepath.Join(root, name)
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		return string(data), p, true
	}
	return "", "", false
}

// FindPDFs returns all .pdf files below root, as paths relative to root.
func FindPDFs(root string) ([]string, error) {
	var pdfs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			if rel, err := filepath.Rel(root, path); err == nil {
				pdfs = append(pdfs, rel)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

// Tree renders a bounded-depth directory listing of root in the style of
// the tree utility. Hidden entries and dependency directories are skipped.
func Tree(root string, depth int) string {
	var b strings.Builder
	b.WriteString(filepath.Base(root))
	b.WriteString("\n")
	writeTree(&b, root, "", 0, depth)
	return b.String()
}

func writeTree(b *strings.Builder, dir, prefix string, level, depth int) {
	if level >= depth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var kept []fs.DirEntry
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || e.Name() == "node_modules" || e.Name() == "__pycache__" {
			continue
		}
		kept = append(kept, e)
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].IsDir() != kept[j].IsDir() {
			return kept[i].IsDir()
		}
		return kept[i].Name() < kept[j].Name()
	})

	for i, e := range kept {
		last := i == len(kept)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		b.WriteString(prefix + connector + e.Name() + "\n")
		if e.IsDir() {
			writeTree(b, filepath.Join(dir, e.Name()), childPrefix, level+1, depth)
		}
	}
}

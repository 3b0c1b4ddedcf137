package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/halvard/kb/internal/models"
	"github.com/halvard/kb/internal/store"
	"github.com/halvard/kb/internal/testutil"
)

// seedRepo inserts a minimal record the way add would, without touching
// the network.
func seedRepo(t *testing.T, key string) models.RepositoryRecord {
	t.Helper()

	parts := strings.SplitN(key, "/", 2)
	s := repoStore()
	rec := s.NewRepositoryRecord(parts[0], parts[1], "test repository", models.RepoMetadata{
		Stars:    100,
		Language: "Go",
	})
	if err := s.Upsert(key, rec); err != nil {
		t.Fatalf("failed to seed %s: %v", key, err)
	}
	return rec
}

func TestTagCommand(t *testing.T) {
	testutil.TempKB(t)
	seedRepo(t, "golang/go")

	if err := runTag(nil, []string{"golang/go", "web", "compiler"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	// Tagging again with an overlap stays a set.
	if err := runTag(nil, []string{"golang/go", "compiler", "runtime"}); err != nil {
		t.Fatalf("second tag failed: %v", err)
	}

	rec, err := repoStore().Get("golang/go")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	want := []string{"compiler", "runtime", "web"}
	if len(rec.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", rec.Tags, want)
	}
	for i := range want {
		if rec.Tags[i] != want[i] {
			t.Errorf("tag %d = %q, want %q", i, rec.Tags[i], want[i])
		}
	}
}

func TestTagUnknownRepo(t *testing.T) {
	testutil.TempKB(t)

	err := runTag(nil, []string{"nobody/nothing", "x"})
	if !errors.Is(err, store.ErrNotInStore) {
		t.Errorf("expected ErrNotInStore, got %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	testutil.TempKB(t)
	seedRepo(t, "golang/go")

	if err := runStatus(nil, []string{"golang/go", "exploring"}); err != nil {
		t.Fatalf("status failed: %v", err)
	}

	rec, err := repoStore().Get("golang/go")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.Status != models.StatusExploring {
		t.Errorf("status = %q, want exploring", rec.Status)
	}
}

func TestStatusRejectsInvalid(t *testing.T) {
	testutil.TempKB(t)
	seedRepo(t, "golang/go")

	if err := runStatus(nil, []string{"golang/go", "finished"}); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestNoteCommand(t *testing.T) {
	root := testutil.TempKB(t)
	seedRepo(t, "golang/go")

	if err := runNote(nil, []string{"golang/go", "read the runtime docs"}); err != nil {
		t.Fatalf("note failed: %v", err)
	}

	rec, err := repoStore().Get("golang/go")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.Notes != "read the runtime docs" {
		t.Errorf("notes = %q", rec.Notes)
	}

	data, err := os.ReadFile(filepath.Join(root, "notes", "golang__go.md"))
	if err != nil {
		t.Fatalf("notes file missing: %v", err)
	}
	if !strings.Contains(string(data), "# golang/go") || !strings.Contains(string(data), "read the runtime docs") {
		t.Errorf("notes file content:\n%s", data)
	}
}

func TestRemoveCommandLeavesClone(t *testing.T) {
	testutil.TempKB(t)
	seedRepo(t, "golang/go")

	s := repoStore()
	clonePath := s.Layout.RepoPath("golang", "go")
	if err := os.MkdirAll(clonePath, 0755); err != nil {
		t.Fatalf("failed to fake clone: %v", err)
	}

	if err := runRemove(nil, []string{"golang/go"}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if _, err := s.Get("golang/go"); !errors.Is(err, store.ErrNotInStore) {
		t.Errorf("record should be gone, got %v", err)
	}
	if _, err := os.Stat(clonePath); err != nil {
		t.Errorf("clone should survive removal: %v", err)
	}
}

func TestListCommand(t *testing.T) {
	testutil.TempKB(t)
	seedRepo(t, "golang/go")
	seedRepo(t, "spf13/cobra")

	for _, tc := range []struct {
		name   string
		tag    string
		status string
	}{
		{name: "all"},
		{name: "by tag", tag: "missing-tag"},
		{name: "by status", status: "archived"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			listTag = tc.tag
			listStatus = tc.status
			listJSON = false
			listToon = false
			if err := runList(nil, nil); err != nil {
				t.Fatalf("list failed: %v", err)
			}
		})
	}
}

func TestListJSONAndToon(t *testing.T) {
	testutil.TempKB(t)
	seedRepo(t, "golang/go")

	listTag, listStatus = "", ""
	listJSON, listToon = true, false
	if err := runList(nil, nil); err != nil {
		t.Fatalf("json list failed: %v", err)
	}

	listJSON, listToon = false, true
	if err := runList(nil, nil); err != nil {
		t.Fatalf("toon list failed: %v", err)
	}
	listToon = false
}

func TestInfoCommand(t *testing.T) {
	testutil.TempKB(t)
	seedRepo(t, "golang/go")

	if err := runInfo(nil, []string{"golang/go"}); err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if err := runInfo(nil, []string{"nobody/nothing"}); !errors.Is(err, store.ErrNotInStore) {
		t.Errorf("expected ErrNotInStore, got %v", err)
	}
}

func TestStatsCommand(t *testing.T) {
	testutil.TempKB(t)

	// Empty knowledge base.
	if err := runStats(nil, nil); err != nil {
		t.Fatalf("stats on empty kb failed: %v", err)
	}

	seedRepo(t, "golang/go")
	if err := runTag(nil, []string{"golang/go", "language"}); err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	if err := runStats(nil, nil); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
}

func TestParseRepoArg(t *testing.T) {
	owner, name, key, err := parseRepoArg("https://github.com/golang/go.git")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if owner != "golang" || name != "go" || key != "golang/go" {
		t.Errorf("parse = %q/%q/%q", owner, name, key)
	}

	if _, _, _, err := parseRepoArg("not-a-repo"); err == nil {
		t.Error("expected error for bad identifier")
	}
}

func TestDestFilename(t *testing.T) {
	tests := []struct {
		name   string
		source string
		title  string
		want   string
	}{
		{name: "no title", source: "/tmp/paper.pdf", title: "", want: "paper.pdf"},
		{name: "title spaces", source: "/tmp/x.pdf", title: "Deep Learning Basics", want: "Deep-Learning-Basics.pdf"},
		{name: "title punctuation", source: "/tmp/x.pdf", title: "C++: The Good Parts!", want: "C-The-Good-Parts.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := destFilename(tt.source, tt.title); got != tt.want {
				t.Errorf("destFilename(%q, %q) = %q, want %q", tt.source, tt.title, got, tt.want)
			}
		})
	}
}

func TestDocAddAndSummarize(t *testing.T) {
	root := testutil.TempKB(t)

	source := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(source, []byte("%PDF-1.4 fake content for sizing"), 0644); err != nil {
		t.Fatalf("failed to write source pdf: %v", err)
	}

	docAddTitle, docAddTags, docAddSource = "", nil, "local"
	if err := runDocAdd(nil, []string{source}); err != nil {
		t.Fatalf("doc add failed: %v", err)
	}

	rec, err := docStore().Get("paper.pdf")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.EstimatedPages != 1 {
		t.Errorf("pages = %d, want 1 for a tiny file", rec.EstimatedPages)
	}
	if rec.FileHash == "" || len(rec.FileHash) != 16 {
		t.Errorf("hash = %q, want 16 hex chars", rec.FileHash)
	}
	if _, err := os.Stat(filepath.Join(root, "notes", "paper.pdf")); err != nil {
		t.Errorf("copied file missing: %v", err)
	}

	if err := runDocSummarize(nil, []string{"paper.pdf"}); err != nil {
		t.Fatalf("summarize failed: %v", err)
	}

	rec, err = docStore().Get("paper.pdf")
	if err != nil {
		t.Fatalf("get after summarize failed: %v", err)
	}
	if !rec.HasSummary {
		t.Error("expected has_summary after summarize")
	}
	if rec.SummaryTokens > summaryTokenCeiling {
		t.Errorf("summary tokens = %d, exceeds ceiling", rec.SummaryTokens)
	}
	data, err := os.ReadFile(rec.SummaryPath)
	if err != nil {
		t.Fatalf("summary file missing: %v", err)
	}
	if !strings.Contains(string(data), "# Structured Summary: paper") {
		t.Errorf("summary template content:\n%s", data)
	}

	// Remove deletes copy and summary.
	if err := runDocRemove(nil, []string{"paper.pdf"}); err != nil {
		t.Fatalf("doc remove failed: %v", err)
	}
	if _, err := os.Stat(rec.SummaryPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("summary should be deleted, got %v", err)
	}
}

func TestDocTagAndSearch(t *testing.T) {
	testutil.TempKB(t)

	source := filepath.Join(t.TempDir(), "guide.pdf")
	if err := os.WriteFile(source, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatalf("failed to write source pdf: %v", err)
	}
	docAddTitle, docAddTags, docAddSource = "", []string{"reference"}, "local"
	if err := runDocAdd(nil, []string{source}); err != nil {
		t.Fatalf("doc add failed: %v", err)
	}
	docAddTags = nil

	if err := runDocTag(nil, []string{"guide.pdf", "golang"}); err != nil {
		t.Fatalf("doc tag failed: %v", err)
	}
	rec, err := docStore().Get("guide.pdf")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(rec.Tags) != 2 || rec.Tags[0] != "golang" || rec.Tags[1] != "reference" {
		t.Errorf("tags = %v, want [golang reference]", rec.Tags)
	}

	if err := runDocSearch(nil, []string{"golang"}); err != nil {
		t.Fatalf("doc search failed: %v", err)
	}
	if err := runDocSearch(nil, []string{"no-such-thing"}); err != nil {
		t.Fatalf("doc search with no hits failed: %v", err)
	}
}

func TestSummaryKeywords(t *testing.T) {
	keywords := summaryKeywords("A fast and simple terminal multiplexer for the modern shell")
	want := []string{"fast", "simple", "terminal"}
	if len(keywords) != len(want) {
		t.Fatalf("keywords = %v, want %v", keywords, want)
	}
	for i := range want {
		if keywords[i] != want[i] {
			t.Errorf("keyword %d = %q, want %q", i, keywords[i], want[i])
		}
	}
}

func TestBounded(t *testing.T) {
	items := []string{"a", "b", "c"}
	if got := bounded(items, 2); len(got) != 2 {
		t.Errorf("bounded = %v", got)
	}
	if got := bounded(items, 0); len(got) != 3 {
		t.Errorf("cap 0 should be unbounded, got %v", got)
	}
}

func TestHintFor(t *testing.T) {
	if hint := hintFor(store.ErrNotInStore); !strings.Contains(hint, "kb add") {
		t.Errorf("hint = %q", hint)
	}
}

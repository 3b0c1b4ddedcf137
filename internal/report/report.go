// Package report renders change reports and classifier findings for the
// terminal. Output is bounded: long buckets are capped, never dumped.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/halvard/kb/internal/classify"
	"github.com/halvard/kb/internal/models"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	changeColor = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
)

// sections fixes the display order and labels for classifier buckets.
var sections = []struct {
	category classify.Category
	label    string
}{
	{classify.Breaking, "Breaking Changes"},
	{classify.Naming, "Naming/API Changes"},
	{classify.Deprecation, "Deprecations"},
	{classify.Feature, "New Features"},
	{classify.Fix, "Bug Fixes"},
	{classify.API, "API Changes"},
	{classify.Performance, "Performance"},
	{classify.Security, "Security"},
}

// Findings prints each non-empty bucket with at most cap entries.
func Findings(w io.Writer, f classify.Findings, cap int) {
	if f.Empty() {
		fmt.Fprintln(w, "No notable changes detected.")
		return
	}

	for _, s := range sections {
		items := f[s.category]
		if len(items) == 0 {
			continue
		}
		headerColor.Fprintf(w, "\n%s (%d found)\n", s.label, len(items))
		shown := items
		if cap > 0 && len(shown) > cap {
			shown = shown[:cap]
		}
		for _, item := range shown {
			fmt.Fprintf(w, "  - %s\n", item)
		}
		if len(items) > len(shown) {
			fmt.Fprintf(w, "  ... and %d more\n", len(items)-len(shown))
		}
	}
}

// Change prints one repository's check result.
func Change(w io.Writer, r models.ChangeReport) {
	fmt.Fprintf(w, "\n%s\n", r.Repo)
	if r.ReleaseChanged {
		changeColor.Fprintf(w, "  new release: %s -> %s\n", orNone(r.OldRelease), orNone(r.NewRelease))
	}
	if r.CommitChanged {
		changeColor.Fprintln(w, "  new commits since last check")
	}
	if !r.Changed() {
		okColor.Fprintln(w, "  no updates since last check")
	}
}

// Rule prints a section divider the width the rest of the CLI uses.
func Rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

// TruncateLines returns at most n lines of text plus a count of what was
// omitted.
func TruncateLines(text string, n int) (shown string, omitted int) {
	lines := strings.Split(text, "\n")
	if n <= 0 || len(lines) <= n {
		return text, 0
	}
	return strings.Join(lines[:n], "\n"), len(lines) - n
}

func orNone(s *string) string {
	if s == nil {
		return "none"
	}
	return *s
}

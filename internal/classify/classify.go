// Package classify buckets free-text change descriptions (release notes,
// changelogs, commit messages) into change categories using fixed keyword
// and regex rules. It is a heuristic triage aid, not a parser; false
// positives and negatives are expected.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Category is one change bucket.
type Category string

const (
	Breaking    Category = "breaking_changes"
	Deprecation Category = "deprecations"
	Feature     Category = "new_features"
	Fix         Category = "bug_fixes"
	API         Category = "api_changes"
	Naming      Category = "naming_changes"
	Performance Category = "performance"
	Security    Category = "security"
)

// Findings maps each category to its deduplicated matches. Order within a
// bucket is not significant.
type Findings map[Category][]string

// keywordRule matches a lowercased line against a keyword set. Rules are
// independent: a line may land in several buckets, and new rules can be
// added without touching existing ones.
type keywordRule struct {
	category Category
	keywords []string
}

var keywordRules = []keywordRule{
	{Breaking, []string{"breaking", "breaking change", "backwards incompatible", "removed"}},
	{Deprecation, []string{"deprecat", "obsolete", "legacy"}},
	{Feature, []string{"add", "new", "introduce", "implement", "feature"}},
	{Fix, []string{"fix", "bug", "issue", "patch", "resolve"}},
	{API, []string{"api", "interface", "signature", "parameter", "method"}},
	{Naming, []string{"renam", "naming convention"}},
	{Performance, []string{"performance", "optimize", "faster", "improve", "speed"}},
	{Security, []string{"security", "vulnerability", "cve", "exploit"}},
}

// renameRule matches rename-style phrasing across the whole text, not
// line-by-line. Each match contributes one formatted naming finding.
type renameRule struct {
	pattern    *regexp.Regexp
	changeType string
}

var renameRules = []renameRule{
	{regexp.MustCompile(`(?i)(\w+[A-Z]\w+)\s*->\s*(\w+_\w+)`), "camelCase to snake_case"},
	{regexp.MustCompile(`(?i)(\w+_\w+)\s*->\s*(\w+[A-Z]\w+)`), "snake_case to camelCase"},
	{regexp.MustCompile(`(?i)renamed?\s+(\w+)\s+to\s+(\w+)`), "renamed"},
	{regexp.MustCompile(`(?i)(\w+)\s+is now\s+(\w+)`), "renamed"},
}

// Classify runs every rule over text and returns the categorized findings.
// Classifying the same text twice yields set-equal results.
func Classify(text string) Findings {
	buckets := map[Category]map[string]bool{}
	record := func(c Category, finding string) {
		if buckets[c] == nil {
			buckets[c] = map[string]bool{}
		}
		buckets[c][finding] = true
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, rule := range keywordRules {
			for _, kw := range rule.keywords {
				if strings.Contains(lower, kw) {
					record(rule.category, trimmed)
					break
				}
			}
		}
	}

	for _, rule := range renameRules {
		for _, m := range rule.pattern.FindAllStringSubmatch(text, -1) {
			record(Naming, fmt.Sprintf("%s: %s -> %s", rule.changeType, m[1], m[2]))
		}
	}

	findings := Findings{}
	for category, set := range buckets {
		items := make([]string, 0, len(set))
		for finding := range set {
			items = append(items, finding)
		}
		sort.Strings(items)
		findings[category] = items
	}
	return findings
}

// Empty reports whether no rule matched anything.
func (f Findings) Empty() bool {
	for _, items := range f {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halvard/kb/internal/gh"
	"github.com/halvard/kb/internal/git"
	"github.com/halvard/kb/internal/models"
	"github.com/halvard/kb/internal/report"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search GitHub and your local clones",
}

var (
	searchStars    string
	searchLanguage string
	searchLimit    int
	relatedLimit   int
	codeTag        string
	codeRepo       string
)

var searchGitHubCmd = &cobra.Command{
	Use:   "github <query>",
	Short: "Search GitHub for repositories",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchGitHub,
}

var searchRelatedCmd = &cobra.Command{
	Use:   "related <owner/repo>",
	Short: "Find repositories related to one in your knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchRelated,
}

var searchCodeCmd = &cobra.Command{
	Use:   "code <pattern>",
	Short: "Search code across cloned repositories",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchCode,
}

var searchCompareCmd = &cobra.Command{
	Use:   "compare <owner/repo> <owner/repo> <pattern>",
	Short: "Compare how two repositories implement a pattern",
	Args:  cobra.ExactArgs(3),
	RunE:  runSearchCompare,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.AddCommand(searchGitHubCmd)
	searchCmd.AddCommand(searchRelatedCmd)
	searchCmd.AddCommand(searchCodeCmd)
	searchCmd.AddCommand(searchCompareCmd)

	searchGitHubCmd.Flags().StringVar(&searchStars, "stars", "", "Star qualifier (e.g. >1000)")
	searchGitHubCmd.Flags().StringVar(&searchLanguage, "language", "", "Language qualifier")
	searchGitHubCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results")
	searchRelatedCmd.Flags().IntVar(&relatedLimit, "limit", 10, "Maximum results")
	searchCodeCmd.Flags().StringVar(&codeTag, "tag", "", "Only search repos carrying this tag")
	searchCodeCmd.Flags().StringVar(&codeRepo, "repo", "", "Only search this repository")
}

func runSearchGitHub(cmd *cobra.Command, args []string) error {
	ctx, cancel := apiContext()
	defer cancel()
	return githubSearch(gh.NewClient(ctx), args[0], searchStars, searchLanguage, searchLimit)
}

func githubSearch(client *gh.Client, query, stars, language string, limit int) error {
	ctx, cancel := apiContext()
	defer cancel()

	fmt.Printf("Searching GitHub: %s\n", query)
	fmt.Printf("(Limit: %d results)\n\n", limit)

	total, results, err := client.SearchRepos(ctx, query, stars, language, limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No repositories found.")
		return nil
	}

	idx, err := repoStore().Load()
	if err != nil {
		return err
	}

	fmt.Printf("Found %d repositories (showing top %d)\n", total, len(results))
	report.Rule(os.Stdout)

	for i, r := range results {
		desc := r.Description
		if desc == "" {
			desc = "No description"
		}
		lang := r.Language
		if lang == "" {
			lang = "N/A"
		}
		fmt.Printf("\n%d. %s\n", i+1, r.FullName)
		fmt.Printf("   %s\n", desc)
		fmt.Printf("   Stars: %d | Language: %s | Forks: %d\n", r.Stars, lang, r.Forks)
		fmt.Printf("   URL: %s\n", r.HTMLURL)
		if _, ok := idx.Repos[r.FullName]; ok {
			fmt.Println("   Already in your knowledge base")
		}
	}

	report.Rule(os.Stdout)
	fmt.Println("\nTo add a repository: kb add <owner/repo>")
	return nil
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// summaryKeywords extracts up to three search keywords from a free-text
// summary, skipping short words and common stopwords.
func summaryKeywords(summary string) []string {
	stopwords := map[string]bool{
		"a": true, "an": true, "the": true, "for": true, "and": true,
		"or": true, "but": true, "in": true, "on": true, "at": true,
		"to": true, "of": true, "with": true, "that": true, "this": true,
	}
	var keywords []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(summary), -1) {
		if len(w) <= 3 || stopwords[w] {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == 3 {
			break
		}
	}
	return keywords
}

func runSearchRelated(cmd *cobra.Command, args []string) error {
	owner, name, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := apiContext()
	defer cancel()
	client := gh.NewClient(ctx)

	var language, summary string
	var topics []string

	rec, err := repoStore().Get(key)
	switch {
	case err == nil:
		language = rec.Metadata.Language
		topics = rec.Metadata.Topics
		summary = rec.Summary
	default:
		fmt.Printf("Fetching info for %s...\n", key)
		info, err := client.GetRepo(ctx, owner, name)
		if err != nil {
			return err
		}
		language = info.Language
		topics = info.Topics
		summary = info.Description
	}

	fmt.Printf("\nFinding repositories related to: %s\n", key)
	fmt.Printf("Language: %s\n", language)
	if len(topics) > 0 {
		fmt.Printf("Topics: %s\n", strings.Join(topics, ", "))
	}
	fmt.Println()

	switch {
	case len(topics) > 0:
		limit := len(topics)
		if limit > 3 {
			limit = 3
		}
		return githubSearch(client, strings.Join(topics[:limit], " "), "", language, relatedLimit)
	case language != "":
		if keywords := summaryKeywords(summary); len(keywords) > 0 {
			return githubSearch(client, strings.Join(keywords, " "), "", language, relatedLimit)
		}
		return githubSearch(client, language, "", "", relatedLimit)
	default:
		fmt.Println("Unable to determine search criteria for related repos.")
		return nil
	}
}

// clonedRepos returns the cloned records to search, honoring the --repo
// and --tag filters. Keys are returned sorted for stable output.
func clonedRepos() ([]string, map[string]models.RepositoryRecord, error) {
	if codeRepo != "" {
		_, _, key, err := parseRepoArg(codeRepo)
		if err != nil {
			return nil, nil, err
		}
		rec, err := requireCloned(key)
		if err != nil {
			return nil, nil, err
		}
		return []string{key}, map[string]models.RepositoryRecord{key: rec}, nil
	}

	idx, err := repoStore().Load()
	if err != nil {
		return nil, nil, err
	}

	selected := map[string]models.RepositoryRecord{}
	var keys []string
	for key, rec := range idx.Repos {
		if !rec.Cloned() {
			continue
		}
		if codeTag != "" && !rec.HasTag(codeTag) {
			continue
		}
		selected[key] = rec
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, selected, nil
}

func runSearchCode(cmd *cobra.Command, args []string) error {
	pattern := args[0]

	keys, repos, err := clonedRepos()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Println("No cloned repositories to search.")
		if codeTag != "" {
			fmt.Printf("(filtered by tag: %s)\n", codeTag)
		}
		return nil
	}

	fmt.Printf("Searching for '%s' across %d repositories...\n", pattern, len(keys))
	report.Rule(os.Stdout)

	found := false
	for _, key := range keys {
		ctx, cancel := gitContext()
		out, err := git.Grep(ctx, repos[key].LocalPath, pattern, 2)
		cancel()
		if err != nil {
			if errors.Is(err, git.ErrNotCloned) {
				continue
			}
			fmt.Fprintf(os.Stderr, "Warning: search failed for %s: %v\n", key, err)
			continue
		}
		if out == "" {
			continue
		}
		found = true
		fmt.Printf("\n%s\n", key)
		fmt.Println(out)
	}

	report.Rule(os.Stdout)
	if !found {
		fmt.Println("No matches found")
	}
	return nil
}

func runSearchCompare(cmd *cobra.Command, args []string) error {
	pattern := args[2]

	var recs []models.RepositoryRecord
	var keys []string
	for _, arg := range args[:2] {
		_, _, key, err := parseRepoArg(arg)
		if err != nil {
			return err
		}
		rec, err := requireCloned(key)
		if err != nil {
			return err
		}
		keys = append(keys, key)
		recs = append(recs, rec)
	}

	fmt.Printf("Comparing '%s' implementation:\n", pattern)
	report.Rule(os.Stdout)

	for i, key := range keys {
		fmt.Printf("\n%s\n", key)
		fmt.Println(strings.Repeat("-", 80))

		ctx, cancel := gitContext()
		out, err := git.Grep(ctx, recs[i].LocalPath, pattern, 3)
		cancel()
		if err != nil {
			return err
		}
		if out == "" {
			fmt.Printf("No matches found for '%s'\n", pattern)
			continue
		}
		fmt.Println(out)
	}
	return nil
}

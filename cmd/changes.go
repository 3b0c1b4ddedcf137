package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halvard/kb/internal/classify"
	"github.com/halvard/kb/internal/config"
	"github.com/halvard/kb/internal/gh"
	"github.com/halvard/kb/internal/git"
	"github.com/halvard/kb/internal/models"
	"github.com/halvard/kb/internal/report"
	"github.com/halvard/kb/internal/scan"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Track releases, commits, and API changes",
	Long: `Track changes in repositories you care about.

Watch a repository to record a baseline, then check for updates later:
  kb changes watch golang/go
  kb changes updates`,
}

var (
	latestDetailed   bool
	changelogLines   int
	apiChangePattern string
)

var changesWatchCmd = &cobra.Command{
	Use:   "watch <owner/repo>",
	Short: "Start watching a repository for changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runChangesWatch,
}

var changesUpdatesCmd = &cobra.Command{
	Use:   "updates [owner/repo]",
	Short: "Check watched repositories for updates",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChangesUpdates,
}

var changesLatestCmd = &cobra.Command{
	Use:   "latest <owner/repo>",
	Short: "Show the latest release and recent commits",
	Args:  cobra.ExactArgs(1),
	RunE:  runChangesLatest,
}

var changesCompareCmd = &cobra.Command{
	Use:   "compare <owner/repo> <ref1> <ref2>",
	Short: "Compare two versions using the local clone",
	Args:  cobra.ExactArgs(3),
	RunE:  runChangesCompare,
}

var changesChangelogCmd = &cobra.Command{
	Use:   "changelog <owner/repo>",
	Short: "Show and analyze the repository changelog",
	Args:  cobra.ExactArgs(1),
	RunE:  runChangesChangelog,
}

var changesAPICmd = &cobra.Command{
	Use:   "api-changes <owner/repo>",
	Short: "Scan recent patches for API and naming changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runChangesAPI,
}

func init() {
	rootCmd.AddCommand(changesCmd)
	changesCmd.AddCommand(changesWatchCmd)
	changesCmd.AddCommand(changesUpdatesCmd)
	changesCmd.AddCommand(changesLatestCmd)
	changesCmd.AddCommand(changesCompareCmd)
	changesCmd.AddCommand(changesChangelogCmd)
	changesCmd.AddCommand(changesAPICmd)

	changesLatestCmd.Flags().BoolVar(&latestDetailed, "detailed", false, "Full release notes plus change analysis")
	changesChangelogCmd.Flags().IntVar(&changelogLines, "lines", 0, "Lines of changelog to print (default from config)")
	changesAPICmd.Flags().StringVar(&apiChangePattern, "pattern", "", "Limit to files matching this pattern (e.g. *.go)")
}

func runChangesWatch(cmd *cobra.Command, args []string) error {
	owner, name, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}
	if _, err := repoStore().Get(key); err != nil {
		return err
	}

	ctx, cancel := apiContext()
	defer cancel()
	client := gh.NewClient(ctx)

	observed, err := fetchObservedState(client, owner, name)
	if err != nil {
		return err
	}

	snap, err := watchStore().Watch(owner, name, observed)
	if err != nil {
		return err
	}

	fmt.Printf("Now watching %s for changes\n", key)
	fmt.Printf("  Latest release: %s\n", orDash(snap.LatestRelease))
	fmt.Printf("  Latest commit:  %s\n", orDash(snap.LatestCommit))
	return nil
}

func runChangesUpdates(cmd *cobra.Command, args []string) error {
	ctx, cancel := apiContext()
	defer cancel()
	client := gh.NewClient(ctx)
	ws := watchStore()

	if len(args) == 1 {
		owner, name, _, err := parseRepoArg(args[0])
		if err != nil {
			return err
		}
		observed, err := fetchObservedState(client, owner, name)
		if err != nil {
			return err
		}
		r, err := ws.Check(owner, name, observed)
		if err != nil {
			return err
		}
		report.Change(os.Stdout, r)
		return nil
	}

	watched, err := ws.Watched()
	if err != nil {
		return err
	}
	if len(watched) == 0 {
		fmt.Println("No repositories being watched.")
		fmt.Println("Start watching: kb changes watch <owner/repo>")
		return nil
	}

	fmt.Printf("Checking %d watched repositories...\n", len(watched))
	report.Rule(os.Stdout)

	reports, errs := ws.CheckAll(func(owner, name string) (models.ObservedState, error) {
		return fetchObservedState(client, owner, name)
	})
	for _, r := range reports {
		report.Change(os.Stdout, r)
	}
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return nil
}

func runChangesLatest(cmd *cobra.Command, args []string) error {
	owner, name, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}
	if _, err := repoStore().Get(key); err != nil {
		return err
	}

	ctx, cancel := apiContext()
	defer cancel()
	client := gh.NewClient(ctx)

	fmt.Printf("Latest Changes: %s\n", key)
	report.Rule(os.Stdout)

	fmt.Println("\nLatest Release")
	release, err := client.LatestRelease(ctx, owner, name)
	switch {
	case errors.Is(err, gh.ErrNotFound):
		fmt.Println("No releases found.")
	case err != nil:
		return err
	default:
		fmt.Printf("Version:   %s\n", release.TagName)
		if release.Name != "" {
			fmt.Printf("Name:      %s\n", release.Name)
		}
		fmt.Printf("Published: %s\n", release.PublishedAt)
		fmt.Printf("Author:    %s\n", release.Author)

		if release.Body != "" {
			fmt.Println("\nRelease Notes:")
			body := release.Body
			if !latestDetailed {
				shown, omitted := report.TruncateLines(body, config.GetReleaseLinesCap())
				body = shown
				if omitted > 0 {
					body += fmt.Sprintf("\n\n... (%d more lines)", omitted)
				}
			}
			fmt.Println(body)

			if latestDetailed {
				fmt.Println("\nChange Analysis:")
				report.Findings(os.Stdout, classify.Classify(release.Body), config.GetFindingsCap())
			}
		}
	}

	if latestDetailed {
		releases, err := client.ListReleases(ctx, owner, name, config.GetReleaseLimit())
		if err != nil {
			return err
		}
		if len(releases) > 1 {
			fmt.Println("\nRecent Releases")
			for _, r := range releases {
				fmt.Printf("  %s (%s)\n", r.TagName, r.PublishedAt)
			}
		}
	}

	fmt.Println("\nRecent Commits")
	commits, err := client.ListCommits(ctx, owner, name, config.GetCommitLimit())
	if err != nil {
		return err
	}
	for i, c := range commits {
		subject := c.Message
		if idx := strings.IndexByte(subject, '\n'); idx >= 0 {
			subject = subject[:idx]
		}
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		fmt.Printf("\n%d. %s\n", i+1, subject)
		fmt.Printf("   %s by %s on %s\n", sha, c.Author, c.Date)
	}
	return nil
}

func runChangesCompare(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}
	ref1, ref2 := args[1], args[2]

	rec, err := requireCloned(key)
	if err != nil {
		return err
	}

	fmt.Printf("Comparing Versions: %s\n", key)
	fmt.Printf("%s -> %s\n", ref1, ref2)
	report.Rule(os.Stdout)

	ctx, cancel := gitContext()
	defer cancel()

	log, err := git.Log(ctx, rec.LocalPath, ref1+".."+ref2)
	if err != nil {
		return err
	}
	fmt.Println("\nCommits between versions:")
	fmt.Println(log)

	stat, err := git.DiffStat(ctx, rec.LocalPath, ref1, ref2)
	if err != nil {
		return err
	}
	fmt.Println("File changes:")
	fmt.Println(stat)

	if findings := classify.Classify(log); !findings.Empty() {
		fmt.Println("Change Analysis:")
		report.Findings(os.Stdout, findings, config.GetFindingsCap())
	}
	return nil
}

func runChangesChangelog(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	rec, err := requireCloned(key)
	if err != nil {
		return err
	}

	changelog, path, ok := scan.FindChangelog(rec.LocalPath)
	if !ok {
		fmt.Printf("No CHANGELOG found for %s\n", key)
		fmt.Printf("Try: kb changes latest %s\n", key)
		return nil
	}

	fmt.Printf("CHANGELOG: %s\n", key)
	report.Rule(os.Stdout)

	limit := changelogLines
	if limit <= 0 {
		limit = config.GetReleaseLinesCap() * 2
	}
	shown, omitted := report.TruncateLines(changelog, limit)
	fmt.Println(shown)
	if omitted > 0 {
		fmt.Printf("\n... (%d more lines)\n", omitted)
		fmt.Printf("View the full changelog in: %s\n", path)
	}

	fmt.Println("\nChangelog Analysis:")
	report.Findings(os.Stdout, classify.Classify(changelog), config.GetFindingsCap())
	return nil
}

func runChangesAPI(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	rec, err := requireCloned(key)
	if err != nil {
		return err
	}

	fmt.Printf("API Change Tracking: %s\n", key)
	report.Rule(os.Stdout)

	ctx, cancel := logContext()
	defer cancel()

	patterns := []string{"*.go", "*.ts", "*.js", "*.py", "*.rs", "*.java"}
	if apiChangePattern != "" {
		patterns = []string{apiChangePattern}
	}

	found := false
	for _, pattern := range patterns {
		patches, err := git.LogPatches(ctx, rec.LocalPath, 10, pattern)
		if err != nil {
			return err
		}
		if patches == "" {
			continue
		}

		findings := classify.Classify(patches)
		renames := findings[classify.Naming]
		apiHits := findings[classify.API]
		if len(renames) == 0 && len(apiHits) == 0 {
			continue
		}

		found = true
		fmt.Printf("\nDetected changes in %s files:\n", pattern)
		for _, r := range bounded(renames, config.GetFindingsCap()) {
			fmt.Printf("  - %s\n", r)
		}
		for _, a := range bounded(apiHits, config.GetFindingsCap()) {
			fmt.Printf("  - %s\n", a)
		}
	}
	if !found {
		fmt.Println("\nNo API or naming changes detected in recent patches.")
	}
	return nil
}

func bounded(items []string, cap int) []string {
	if cap > 0 && len(items) > cap {
		return items[:cap]
	}
	return items
}

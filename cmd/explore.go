package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/halvard/kb/internal/config"
	"github.com/halvard/kb/internal/git"
	"github.com/halvard/kb/internal/models"
	"github.com/halvard/kb/internal/report"
	"github.com/halvard/kb/internal/scan"
	"github.com/halvard/kb/internal/store"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Clone, sync, and analyze repositories locally",
}

var (
	cloneDepth int
	treeDepth  int
)

var exploreCloneCmd = &cobra.Command{
	Use:   "clone <owner/repo>",
	Short: "Clone a repository into the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runExploreClone,
}

var exploreSyncCmd = &cobra.Command{
	Use:   "sync <owner/repo>",
	Short: "Pull the latest changes into the local clone",
	Args:  cobra.ExactArgs(1),
	RunE:  runExploreSync,
}

var exploreAnalyzeCmd = &cobra.Command{
	Use:   "analyze <owner/repo>",
	Short: "Analyze the repository structure and record key files",
	Args:  cobra.ExactArgs(1),
	RunE:  runExploreAnalyze,
}

var exploreTreeCmd = &cobra.Command{
	Use:   "tree <owner/repo>",
	Short: "Print the repository directory tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runExploreTree,
}

var exploreReadmeCmd = &cobra.Command{
	Use:   "readme <owner/repo>",
	Short: "Print the repository README",
	Args:  cobra.ExactArgs(1),
	RunE:  runExploreReadme,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.AddCommand(exploreCloneCmd)
	exploreCmd.AddCommand(exploreSyncCmd)
	exploreCmd.AddCommand(exploreAnalyzeCmd)
	exploreCmd.AddCommand(exploreTreeCmd)
	exploreCmd.AddCommand(exploreReadmeCmd)

	exploreCloneCmd.Flags().IntVar(&cloneDepth, "depth", 0, "Shallow clone depth (0 = full history)")
	exploreTreeCmd.Flags().IntVar(&treeDepth, "depth", 2, "Directory depth to print")
}

func runExploreClone(cmd *cobra.Command, args []string) error {
	owner, name, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	s := repoStore()
	rec, err := s.Get(key)
	if err != nil {
		return err
	}

	dest := s.Layout.RepoPath(owner, name)
	if git.IsCloned(dest) {
		fmt.Printf("Repository '%s' already cloned at: %s\n", key, dest)
		fmt.Printf("To update, use: kb explore sync %s\n", key)
		return nil
	}

	fmt.Printf("Cloning %s...\n", key)
	fmt.Printf("Target: %s\n", dest)

	ctx, cancel := cloneContext()
	defer cancel()
	if err := git.Clone(ctx, rec.URL, dest, cloneDepth); err != nil {
		return err
	}

	now := store.Now()
	rec.LocalPath = dest
	rec.LastSynced = &now
	if err := s.Upsert(key, rec); err != nil {
		return err
	}

	fmt.Printf("Successfully cloned %s\n", key)
	fmt.Println("\nAnalyzing repository structure...")
	return analyzeAndSave(s, key, rec)
}

func runExploreSync(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	rec, err := requireCloned(key)
	if err != nil {
		return err
	}

	fmt.Printf("Syncing %s...\n", key)

	ctx, cancel := gitContext()
	defer cancel()
	out, err := git.Pull(ctx, rec.LocalPath)
	if err != nil {
		return err
	}
	fmt.Print(out)

	now := store.Now()
	rec.LastSynced = &now
	if err := repoStore().Upsert(key, rec); err != nil {
		return err
	}

	fmt.Printf("Successfully synced %s\n", key)
	return nil
}

func runExploreAnalyze(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	rec, err := requireCloned(key)
	if err != nil {
		return err
	}

	fmt.Printf("Analyzing %s...\n", key)
	report.Rule(os.Stdout)
	return analyzeAndSave(repoStore(), key, rec)
}

// analyzeAndSave walks the working copy, prints the summary, and rewrites
// the record's key_files.
func analyzeAndSave(s *store.RepoStore, key string, rec models.RepositoryRecord) error {
	analysis, err := scan.Analyze(rec.LocalPath, config.GetKeyFilesCap())
	if err != nil {
		return fmt.Errorf("failed to analyze repository: %w", err)
	}

	fmt.Println("\nTop-level directories:")
	for _, d := range analysis.TopDirs {
		fmt.Printf("  %s/ (%d files)\n", d.Name, d.Files)
	}

	fmt.Println("\nKey files found:")
	shown := analysis.KeyFiles
	if len(shown) > 20 {
		shown = shown[:20]
	}
	for _, kf := range shown {
		fmt.Printf("  %s\n", kf)
	}
	if len(analysis.KeyFiles) > len(shown) {
		fmt.Printf("  ... and %d more\n", len(analysis.KeyFiles)-len(shown))
	}

	fmt.Println("\nFile type distribution:")
	exts := make([]string, 0, len(analysis.FileCounts))
	for ext := range analysis.FileCounts {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if analysis.FileCounts[exts[i]] != analysis.FileCounts[exts[j]] {
			return analysis.FileCounts[exts[i]] > analysis.FileCounts[exts[j]]
		}
		return exts[i] < exts[j]
	})
	if len(exts) > 10 {
		exts = exts[:10]
	}
	for _, ext := range exts {
		fmt.Printf("  %s: %d\n", ext, analysis.FileCounts[ext])
	}

	rec.KeyFiles = analysis.KeyFiles
	if err := s.Upsert(key, rec); err != nil {
		return err
	}
	fmt.Println("\nAnalysis complete. Key files saved to index.")
	return nil
}

func runExploreTree(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	rec, err := requireCloned(key)
	if err != nil {
		return err
	}

	fmt.Printf("Repository tree: %s\n", key)
	report.Rule(os.Stdout)
	fmt.Print(scan.Tree(rec.LocalPath, treeDepth))
	return nil
}

func runExploreReadme(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	rec, err := requireCloned(key)
	if err != nil {
		return err
	}

	readme, path, ok := scan.FindReadme(rec.LocalPath)
	if !ok {
		fmt.Printf("No README found in %s\n", key)
		return nil
	}

	fmt.Printf("README: %s\n", key)
	report.Rule(os.Stdout)

	shown, omitted := report.TruncateLines(readme, 100)
	fmt.Println(shown)
	if omitted > 0 {
		fmt.Printf("\n... (%d more lines)\n", omitted)
		fmt.Printf("Full file: %s\n", path)
	}
	return nil
}

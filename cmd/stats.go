package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	idx, err := repoStore().Load()
	if err != nil {
		return err
	}

	fmt.Println("\nKnowledge Base Statistics")
	fmt.Printf("  Repositories: %d\n", len(idx.Repos))

	if len(idx.Repos) == 0 {
		return nil
	}

	byStatus := map[string]int{}
	byLanguage := map[string]int{}
	tagCounts := map[string]int{}
	cloned := 0
	for _, rec := range idx.Repos {
		byStatus[string(rec.Status)]++
		if rec.Metadata.Language != "" {
			byLanguage[rec.Metadata.Language]++
		}
		for _, t := range rec.Tags {
			tagCounts[t]++
		}
		if rec.Cloned() {
			cloned++
		}
	}
	fmt.Printf("  Cloned:       %d\n", cloned)

	fmt.Println("\nBy status:")
	for _, status := range []string{"bookmarked", "exploring", "explored", "archived"} {
		if n := byStatus[status]; n > 0 {
			fmt.Printf("  %-12s %d\n", status, n)
		}
	}

	if len(byLanguage) > 0 {
		fmt.Println("\nBy language:")
		for _, lang := range sortedKeys(byLanguage) {
			fmt.Printf("  %-12s %d\n", lang, byLanguage[lang])
		}
	}

	if len(tagCounts) > 0 {
		fmt.Println("\nTags:")
		for _, tag := range sortedKeys(tagCounts) {
			fmt.Printf("  %-12s %d\n", tag, tagCounts[tag])
		}
	}

	watched, err := watchStore().Watched()
	if err == nil && len(watched) > 0 {
		fmt.Printf("\nWatched for changes: %d\n", len(watched))
	}

	docIdx, err := docStore().Load()
	if err == nil && len(docIdx.PDFs) > 0 {
		totalTokens := 0
		summarized := 0
		for _, doc := range docIdx.PDFs {
			totalTokens += doc.EstimatedTokens
			if doc.HasSummary {
				summarized++
			}
		}
		fmt.Printf("\nDocuments: %d (%d summarized, ~%d tokens)\n",
			len(docIdx.PDFs), summarized, totalTokens)
	}

	if idx.LastUpdated != "" {
		fmt.Printf("\nLast updated: %s\n", idx.LastUpdated)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

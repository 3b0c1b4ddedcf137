package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"
)

var (
	listTag    string
	listStatus string
	listJSON   bool
	listToon   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List repositories in the knowledge base",
	Long: `List repositories with optional filtering.

Examples:
  kb list
  kb list --tag web
  kb list --status exploring
  kb list --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output in LLM-friendly toon format")
}

type repoListing struct {
	Key      string   `json:"repo"`
	Summary  string   `json:"summary"`
	Status   string   `json:"status"`
	Stars    int      `json:"stars"`
	Language string   `json:"language"`
	Tags     []string `json:"tags,omitempty"`
	Cloned   bool     `json:"cloned"`
	AddedAt  string   `json:"added_at"`
}

func runList(cmd *cobra.Command, args []string) error {
	idx, err := repoStore().Load()
	if err != nil {
		return err
	}

	if len(idx.Repos) == 0 {
		fmt.Println("Knowledge base is empty.")
		fmt.Println("\nGet started:")
		fmt.Println("  kb add <owner/repo>")
		fmt.Println("  kb search github \"topic\"")
		return nil
	}

	var listings []repoListing
	for key, rec := range idx.Repos {
		if listTag != "" && !rec.HasTag(listTag) {
			continue
		}
		if listStatus != "" && string(rec.Status) != listStatus {
			continue
		}
		listings = append(listings, repoListing{
			Key:      key,
			Summary:  rec.Summary,
			Status:   string(rec.Status),
			Stars:    rec.Metadata.Stars,
			Language: rec.Metadata.Language,
			Tags:     rec.Tags,
			Cloned:   rec.Cloned(),
			AddedAt:  rec.AddedAt,
		})
	}

	if len(listings) == 0 {
		switch {
		case listTag != "":
			fmt.Printf("No repositories found with tag '%s'\n", listTag)
		case listStatus != "":
			fmt.Printf("No repositories found with status '%s'\n", listStatus)
		}
		return nil
	}

	// Newest first
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].AddedAt > listings[j].AddedAt
	})

	if listJSON {
		output, err := json.MarshalIndent(listings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if listToon {
		output, err := gotoon.Encode(listings)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Printf("\nGitHub Knowledge Base (%d repositories)\n", len(listings))
	for _, l := range listings {
		cloned := "remote"
		if l.Cloned {
			cloned = "cloned"
		}
		fmt.Printf("\n%s [%s, %s]\n", l.Key, l.Status, cloned)
		if l.Summary != "" {
			fmt.Printf("   %s\n", l.Summary)
		}
		if len(l.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(l.Tags, ", "))
		}
		lang := l.Language
		if lang == "" {
			lang = "N/A"
		}
		fmt.Printf("   Stars: %d | Language: %s\n", l.Stars, lang)
	}

	allTags := map[string]bool{}
	for _, rec := range idx.Repos {
		for _, t := range rec.Tags {
			allTags[t] = true
		}
	}
	if len(allTags) > 0 {
		var tags []string
		for t := range allTags {
			tags = append(tags, t)
		}
		sort.Strings(tags)
		fmt.Printf("\nAvailable tags: %s\n", strings.Join(tags, ", "))
	}

	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halvard/kb/internal/gh"
	"github.com/halvard/kb/internal/models"
)

var addCmd = &cobra.Command{
	Use:   "add <owner/repo>",
	Short: "Add a repository to the knowledge base",
	Long: `Add a repository to the knowledge base.

The identifier may be a full URL or the short owner/repo form:
  kb add facebook/react
  kb add https://github.com/facebook/react`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	owner, name, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	s := repoStore()
	idx, err := s.Load()
	if err != nil {
		return err
	}

	if _, exists := idx.Repos[key]; exists {
		fmt.Printf("Repository '%s' already exists in knowledge base.\n", key)
		fmt.Printf("Use 'kb info %s' to view details.\n", key)
		return nil
	}

	fmt.Println("Fetching repository info from GitHub...")
	ctx, cancel := apiContext()
	defer cancel()

	info, err := gh.NewClient(ctx).GetRepo(ctx, owner, name)
	if err != nil {
		return err
	}

	rec := s.NewRepositoryRecord(owner, name, info.Description, models.RepoMetadata{
		Stars:         info.Stars,
		Language:      info.Language,
		Topics:        info.Topics,
		DefaultBranch: info.DefaultBranch,
	})

	idx.Repos[key] = rec
	if err := s.Save(idx); err != nil {
		return err
	}

	fmt.Printf("\nAdded '%s' to knowledge base\n", key)
	fmt.Printf("  Summary: %s\n", rec.Summary)
	fmt.Printf("  Stars: %d\n", rec.Metadata.Stars)
	fmt.Printf("  Language: %s\n", rec.Metadata.Language)
	fmt.Printf("  Status: %s\n", rec.Status)

	fmt.Println("\nNext steps:")
	if rec.Metadata.Stars > 50000 {
		fmt.Printf("  kb explore clone %s --depth 1   (shallow, large repo)\n", key)
	} else {
		fmt.Printf("  kb explore clone %s\n", key)
	}
	fmt.Printf("  kb tag %s <tag1> <tag2>\n", key)
	fmt.Printf("  kb changes watch %s\n", key)

	return nil
}

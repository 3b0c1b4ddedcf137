package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <owner/repo>",
	Short: "Remove a repository from the knowledge base",
	Long: `Remove a repository record from the index.

The local clone and notes file are never deleted; the store and the
filesystem are deliberately decoupled.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	owner, name, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	s := repoStore()
	if err := s.Remove(key); err != nil {
		return err
	}

	fmt.Printf("Removed '%s' from knowledge base\n", key)
	fmt.Println("  Note: local clone and notes were not deleted.")
	fmt.Println("  To remove completely, delete:")
	fmt.Printf("    - %s\n", s.Layout.RepoPath(owner, name))
	fmt.Printf("    - %s\n", s.Layout.NotesFile(owner, name))
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halvard/kb/internal/store"
)

var tagCmd = &cobra.Command{
	Use:   "tag <owner/repo> <tag>...",
	Short: "Add tags to a repository",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}
	tags := args[1:]

	s := repoStore()
	rec, err := s.Get(key)
	if err != nil {
		return err
	}

	rec.Tags = store.MergeTags(rec.Tags, tags)
	if err := s.Upsert(key, rec); err != nil {
		return err
	}

	fmt.Printf("Tagged '%s' with: %s\n", key, strings.Join(tags, ", "))
	fmt.Printf("  All tags: %s\n", strings.Join(rec.Tags, ", "))
	return nil
}

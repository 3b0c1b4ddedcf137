package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halvard/kb/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status <owner/repo> <bookmarked|exploring|explored|archived>",
	Short: "Set the exploration status of a repository",
	Args:  cobra.ExactArgs(2),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	status := models.Status(args[1])
	if !models.ValidStatus(status) {
		return fmt.Errorf("invalid status %q (must be: bookmarked, exploring, explored, archived)", args[1])
	}

	s := repoStore()
	rec, err := s.Get(key)
	if err != nil {
		return err
	}

	rec.Status = status
	if err := s.Upsert(key, rec); err != nil {
		return err
	}

	fmt.Printf("Set status of '%s' to '%s'\n", key, status)
	return nil
}

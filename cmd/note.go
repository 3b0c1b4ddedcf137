package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note <owner/repo> <text>",
	Short: "Add or update notes for a repository",
	Long: `Add or update notes for a repository.

The note is stored in the index and mirrored into a companion markdown
file under the notes directory.`,
	Args: cobra.ExactArgs(2),
	RunE: runNote,
}

func init() {
	rootCmd.AddCommand(noteCmd)
}

func runNote(cmd *cobra.Command, args []string) error {
	owner, name, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}
	note := args[1]

	s := repoStore()
	rec, err := s.Get(key)
	if err != nil {
		return err
	}

	rec.Notes = note
	if err := s.Upsert(key, rec); err != nil {
		return err
	}

	notesFile, err := s.WriteNotesFile(owner, name, key, note)
	if err != nil {
		return err
	}

	fmt.Printf("Added notes to '%s'\n", key)
	fmt.Printf("  Notes file: %s\n", notesFile)
	return nil
}

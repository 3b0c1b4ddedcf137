package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <owner/repo>",
	Short: "Show everything recorded about a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	owner, name, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	s := repoStore()
	rec, err := s.Get(key)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", key)
	fmt.Println(strings.Repeat("-", len(key)))
	fmt.Printf("URL:      %s\n", rec.URL)
	fmt.Printf("Status:   %s\n", rec.Status)
	fmt.Printf("Added:    %s\n", rec.AddedAt)
	if rec.Summary != "" {
		fmt.Printf("Summary:  %s\n", rec.Summary)
	}
	lang := rec.Metadata.Language
	if lang == "" {
		lang = "N/A"
	}
	fmt.Printf("Stars:    %d\n", rec.Metadata.Stars)
	fmt.Printf("Language: %s\n", lang)
	if rec.Metadata.DefaultBranch != "" {
		fmt.Printf("Branch:   %s\n", rec.Metadata.DefaultBranch)
	}
	if len(rec.Metadata.Topics) > 0 {
		fmt.Printf("Topics:   %s\n", strings.Join(rec.Metadata.Topics, ", "))
	}
	if len(rec.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(rec.Tags, ", "))
	}
	if rec.Notes != "" {
		fmt.Printf("Notes:    %s\n", rec.Notes)
	}

	if rec.Cloned() {
		fmt.Printf("Clone:    %s\n", rec.LocalPath)
		if rec.LastSynced != nil {
			fmt.Printf("Synced:   %s\n", *rec.LastSynced)
		}
	} else {
		fmt.Println("Clone:    not cloned (kb explore clone " + key + ")")
	}

	if len(rec.KeyFiles) > 0 {
		fmt.Printf("\nKey files (%d):\n", len(rec.KeyFiles))
		for _, f := range rec.KeyFiles {
			fmt.Printf("  %s\n", f)
		}
	}

	if snap, err := watchStore().Snapshot(owner, name); err == nil {
		fmt.Println("\nWatched:")
		fmt.Printf("  Last checked:   %s\n", snap.LastChecked)
		fmt.Printf("  Latest release: %s\n", orDash(snap.LatestRelease))
		fmt.Printf("  Latest commit:  %s\n", orDash(snap.LatestCommit))
	}

	notesFile := s.Layout.NotesFile(owner, name)
	if _, err := os.Stat(notesFile); err == nil {
		fmt.Printf("\nNotes file: %s\n", notesFile)
	}

	return nil
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

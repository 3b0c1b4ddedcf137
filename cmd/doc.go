package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halvard/kb/internal/models"
	"github.com/halvard/kb/internal/report"
	"github.com/halvard/kb/internal/scan"
	"github.com/halvard/kb/internal/store"
)

// largePDFThreshold is the token estimate above which a summary is
// suggested on add.
const largePDFThreshold = 50000

// summaryTokenCeiling bounds the suggested summary size regardless of
// document length.
const summaryTokenCeiling = 2500

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage PDFs and other reference documents",
	Long: `Manage reference documents in the knowledge base.

Documents are copied into the notes directory and indexed with size-based
token estimates, so you can judge the reading cost before opening one.`,
}

var (
	docAddTitle  string
	docAddTags   []string
	docAddSource string
	docListTag   string
)

var docAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Copy a PDF into the knowledge base and index it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocAdd,
}

var docRemoveCmd = &cobra.Command{
	Use:   "remove <filename>",
	Short: "Remove a document, its copy, and its summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocRemove,
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	RunE:  runDocList,
}

var docInfoCmd = &cobra.Command{
	Use:   "info <filename>",
	Short: "Show everything recorded about a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocInfo,
}

var docTagCmd = &cobra.Command{
	Use:   "tag <filename> <tag>...",
	Short: "Add tags to a document",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDocTag,
}

var docSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents by title, filename, or tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocSearch,
}

var docScanRepoCmd = &cobra.Command{
	Use:   "scan-repo <owner/repo>",
	Short: "Find PDFs inside a cloned repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocScanRepo,
}

var docSummarizeCmd = &cobra.Command{
	Use:   "summarize <filename>",
	Short: "Create a structured summary template for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocSummarize,
}

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.AddCommand(docAddCmd)
	docCmd.AddCommand(docRemoveCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docInfoCmd)
	docCmd.AddCommand(docTagCmd)
	docCmd.AddCommand(docSearchCmd)
	docCmd.AddCommand(docScanRepoCmd)
	docCmd.AddCommand(docSummarizeCmd)

	docAddCmd.Flags().StringVar(&docAddTitle, "title", "", "Title (also used for the destination filename)")
	docAddCmd.Flags().StringSliceVar(&docAddTags, "tags", nil, "Tags to attach")
	docAddCmd.Flags().StringVar(&docAddSource, "source", "local", "Where the document came from")
	docListCmd.Flags().StringVar(&docListTag, "tag", "", "Filter by tag")
}

// destFilename derives the destination filename from an optional title,
// keeping only filesystem-safe characters.
func destFilename(sourcePath, title string) string {
	if title == "" {
		return filepath.Base(sourcePath)
	}
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-") + ".pdf"
}

func runDocAdd(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]

	info, err := os.Stat(sourcePath)
	if err != nil {
		return fmt.Errorf("document not found: %s", sourcePath)
	}
	if !strings.EqualFold(filepath.Ext(sourcePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", sourcePath)
	}

	s := docStore()
	filename := destFilename(sourcePath, docAddTitle)

	idx, err := s.Load()
	if err != nil {
		return err
	}
	if _, exists := idx.PDFs[filename]; exists {
		fmt.Printf("Document '%s' already exists in knowledge base.\n", filename)
		fmt.Println("Remove it first or choose a different title.")
		return nil
	}

	if err := s.Layout.Init(); err != nil {
		return err
	}
	destPath := filepath.Join(s.Layout.NotesDir(), filename)

	fmt.Println("Adding document to knowledge base...")
	if err := copyFile(sourcePath, destPath); err != nil {
		return err
	}

	hash, err := store.FileHash(destPath)
	if err != nil {
		return err
	}

	title := docAddTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	}

	size := info.Size()
	rec := models.DocumentRecord{
		Filename:        filename,
		Title:           title,
		OriginalPath:    sourcePath,
		LocalPath:       destPath,
		AddedAt:         store.Now(),
		Tags:            store.MergeTags(nil, docAddTags),
		Source:          docAddSource,
		FileHash:        hash,
		SizeKB:          float64(size) / 1024,
		EstimatedPages:  models.EstimatePages(size),
		EstimatedTokens: models.EstimateTokens(size),
	}

	if err := s.Upsert(filename, rec); err != nil {
		return err
	}

	fmt.Println("\nAdded document to knowledge base")
	fmt.Printf("  Title: %s\n", rec.Title)
	fmt.Printf("  Filename: %s\n", filename)
	fmt.Printf("  Size: %.2f KB\n", rec.SizeKB)
	fmt.Printf("  Estimated pages: ~%d\n", rec.EstimatedPages)
	fmt.Printf("  Estimated tokens: ~%d\n", rec.EstimatedTokens)
	if len(rec.Tags) > 0 {
		fmt.Printf("  Tags: %s\n", strings.Join(rec.Tags, ", "))
	}

	if rec.EstimatedTokens > largePDFThreshold {
		fmt.Println("\nLarge document detected.")
		fmt.Printf("Reading it in full costs roughly %d tokens; consider:\n", rec.EstimatedTokens)
		fmt.Printf("  kb doc summarize %s\n", filename)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	return out.Close()
}

func runDocRemove(cmd *cobra.Command, args []string) error {
	rec, err := docStore().Remove(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Removed document '%s'\n", rec.Filename)
	fmt.Println("  Copied file and summary (if any) were deleted.")
	return nil
}

func runDocList(cmd *cobra.Command, args []string) error {
	idx, err := docStore().Load()
	if err != nil {
		return err
	}

	if len(idx.PDFs) == 0 {
		fmt.Println("No documents in knowledge base.")
		fmt.Println("Add one: kb doc add <path.pdf>")
		return nil
	}

	filenames := make([]string, 0, len(idx.PDFs))
	for f := range idx.PDFs {
		filenames = append(filenames, f)
	}
	sort.Strings(filenames)

	shown := 0
	totalTokens := 0
	for _, f := range filenames {
		rec := idx.PDFs[f]
		if docListTag != "" && !rec.HasTag(docListTag) {
			continue
		}
		shown++
		totalTokens += rec.EstimatedTokens

		fmt.Printf("\n%s\n", rec.Title)
		fmt.Printf("   %s | %.2f KB | ~%d pages | ~%d tokens\n",
			rec.Filename, rec.SizeKB, rec.EstimatedPages, rec.EstimatedTokens)
		if len(rec.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(rec.Tags, ", "))
		}
		if rec.HasSummary {
			fmt.Printf("   Summary: %s (~%d tokens)\n", rec.SummaryPath, rec.SummaryTokens)
		}
	}

	if shown == 0 {
		fmt.Printf("No documents found with tag '%s'\n", docListTag)
		return nil
	}
	fmt.Printf("\nTotal: %d documents | ~%d tokens if all read\n", shown, totalTokens)
	return nil
}

func runDocInfo(cmd *cobra.Command, args []string) error {
	rec, err := docStore().Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", rec.Title)
	fmt.Println(strings.Repeat("-", len(rec.Title)))
	fmt.Printf("Filename:  %s\n", rec.Filename)
	fmt.Printf("Added:     %s\n", rec.AddedAt)
	fmt.Printf("Source:    %s\n", rec.Source)
	fmt.Printf("Original:  %s\n", rec.OriginalPath)
	fmt.Printf("Local:     %s\n", rec.LocalPath)
	fmt.Printf("Hash:      %s\n", rec.FileHash)
	fmt.Printf("Size:      %.2f KB\n", rec.SizeKB)
	fmt.Printf("Pages:     ~%d\n", rec.EstimatedPages)
	fmt.Printf("Tokens:    ~%d\n", rec.EstimatedTokens)
	if len(rec.Tags) > 0 {
		fmt.Printf("Tags:      %s\n", strings.Join(rec.Tags, ", "))
	}

	if rec.HasSummary {
		fmt.Printf("\nSummary:   %s (~%d tokens)\n", rec.SummaryPath, rec.SummaryTokens)
		return nil
	}

	switch {
	case rec.EstimatedTokens > largePDFThreshold:
		fmt.Printf("\nLarge document (~%d tokens); a summary is recommended:\n", rec.EstimatedTokens)
		fmt.Printf("  kb doc summarize %s\n", rec.Filename)
	case rec.EstimatedTokens > largePDFThreshold/5:
		fmt.Printf("\nMedium document (~%d tokens); consider a summary:\n", rec.EstimatedTokens)
		fmt.Printf("  kb doc summarize %s\n", rec.Filename)
	}
	return nil
}

func runDocTag(cmd *cobra.Command, args []string) error {
	filename := args[0]
	tags := args[1:]

	s := docStore()
	rec, err := s.Get(filename)
	if err != nil {
		return err
	}

	rec.Tags = store.MergeTags(rec.Tags, tags)
	if err := s.Upsert(filename, rec); err != nil {
		return err
	}

	fmt.Printf("Tagged '%s' with: %s\n", filename, strings.Join(tags, ", "))
	fmt.Printf("  All tags: %s\n", strings.Join(rec.Tags, ", "))
	return nil
}

func runDocSearch(cmd *cobra.Command, args []string) error {
	query := strings.ToLower(args[0])

	idx, err := docStore().Load()
	if err != nil {
		return err
	}

	var matches []models.DocumentRecord
	for filename, rec := range idx.PDFs {
		hit := strings.Contains(strings.ToLower(filename), query) ||
			strings.Contains(strings.ToLower(rec.Title), query)
		for _, t := range rec.Tags {
			if strings.Contains(strings.ToLower(t), query) {
				hit = true
			}
		}
		if hit {
			matches = append(matches, rec)
		}
	}

	if len(matches) == 0 {
		fmt.Printf("No documents found matching '%s'\n", args[0])
		return nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Filename < matches[j].Filename })

	fmt.Printf("\nFound %d document(s) matching '%s'\n", len(matches), args[0])
	report.Rule(os.Stdout)
	for _, rec := range matches {
		fmt.Printf("\n%s\n", rec.Title)
		fmt.Printf("   %s | ~%d tokens\n", rec.Filename, rec.EstimatedTokens)
		if len(rec.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(rec.Tags, ", "))
		}
		fmt.Printf("   Path: %s\n", rec.LocalPath)
	}
	return nil
}

func runDocScanRepo(cmd *cobra.Command, args []string) error {
	_, _, key, err := parseRepoArg(args[0])
	if err != nil {
		return err
	}

	rec, err := requireCloned(key)
	if err != nil {
		return err
	}

	pdfs, err := scan.FindPDFs(rec.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to scan for PDFs: %w", err)
	}
	if len(pdfs) == 0 {
		fmt.Printf("No PDFs found in %s\n", key)
		return nil
	}

	fmt.Printf("\nFound %d PDF(s) in %s\n", len(pdfs), key)
	report.Rule(os.Stdout)

	totalTokens := 0
	for _, rel := range pdfs {
		full := filepath.Join(rec.LocalPath, rel)
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		tokens := models.EstimateTokens(info.Size())
		totalTokens += tokens

		fmt.Printf("\n%s\n", rel)
		fmt.Printf("   Size: %.2f KB | ~%d pages | ~%d tokens\n",
			float64(info.Size())/1024, models.EstimatePages(info.Size()), tokens)
		fmt.Printf("   Path: %s\n", full)
	}

	report.Rule(os.Stdout)
	fmt.Printf("Total: %d PDFs | ~%d tokens if all read\n", len(pdfs), totalTokens)
	fmt.Println("\nTo add PDFs from this repo:")
	limit := len(pdfs)
	if limit > 3 {
		limit = 3
	}
	for _, rel := range pdfs[:limit] {
		fmt.Printf("  kb doc add %q --source %s\n", filepath.Join(rec.LocalPath, rel), key)
	}
	return nil
}

func runDocSummarize(cmd *cobra.Command, args []string) error {
	filename := args[0]

	s := docStore()
	rec, err := s.Get(filename)
	if err != nil {
		return err
	}

	summaryPath := strings.TrimSuffix(rec.LocalPath, filepath.Ext(rec.LocalPath)) + ".summary.md"

	target := rec.EstimatedTokens * 15 / 100
	if target > summaryTokenCeiling {
		target = summaryTokenCeiling
	}

	template := summaryTemplate(rec, target)
	if err := os.WriteFile(summaryPath, []byte(template), 0644); err != nil {
		return fmt.Errorf("failed to write summary template: %w", err)
	}

	rec.HasSummary = true
	rec.SummaryPath = summaryPath
	rec.SummaryTokens = target
	if err := s.Upsert(filename, rec); err != nil {
		return err
	}

	fmt.Printf("Created summary template: %s\n", summaryPath)
	fmt.Printf("  Target size: ~%d tokens (document is ~%d)\n", target, rec.EstimatedTokens)
	fmt.Println("  Fill in the sections, then the summary replaces full reads.")
	return nil
}

// summaryTemplate renders the fill-in skeleton written by summarize. The
// sections mirror how a dense technical document is usually skimmed.
func summaryTemplate(rec models.DocumentRecord, targetTokens int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Structured Summary: %s\n\n", rec.Title)
	fmt.Fprintf(&b, "**Source**: %s (~%d pages, ~%d tokens)\n", rec.Filename, rec.EstimatedPages, rec.EstimatedTokens)
	fmt.Fprintf(&b, "**This Summary**: ~%d tokens | **Token Savings**: ~%d\n\n", targetTokens, rec.EstimatedTokens-targetTokens)
	b.WriteString("## Core Thesis\n\n")
	b.WriteString("_2-3 sentences: what is this document about and why does it matter?_\n\n")
	b.WriteString("## Key Concepts\n\n")
	b.WriteString("_Bullet the main ideas, one line each._\n\n")
	b.WriteString("## Practical Takeaways\n\n")
	b.WriteString("_What would you actually do differently after reading this?_\n\n")
	b.WriteString("## Notable Quotes / References\n\n")
	b.WriteString("_Page-referenced passages worth returning to._\n\n")
	b.WriteString("## When to Read the Full Document\n\n")
	b.WriteString("_Which questions does this summary not answer?_\n")
	return b.String()
}

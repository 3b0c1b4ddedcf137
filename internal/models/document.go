package models

// Size heuristics for PDFs. The tool never parses PDF content; estimates
// are derived from byte size only.
const (
	// TokensPerKB approximates tokens in a text-heavy PDF per kilobyte.
	TokensPerKB = 150
	// BytesPerPage approximates the byte cost of one typical PDF page.
	BytesPerPage = 50 * 1024
)

// DocumentRecord is one entry in the document index, keyed by the
// destination filename.
type DocumentRecord struct {
	Filename        string   `json:"filename"`
	Title           string   `json:"title"`
	OriginalPath    string   `json:"original_path"`
	LocalPath       string   `json:"local_path"`
	AddedAt         string   `json:"added_at"`
	Tags            []string `json:"tags"`
	Source          string   `json:"source"`
	FileHash        string   `json:"file_hash"`
	SizeKB          float64  `json:"size_kb"`
	EstimatedPages  int      `json:"estimated_pages"`
	EstimatedTokens int      `json:"estimated_tokens"`
	HasSummary      bool     `json:"has_summary"`
	SummaryPath     string   `json:"summary_path,omitempty"`
	SummaryTokens   int      `json:"summary_tokens,omitempty"`
}

// HasTag reports whether the document carries the given tag.
func (d *DocumentRecord) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// EstimateTokens converts a byte size into an approximate token count.
func EstimateTokens(sizeBytes int64) int {
	return int(float64(sizeBytes) / 1024 * TokensPerKB)
}

// EstimatePages converts a byte size into an approximate page count,
// never less than 1.
func EstimatePages(sizeBytes int64) int {
	pages := int(sizeBytes / BytesPerPage)
	if pages < 1 {
		return 1
	}
	return pages
}

package models

import "fmt"

// Status is the exploration lifecycle of a repository. Transitions are not
// enforced; any status may move to any other.
type Status string

const (
	StatusBookmarked Status = "bookmarked"
	StatusExploring  Status = "exploring"
	StatusExplored   Status = "explored"
	StatusArchived   Status = "archived"
)

// ValidStatus reports whether s is one of the known lifecycle values.
func ValidStatus(s Status) bool {
	switch s {
	case StatusBookmarked, StatusExploring, StatusExplored, StatusArchived:
		return true
	default:
		return false
	}
}

// RepoMetadata is a point-in-time snapshot of remote metadata, fetched once
// at add-time and not refreshed automatically.
type RepoMetadata struct {
	Stars         int      `json:"stars"`
	Language      string   `json:"language"`
	Topics        []string `json:"topics"`
	DefaultBranch string   `json:"default_branch"`
}

// RepositoryRecord is one entry in the repository index, keyed by
// "owner/name".
type RepositoryRecord struct {
	URL        string       `json:"url"`
	AddedAt    string       `json:"added_at"`
	Tags       []string     `json:"tags"`
	Status     Status       `json:"status"`
	Notes      string       `json:"notes"`
	KeyFiles   []string     `json:"key_files"`
	Summary    string       `json:"summary"`
	LocalPath  string       `json:"local_path"`
	LastSynced *string      `json:"last_synced"`
	Metadata   RepoMetadata `json:"metadata"`
}

// Cloned reports whether the repository has a local working copy on record.
func (r *RepositoryRecord) Cloned() bool {
	return r.LastSynced != nil
}

// HasTag reports whether the record carries the given tag.
func (r *RepositoryRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RepoDirName returns the on-disk directory name for a repository clone.
// Format: owner__name
func RepoDirName(owner, name string) string {
	return fmt.Sprintf("%s__%s", owner, name)
}

// RepoURL returns the canonical web URL for a repository.
func RepoURL(owner, name string) string {
	return fmt.Sprintf("https://github.com/%s/%s", owner, name)
}

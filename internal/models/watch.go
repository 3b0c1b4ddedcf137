package models

// WatchSnapshot holds the last-observed remote state for a watched
// repository. One snapshot file per repository; overwritten on every check.
type WatchSnapshot struct {
	Repo          string  `json:"repo"`
	LastChecked   string  `json:"last_checked"`
	LatestRelease *string `json:"latest_release"`
	LatestCommit  *string `json:"latest_commit"`
}

// ObservedState is a freshly fetched (release, commit) pair to compare or
// record against a snapshot.
type ObservedState struct {
	Release *string
	Commit  *string
}

// ChangeReport is the result of comparing a stored snapshot against a newly
// observed state.
type ChangeReport struct {
	Repo           string
	ReleaseChanged bool
	CommitChanged  bool
	OldRelease     *string
	NewRelease     *string
	OldCommit      *string
	NewCommit      *string
}

// Changed reports whether either pointer advanced.
func (r *ChangeReport) Changed() bool {
	return r.ReleaseChanged || r.CommitChanged
}

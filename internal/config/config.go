package config

import (
	"time"

	"github.com/spf13/viper"
)

// GetRoot returns the knowledge base root directory.
func GetRoot() string {
	return viper.GetString("kb.root")
}

// GetKeyFilesCap returns the maximum key_files entries stored per record.
func GetKeyFilesCap() int {
	return viper.GetInt("limits.key_files")
}

// GetReleaseLinesCap returns how many release-note lines to print before
// truncating.
func GetReleaseLinesCap() int {
	return viper.GetInt("limits.release_lines")
}

// GetFindingsCap returns how many findings to print per category.
func GetFindingsCap() int {
	return viper.GetInt("limits.findings")
}

// GetCommitLimit returns how many commits to fetch per listing.
func GetCommitLimit() int {
	return viper.GetInt("limits.commits")
}

// GetReleaseLimit returns how many releases to fetch per listing.
func GetReleaseLimit() int {
	return viper.GetInt("limits.releases")
}

// GetAPITimeout returns the remote metadata fetch timeout.
func GetAPITimeout() time.Duration {
	return time.Duration(viper.GetInt("timeouts.api_seconds")) * time.Second
}

// GetGitTimeout returns the timeout for short local git operations.
func GetGitTimeout() time.Duration {
	return time.Duration(viper.GetInt("timeouts.git_seconds")) * time.Second
}

// GetLogTimeout returns the timeout for git log/diff operations.
func GetLogTimeout() time.Duration {
	return time.Duration(viper.GetInt("timeouts.log_seconds")) * time.Second
}

// GetCloneTimeout returns the timeout for clone operations.
func GetCloneTimeout() time.Duration {
	return time.Duration(viper.GetInt("timeouts.clone_seconds")) * time.Second
}

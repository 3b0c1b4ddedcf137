package identifier

import (
	"fmt"
	"strings"
)

// InvalidError reports a repository reference that could not be reduced to
// an owner/name pair. Input holds the cleaned string for diagnostics.
type InvalidError struct {
	Input string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid repo identifier: %s (expected format: owner/repo)", e.Input)
}

// Parse normalizes a user-supplied repository reference into (owner, name).
//
// Accepts:
//   - https://github.com/owner/repo
//   - github.com/owner/repo
//   - owner/repo
//
// Trailing ".git" and slashes are stripped. Pure function, no I/O.
func Parse(identifier string) (owner, name string, err error) {
	s := strings.TrimSpace(identifier)

	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimRight(s, "/")
	s = strings.TrimSuffix(s, ".git")
	s = strings.TrimRight(s, "/")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &InvalidError{Input: s}
	}

	return parts[0], parts[1], nil
}

// Key returns the canonical "owner/name" index key.
func Key(owner, name string) string {
	return owner + "/" + name
}

// Package git shells out to the git binary for clone, pull, log, diff, and
// grep. Every invocation goes through one context-bounded runner so timeout
// and failure handling is written once.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNotCloned is returned when an operation needs a local working copy
// that does not exist yet.
var ErrNotCloned = errors.New("repository not cloned")

// ExecError reports a git invocation that exited non-zero or timed out.
// Stderr carries the captured diagnostics for the user.
type ExecError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// run executes git with args, blocking until completion or until ctx
// expires. On timeout the process is killed and no partial state is
// committed by this package.
func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("timed out: %w", ctx.Err())
		}
		return "", &ExecError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// IsCloned reports whether dest holds a git working copy.
func IsCloned(dest string) bool {
	info, err := os.Stat(filepath.Join(dest, ".git"))
	return err == nil && info.IsDir()
}

// Clone clones url into dest. depth 0 means a full clone.
func Clone(ctx context.Context, url, dest string, depth int) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create clone parent: %w", err)
	}

	args := []string{"clone"}
	if depth > 0 {
		args = append(args, "--depth", strconv.Itoa(depth))
	}
	args = append(args, url, dest)

	_, err := run(ctx, "", args...)
	return err
}

// Pull updates the working copy at dir.
func Pull(ctx context.Context, dir string) (string, error) {
	if !IsCloned(dir) {
		return "", ErrNotCloned
	}
	return run(ctx, dir, "pull")
}

// Log returns one-line commit subjects for rangeExpr (e.g. "v1..v2").
func Log(ctx context.Context, dir, rangeExpr string) (string, error) {
	if !IsCloned(dir) {
		return "", ErrNotCloned
	}
	return run(ctx, dir, "log", rangeExpr, "--oneline")
}

// LogPatches returns the last n patches touching files matching pattern,
// or all files when pattern is empty.
func LogPatches(ctx context.Context, dir string, n int, pattern string) (string, error) {
	if !IsCloned(dir) {
		return "", ErrNotCloned
	}
	args := []string{"log", "-p", "-" + strconv.Itoa(n)}
	if pattern != "" {
		args = append(args, "--", "**/"+pattern)
	}
	return run(ctx, dir, args...)
}

// DiffStat returns the per-file change summary between two refs.
func DiffStat(ctx context.Context, dir, ref1, ref2 string) (string, error) {
	if !IsCloned(dir) {
		return "", ErrNotCloned
	}
	return run(ctx, dir, "diff", "--stat", ref1, ref2)
}

// Grep searches tracked files for pattern with surrounding context lines.
// No matches is not an error; it returns empty output.
func Grep(ctx context.Context, dir, pattern string, contextLines int) (string, error) {
	if !IsCloned(dir) {
		return "", ErrNotCloned
	}
	out, err := run(ctx, dir, "grep", "-n", "-C", strconv.Itoa(contextLines), "-e", pattern)
	if err != nil {
		// git grep exits 1 when nothing matches.
		var execErr *ExecError
		if errors.As(err, &execErr) && execErr.Stderr == "" {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

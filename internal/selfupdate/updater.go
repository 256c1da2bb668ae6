// Package selfupdate refreshes the plugin checkout from its git remote.
package selfupdate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a single update attempt
const DefaultTimeout = 5 * time.Second

// Result is the outcome of an update attempt
type Result int

const (
	Unchanged Result = iota
	Updated
	Failed
)

func (r Result) String() string {
	switch r {
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Updater updates the plugin in place
type Updater interface {
	Update(ctx context.Context) (Result, error)
}

// CommandRunner abstracts command execution so tests can fake git
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// DefaultWaitDelay bounds how long a cancelled command may hold its pipes
const DefaultWaitDelay = time.Second

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	// WaitDelay overrides DefaultWaitDelay. A child of git (ssh, a remote
	// helper) can keep stdout open after git itself is killed.
	WaitDelay time.Duration
}

// Run executes name in dir and returns its stdout
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// GitUpdater pulls the checkout at Root
type GitUpdater struct {
	Root    string
	Timeout time.Duration
	Runner  CommandRunner
}

// NewGitUpdater creates a GitUpdater for root with the default timeout
func NewGitUpdater(root string) *GitUpdater {
	return &GitUpdater{Root: root, Timeout: DefaultTimeout, Runner: ExecRunner{}}
}

// Update runs git pull and reports whether HEAD moved. A root that is not a
// git checkout is Unchanged.
func (u *GitUpdater) Update(ctx context.Context) (Result, error) {
	if u.Root == "" {
		return Unchanged, nil
	}
	if _, err := os.Stat(filepath.Join(u.Root, ".git")); err != nil {
		return Unchanged, nil
	}

	timeout := u.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	before, err := u.head(ctx)
	if err != nil {
		return Failed, err
	}

	if _, err := u.Runner.Run(ctx, u.Root, "git", "pull", "--quiet"); err != nil {
		if ctx.Err() != nil {
			return Failed, fmt.Errorf("git pull timed out after %s: %w", timeout, ctx.Err())
		}
		return Failed, err
	}

	after, err := u.head(ctx)
	if err != nil {
		return Failed, err
	}

	if before == after {
		return Unchanged, nil
	}
	return Updated, nil
}

func (u *GitUpdater) head(ctx context.Context) (string, error) {
	out, err := u.Runner.Run(ctx, u.Root, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Disabled never updates
type Disabled struct{}

// Update always reports Unchanged
func (Disabled) Update(context.Context) (Result, error) { return Unchanged, nil }

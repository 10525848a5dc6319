// Package gitops versions a project directory with the git CLI.
package gitops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrGitNotFound is returned when no git binary is on PATH.
var ErrGitNotFound = errors.New("git not found on PATH")

// Repo is a git working tree rooted at Dir.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Available reports whether the git binary can be found.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether Dir already holds a repository.
func (r Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Init runs git init unless Dir is already a repository.
func (r Repo) Init(ctx context.Context) error {
	if r.IsRepo() {
		return nil
	}
	_, err := r.git(ctx, "init")
	return err
}

// CommitAll stages everything and commits. Returns the short commit hash.
func (r Repo) CommitAll(ctx context.Context, message string) (string, error) {
	if _, err := r.git(ctx, "add", "-A"); err != nil {
		return "", err
	}

	if _, err := r.git(ctx, "commit", "-m", message); err != nil {
		return "", err
	}

	out, err := r.git(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (r Repo) git(ctx context.Context, args ...string) (string, error) {
	if !Available() {
		return "", ErrGitNotFound
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	// Commits need an identity even on machines without git config.
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+r.name(),
		"GIT_AUTHOR_EMAIL="+r.email(),
		"GIT_COMMITTER_NAME="+r.name(),
		"GIT_COMMITTER_EMAIL="+r.email(),
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}

func (r Repo) name() string {
	if r.AuthorName != "" {
		return r.AuthorName
	}
	return "tally"
}

func (r Repo) email() string {
	if r.AuthorEmail != "" {
		return r.AuthorEmail
	}
	return "tally@localhost"
}

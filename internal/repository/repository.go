// Package repository describes the repository jobs are generated for.
package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"
)

// DefaultBranch is used when no branch is known.
const DefaultBranch = "master"

// Repository identifies a repository and the branch jobs are generated for.
type Repository struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
	Name   string `yaml:"name"`
}

// New returns a Repository for url and branch. The name is the last element of
// the URL path without a ".git" suffix, e.g. "space" for
// "https://example.com/org/space.git". An empty branch defaults to
// DefaultBranch.
func New(url, branch string) Repository {
	if branch == "" {
		branch = DefaultBranch
	}

	return Repository{URL: url, Branch: branch, Name: NameFromURL(url)}
}

// NameFromURL derives a repository name from its URL. It understands
// scp-like URLs such as "git@host:org/space.git" as well as local paths.
func NameFromURL(url string) string {
	u := strings.TrimRight(url, "/\\")

	// scp-like syntax has no scheme and a ':' before the path. A single
	// letter before the ':' is a Windows drive.
	if !strings.Contains(u, "://") {
		if host, after, ok := strings.Cut(u, ":"); ok && len(host) > 1 {
			u = after
		}
	}

	u = strings.ReplaceAll(u, "\\", "/")
	name := path.Base(u)

	if name == "." || name == "/" {
		return ""
	}

	return strings.TrimSuffix(name, ".git")
}

// Validate reports missing fields.
func (r Repository) Validate() error {
	var errs []error

	if r.URL == "" {
		errs = append(errs, errors.New("repository url is empty"))
	}

	if r.Branch == "" {
		errs = append(errs, errors.New("repository branch is empty"))
	}

	if r.Name == "" {
		errs = append(errs, errors.New("repository name is empty"))
	}

	return errors.Join(errs...)
}

// String returns "name@branch (url)".
func (r Repository) String() string {
	return fmt.Sprintf("%s@%s (%s)", r.Name, r.Branch, r.URL)
}

// FromGit reads the origin URL and the current branch of the git working copy
// at dir.
func FromGit(ctx context.Context, dir string) (Repository, error) {
	url, err := git(ctx, dir, "config", "--get", "remote.origin.url")
	if err != nil {
		return Repository{}, fmt.Errorf("reading origin url: %w", err)
	}

	branch, err := git(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Repository{}, fmt.Errorf("reading current branch: %w", err)
	}

	return New(url, branch), nil
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, msg)
		}

		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

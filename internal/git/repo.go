package git

import (
	"context"
	"strings"

	latcherrors "github.com/mrz1836/latch/internal/errors"
)

// RepoRoot returns the absolute path of the repository containing dir.
// Returns ErrNotInGitRepo if dir is not inside a git working tree.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	root, err := RunCommand(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", latcherrors.Wrap(latcherrors.ErrNotInGitRepo, "resolving repository root")
	}
	return root, nil
}

// LsFiles returns the paths of all tracked files in the repository at root,
// relative to root. Paths are NUL-delimited on the wire so names containing
// newlines survive.
func LsFiles(ctx context.Context, root string) ([]string, error) {
	out, err := RunCommand(ctx, root, "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	raw := strings.Split(out, "\x00")
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// HeadRevision returns the full SHA of HEAD in the repository at root.
func HeadRevision(ctx context.Context, root string) (string, error) {
	return RunCommand(ctx, root, "rev-parse", "HEAD")
}

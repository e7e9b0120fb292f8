package git

import (
	"context"

	latcherrors "github.com/mrz1836/latch/internal/errors"
)

// CloneAtRevision clones the repository at url into dir and checks out the
// pinned revision. The clone is full rather than shallow because rev may be
// any reachable commit, tag, or branch name.
func CloneAtRevision(ctx context.Context, url, rev, dir string) error {
	if _, err := RunCommand(ctx, "", "clone", "--quiet", url, dir); err != nil {
		return latcherrors.Wrapf(err, "cloning %s", url)
	}

	if _, err := RunCommand(ctx, dir, "checkout", "--quiet", rev); err != nil {
		return latcherrors.Wrapf(err, "checking out %s", rev)
	}

	return nil
}

package fileset

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/latch/internal/git"
)

// FileRecord is one file in the working-tree snapshot: its path relative to
// the repository root plus its detected type tags.
type FileRecord struct {
	Path string
	Tags []string
}

// Snapshot is the read-only universal file set taken once at invocation
// start. Hooks that mutate files do so outside the snapshot's knowledge;
// mutations are only picked up by re-snapshotting on a later invocation.
type Snapshot struct {
	Root  string
	Files []FileRecord
}

// Take snapshots every tracked file in the repository at root.
func Take(ctx context.Context, root string) (*Snapshot, error) {
	paths, err := git.LsFiles(ctx, root)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Int("files", len(paths)).Str("root", root).Msg("working tree snapshot taken")
	return FromPaths(root, paths), nil
}

// FromPaths builds a snapshot from an explicit list of paths relative to
// root, bypassing the tracked-file discovery (the --files CLI flag).
func FromPaths(root string, paths []string) *Snapshot {
	files := make([]FileRecord, 0, len(paths))
	for _, p := range paths {
		files = append(files, FileRecord{
			Path: p,
			Tags: TagsForPath(root, p),
		})
	}
	return &Snapshot{Root: root, Files: files}
}

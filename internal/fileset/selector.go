package fileset

import (
	"sort"

	"github.com/mrz1836/latch/internal/manifest"
)

// Select computes the subset of the snapshot a hook instance runs against.
//
// Filtering order:
//  1. restrict to files carrying every one of the instance's include type tags
//  2. of those, drop files matching the instance's exclude pattern
//  3. if the instance declares a positive files pattern, restrict to matches
//
// Patterns match against the full relative path, case-sensitively. The result
// is sorted, so selection is a pure function of the snapshot's contents: a
// shuffled snapshot yields the identical selection.
func Select(snap *Snapshot, inst *manifest.Instance) []string {
	selected := make([]string, 0, len(snap.Files))

	for _, f := range snap.Files {
		if !hasAllTags(f.Tags, inst.Types) {
			continue
		}
		if inst.Exclude != nil && inst.Exclude.MatchString(f.Path) {
			continue
		}
		if inst.Files != nil && !inst.Files.MatchString(f.Path) {
			continue
		}
		selected = append(selected, f.Path)
	}

	sort.Strings(selected)
	return selected
}

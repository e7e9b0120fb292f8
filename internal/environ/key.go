// Package environ resolves isolated execution environments for hooks.
//
// An environment is identified by its cache key: a digest of the runtime
// kind, runtime version, and the sorted, de-duplicated dependency set. All
// hook instances whose spec digests identically share one environment;
// any difference yields a fully isolated one. Environments are materialized
// lazily, persisted across invocations under the cache root, and never
// mutated in place - a changed dependency set is a new environment.
package environ

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Spec declares what an execution environment must provide.
type Spec struct {
	// Language is the runtime kind (python, node, script, system).
	Language string
	// Version is the requested runtime version. Empty means the default.
	Version string
	// Dependencies is the normalized (sorted, de-duplicated) dependency set.
	Dependencies []string
}

// NewSpec builds a normalized Spec. The dependency list is copied, sorted,
// and de-duplicated so that declaration order never influences the cache key.
func NewSpec(language, version string, dependencies []string) Spec {
	deps := make([]string, 0, len(dependencies))
	seen := make(map[string]struct{}, len(dependencies))
	for _, d := range dependencies {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		deps = append(deps, d)
	}
	sort.Strings(deps)

	return Spec{
		Language:     language,
		Version:      version,
		Dependencies: deps,
	}
}

// Key returns the environment cache key: a hex SHA-256 digest of the
// canonical spec encoding. Deterministic across processes and platforms.
func (s Spec) Key() string {
	var b strings.Builder
	b.WriteString(s.Language)
	b.WriteByte(0)
	b.WriteString(s.Version)
	for _, d := range s.Dependencies {
		b.WriteByte(0)
		b.WriteString(d)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

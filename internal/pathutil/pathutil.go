// Package pathutil provides workspace path containment checks.
// Transcripts record the working directory a session ran in; a
// session belongs to the deepest open workspace folder that
// contains that directory.
package pathutil

import (
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// caseInsensitive reports whether path comparison on this
// platform should ignore case.
var caseInsensitive = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// Normalize resolves a path to a clean absolute form. On
// case-insensitive platforms the result is lowercased so that
// containment checks compare consistently.
func Normalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if caseInsensitive {
		abs = strings.ToLower(abs)
	}
	return abs
}

// IsPathWithin reports whether candidate is root itself or a
// path under root. A shared textual prefix without a separator
// boundary does not count: /tmp/repo-extra is not within
// /tmp/repo.
func IsPathWithin(candidate, root string) bool {
	c := Normalize(candidate)
	r := Normalize(root)
	if c == r {
		return true
	}
	return strings.HasPrefix(c, r+string(filepath.Separator))
}

// workspaceRoot pairs an original folder path with its
// normalized form.
type workspaceRoot struct {
	folder     string
	normalized string
}

// WorkspaceRoots holds workspace folders pre-normalized and
// sorted by descending normalized length, so the first
// containment match is always the most specific folder.
// Build once per discovery pass instead of re-normalizing the
// folder list for every candidate path.
type WorkspaceRoots struct {
	roots []workspaceRoot
}

// NewWorkspaceRoots normalizes and depth-sorts the given
// folders.
func NewWorkspaceRoots(folders []string) *WorkspaceRoots {
	roots := make([]workspaceRoot, 0, len(folders))
	for _, f := range folders {
		roots = append(roots, workspaceRoot{
			folder:     f,
			normalized: Normalize(f),
		})
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return len(roots[i].normalized) > len(roots[j].normalized)
	})
	return &WorkspaceRoots{roots: roots}
}

// Match returns the most specific workspace folder containing
// path, or ("", false) when no folder contains it.
func (w *WorkspaceRoots) Match(path string) (string, bool) {
	p := Normalize(path)
	for _, r := range w.roots {
		if p == r.normalized ||
			strings.HasPrefix(p, r.normalized+string(filepath.Separator)) {
			return r.folder, true
		}
	}
	return "", false
}

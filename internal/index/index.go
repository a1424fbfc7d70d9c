// Package index implements the discovery service: it scans the
// transcript archive, parses each file through mtime-gated
// caches, matches sessions to workspace folders, and exposes
// the session, prompt-list, and searchable-content accessors
// consumed by the presentation layer.
package index

import "sessiondex/internal/parser"

// SessionNode is one discovered session scoped to a workspace
// folder. Nodes are recomputed wholesale on every discovery
// pass and never mutated in place.
type SessionNode struct {
	SessionID      string
	Cwd            string
	TranscriptPath string
	Title          string
	UpdatedAt      int64 // transcript mtime, epoch ms
}

// SearchableEntry is one matched session plus its extracted
// content text, the sole input contract of the search feature.
type SearchableEntry struct {
	SessionID      string
	TranscriptPath string
	Title          string
	Cwd            string
	UpdatedAt      int64
	ContentText    string
}

// DiscoverResult maps each workspace folder to its sessions,
// most recently updated first. InfoMessage is set only when
// there is nothing to discover at all (no folders open, or the
// index root does not exist); per-folder emptiness is left to
// the consumer to surface.
type DiscoverResult struct {
	SessionsByWorkspace map[string][]SessionNode
	InfoMessage         string
}

// Cache entries are valid only while the file's current mtime
// equals the recorded one; any mismatch forces a reparse.
type cachedMeta struct {
	mtimeMs int64
	parsed  parser.ParsedSession
}

type cachedPrompts struct {
	mtimeMs int64
	prompts []parser.SessionPrompt
}

type cachedContent struct {
	mtimeMs int64
	text    string
}

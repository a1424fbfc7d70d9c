package index

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"sessiondex/internal/parser"
	"sessiondex/internal/pathutil"
)

// defaultWorkers bounds the per-file parse fan-out during
// discovery. Tunable via NewService; the value balances I/O
// overlap against file-descriptor pressure on large archives.
const defaultWorkers = 8

// Service owns the index root and the three mtime-gated
// caches. Construct one per consumer; independent services
// never share cache state.
type Service struct {
	root    string
	workers int

	mu           sync.RWMutex
	metaCache    map[string]cachedMeta
	promptCache  map[string]cachedPrompts
	contentCache map[string]cachedContent
}

// NewService creates a discovery service over the given index
// root. workers <= 0 selects the default fan-out.
func NewService(root string, workers int) *Service {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{
		root:         root,
		workers:      workers,
		metaCache:    make(map[string]cachedMeta),
		promptCache:  make(map[string]cachedPrompts),
		contentCache: make(map[string]cachedContent),
	}
}

// candidate is one successfully parsed transcript file.
type candidate struct {
	path    string
	mtimeMs int64
	parsed  parser.ParsedSession
}

// Discover scans the archive and returns the sessions matched
// to each workspace folder, deduplicated by session ID (newest
// transcript wins) and sorted by update time descending.
// Failures degrade to skipped files; Discover never returns an
// error.
func (s *Service) Discover(folders []string) DiscoverResult {
	res := DiscoverResult{
		SessionsByWorkspace: make(map[string][]SessionNode, len(folders)),
	}
	for _, f := range folders {
		res.SessionsByWorkspace[f] = []SessionNode{}
	}

	if len(folders) == 0 {
		res.InfoMessage = "Open a folder to browse its session history."
		return res
	}
	if !parser.RootExists(s.root) {
		res.InfoMessage = fmt.Sprintf(
			"No session history found at %s.", s.root,
		)
		return res
	}

	files := parser.CollectTranscriptFiles(s.root)
	candidates := s.parseAll(files)
	s.purge(files)

	roots := pathutil.NewWorkspaceRoots(folders)

	// folder -> sessionID -> winning candidate. On equal
	// mtimes the candidate encountered later wins.
	byFolder := make(map[string]map[string]candidate)
	for _, c := range candidates {
		folder, ok := roots.Match(c.parsed.Cwd)
		if !ok {
			continue
		}
		sessions := byFolder[folder]
		if sessions == nil {
			sessions = make(map[string]candidate)
			byFolder[folder] = sessions
		}
		prev, seen := sessions[c.parsed.SessionID]
		if !seen || c.mtimeMs >= prev.mtimeMs {
			sessions[c.parsed.SessionID] = c
		}
	}

	for folder, sessions := range byFolder {
		ids := make([]string, 0, len(sessions))
		for id := range sessions {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		nodes := make([]SessionNode, 0, len(sessions))
		for _, id := range ids {
			c := sessions[id]
			nodes = append(nodes, SessionNode{
				SessionID:      c.parsed.SessionID,
				Cwd:            c.parsed.Cwd,
				TranscriptPath: c.path,
				Title: parser.BuildTitle(
					c.parsed.TitleSourceRaw, c.parsed.SessionID,
				),
				UpdatedAt: c.mtimeMs,
			})
		}
		sort.SliceStable(nodes, func(i, j int) bool {
			return nodes[i].UpdatedAt > nodes[j].UpdatedAt
		})
		res.SessionsByWorkspace[folder] = nodes
	}

	return res
}

// UserPrompts returns the ordered prompt list for a session's
// transcript, served from the prompt cache when the file is
// unchanged. Failures yield an empty list, never an error.
func (s *Service) UserPrompts(node SessionNode) []parser.SessionPrompt {
	info, err := os.Stat(node.TranscriptPath)
	if err != nil {
		log.Printf("prompts: stat %s: %v", node.TranscriptPath, err)
		return []parser.SessionPrompt{}
	}
	mtime := info.ModTime().UnixMilli()

	s.mu.RLock()
	entry, ok := s.promptCache[node.TranscriptPath]
	s.mu.RUnlock()
	if ok && entry.mtimeMs == mtime {
		return entry.prompts
	}

	prompts, err := parser.ParsePrompts(
		node.TranscriptPath, node.SessionID,
	)
	if err != nil {
		log.Printf("prompts: parse %s: %v", node.TranscriptPath, err)
		return []parser.SessionPrompt{}
	}
	if prompts == nil {
		prompts = []parser.SessionPrompt{}
	}

	s.mu.Lock()
	s.promptCache[node.TranscriptPath] = cachedPrompts{
		mtimeMs: mtime,
		prompts: prompts,
	}
	s.mu.Unlock()
	return prompts
}

// SearchableEntries runs the discovery pipeline and attaches
// each matched session's extracted content text, served from
// the content cache when the file is unchanged.
func (s *Service) SearchableEntries(folders []string) []SearchableEntry {
	res := s.Discover(folders)

	keys := make([]string, 0, len(res.SessionsByWorkspace))
	for folder := range res.SessionsByWorkspace {
		keys = append(keys, folder)
	}
	sort.Strings(keys)

	var entries []SearchableEntry
	for _, folder := range keys {
		for _, node := range res.SessionsByWorkspace[folder] {
			entries = append(entries, SearchableEntry{
				SessionID:      node.SessionID,
				TranscriptPath: node.TranscriptPath,
				Title:          node.Title,
				Cwd:            node.Cwd,
				UpdatedAt:      node.UpdatedAt,
				ContentText:    s.contentFor(node.TranscriptPath),
			})
		}
	}
	return entries
}

// FindSession locates a session anywhere in the archive,
// regardless of open workspace folders. When several
// transcripts carry the same session ID the newest wins.
func (s *Service) FindSession(sessionID string) (SessionNode, bool) {
	if !parser.RootExists(s.root) {
		return SessionNode{}, false
	}

	files := parser.CollectTranscriptFiles(s.root)
	var (
		best  candidate
		found bool
	)
	for _, c := range s.parseAll(files) {
		if c.parsed.SessionID != sessionID {
			continue
		}
		if !found || c.mtimeMs >= best.mtimeMs {
			best = c
			found = true
		}
	}
	if !found {
		return SessionNode{}, false
	}

	return SessionNode{
		SessionID:      best.parsed.SessionID,
		Cwd:            best.parsed.Cwd,
		TranscriptPath: best.path,
		Title: parser.BuildTitle(
			best.parsed.TitleSourceRaw, best.parsed.SessionID,
		),
		UpdatedAt: best.mtimeMs,
	}, true
}

// parseAll fans file parsing out across the worker pool and
// returns the successfully parsed candidates in file order.
// One file's failure never aborts its siblings.
func (s *Service) parseAll(files []string) []candidate {
	if len(files) == 0 {
		return nil
	}

	type job struct {
		i    int
		path string
	}

	out := make([]*candidate, len(files))
	jobs := make(chan job, len(files))

	workers := min(s.workers, len(files))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out[j.i] = s.parseOne(j.path)
			}
		}()
	}
	for i, f := range files {
		jobs <- job{i: i, path: f}
	}
	close(jobs)
	wg.Wait()

	candidates := make([]candidate, 0, len(files))
	for _, c := range out {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates
}

// parseOne stats and parses a single transcript, reusing the
// cached metadata when the mtime is unchanged. Incomplete
// sessions (no sessionId or cwd) are dropped silently; I/O and
// parse failures are logged and dropped.
func (s *Service) parseOne(path string) *candidate {
	info, err := os.Stat(path)
	if err != nil {
		log.Printf("discover: stat %s: %v", path, err)
		return nil
	}
	mtime := info.ModTime().UnixMilli()

	s.mu.RLock()
	entry, ok := s.metaCache[path]
	s.mu.RUnlock()
	if ok && entry.mtimeMs == mtime {
		return &candidate{path: path, mtimeMs: mtime, parsed: entry.parsed}
	}

	parsed, err := parser.ParseSessionMeta(path)
	if err != nil {
		log.Printf("discover: parse %s: %v", path, err)
		return nil
	}
	if parsed == nil {
		return nil
	}

	s.mu.Lock()
	s.metaCache[path] = cachedMeta{mtimeMs: mtime, parsed: *parsed}
	s.mu.Unlock()
	return &candidate{path: path, mtimeMs: mtime, parsed: *parsed}
}

// contentFor returns the searchable content text for a
// transcript, mtime-gated like the other caches.
func (s *Service) contentFor(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		log.Printf("content: stat %s: %v", path, err)
		return ""
	}
	mtime := info.ModTime().UnixMilli()

	s.mu.RLock()
	entry, ok := s.contentCache[path]
	s.mu.RUnlock()
	if ok && entry.mtimeMs == mtime {
		return entry.text
	}

	text, err := parser.ExtractSearchableText(path)
	if err != nil {
		log.Printf("content: parse %s: %v", path, err)
		return ""
	}

	s.mu.Lock()
	s.contentCache[path] = cachedContent{mtimeMs: mtime, text: text}
	s.mu.Unlock()
	return text
}

// purge drops cache entries for transcripts no longer present
// on disk, so deleted files cannot grow the caches without
// bound.
func (s *Service) purge(files []string) {
	present := make(map[string]struct{}, len(files))
	for _, f := range files {
		present[f] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for path := range s.metaCache {
		if _, ok := present[path]; !ok {
			delete(s.metaCache, path)
		}
	}
	for path := range s.promptCache {
		if _, ok := present[path]; !ok {
			delete(s.promptCache, path)
		}
	}
	for path := range s.contentCache {
		if _, ok := present[path]; !ok {
			delete(s.contentCache, path)
		}
	}
}

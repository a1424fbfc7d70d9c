package parser

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// subagentsDirName names the per-session subdirectory of
// subagent transcripts, which is excluded from discovery.
const subagentsDirName = "subagents"

// CollectTranscriptFiles walks root depth-first and returns
// every transcript file path found. Directories named
// "subagents" are pruned entirely; files must end in ".jsonl"
// and must not start with "agent-". A directory that fails to
// list is logged and skipped; the walk continues elsewhere.
//
// Traversal uses an explicit stack rather than recursion so
// deep trees cannot exhaust stack depth. Order is not
// significant to callers.
func CollectTranscriptFiles(root string) []string {
	stack := []string{root}
	var files []string

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Printf("scan %s: %v", dir, err)
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				if name == subagentsDirName {
					continue
				}
				stack = append(stack, filepath.Join(dir, name))
				continue
			}
			if !strings.HasSuffix(name, ".jsonl") ||
				strings.HasPrefix(name, "agent-") {
				continue
			}
			files = append(files, filepath.Join(dir, name))
		}
	}

	return files
}

// RootExists reports whether the index root is accessible.
// Distinguishes "no history yet" from "nothing matched the
// open folders".
func RootExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

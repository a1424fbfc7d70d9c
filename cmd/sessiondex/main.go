// Command sessiondex indexes a local archive of coding-agent
// session transcripts and lets you browse, search, resume, and
// export the sessions scoped to your project directories.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"sessiondex/internal/config"
	"sessiondex/internal/index"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

func main() {
	log.SetFlags(0)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "list":
			runList(os.Args[2:])
			return
		case "prompts":
			runPrompts(os.Args[2:])
			return
		case "search":
			runSearch(os.Args[2:])
			return
		case "watch":
			runWatch(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "resume":
			runResume(os.Args[2:])
			return
		case "update":
			runUpdate(os.Args[2:])
			return
		case "version", "--version", "-v":
			fmt.Printf("sessiondex %s (commit %s, built %s)\n",
				version, commit, buildDate)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	runList(os.Args[1:])
}

func printUsage() {
	fmt.Printf(`sessiondex %s - browse and resume local coding-agent sessions

Indexes the JSONL transcript archive (default ~/.claude/projects),
scopes sessions to your project folders, and serves listing,
prompt history, and full-text search from in-memory caches.

Usage:
  sessiondex [flags] [folder ...]          List sessions (default command)
  sessiondex list [flags] [folder ...]     List sessions per folder
  sessiondex prompts <session-id>          Show a session's prompt history
  sessiondex search <query> [folder ...]   Full-text search across sessions
  sessiondex watch [flags] [folder ...]    Re-list whenever transcripts change
  sessiondex export -o <file> [folder ...] Snapshot the index to SQLite
  sessiondex resume <session-id>           Resume a session in its directory
  sessiondex update                        Check for a newer release
  sessiondex version                       Show version information
  sessiondex help                          Show this help

Shared flags:
  -root string      Transcript archive root directory
  -workers int      Parse fan-out during discovery

Folders default to the current working directory.
`, version)
}

// loadConfig parses args with the shared flags and returns the
// layered config plus the remaining positional arguments.
func loadConfig(name string, args []string) (config.Config, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg, fs.Args()
}

// workspaceFolders resolves the positional folder arguments,
// defaulting to the current working directory.
func workspaceFolders(args []string) []string {
	if len(args) > 0 {
		return args
	}
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("getwd: %v", err)
	}
	return []string{cwd}
}

func newService(cfg config.Config) *index.Service {
	return index.NewService(cfg.IndexRoot, cfg.Workers)
}

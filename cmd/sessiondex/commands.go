package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/shlex"

	"sessiondex/internal/config"
	"sessiondex/internal/export"
	"sessiondex/internal/index"
	"sessiondex/internal/search"
	"sessiondex/internal/update"
	"sessiondex/internal/watch"
)

const watchDebounce = 500 * time.Millisecond

func runList(args []string) {
	cfg, rest := loadConfig("list", args)
	folders := workspaceFolders(rest)

	svc := newService(cfg)
	printSessions(svc.Discover(folders), folders)
}

func printSessions(res index.DiscoverResult, folders []string) {
	if res.InfoMessage != "" {
		fmt.Println(res.InfoMessage)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, folder := range folders {
		sessions := res.SessionsByWorkspace[folder]
		fmt.Fprintf(w, "%s\t(%d sessions)\n", folder, len(sessions))
		for _, node := range sessions {
			updated := time.UnixMilli(node.UpdatedAt).
				Format("2006-01-02 15:04")
			fmt.Fprintf(w, "  %s\t%s\t%s\n",
				updated, node.Title, node.SessionID)
		}
	}
	w.Flush()
}

func runPrompts(args []string) {
	cfg, rest := loadConfig("prompts", args)
	if len(rest) < 1 {
		log.Fatal("usage: sessiondex prompts <session-id>")
	}
	sessionID := rest[0]

	svc := newService(cfg)
	node, ok := svc.FindSession(sessionID)
	if !ok {
		log.Fatalf("session %s not found under %s", sessionID, cfg.IndexRoot)
	}

	prompts := svc.UserPrompts(node)
	fmt.Printf("%s (%d prompts)\n", node.Title, len(prompts))
	for _, p := range prompts {
		when := ""
		if p.TimestampMs != 0 {
			when = time.UnixMilli(p.TimestampMs).Format("2006-01-02 15:04") + " "
		}
		fmt.Printf("\n%s> %s\n", when, p.PromptTitle)
		if p.ResponseRaw != "" {
			fmt.Printf("  %s\n", firstLine(p.ResponseRaw))
		}
	}
}

func runSearch(args []string) {
	cfg, rest := loadConfig("search", args)
	if len(rest) < 1 {
		log.Fatal("usage: sessiondex search <query> [folder ...]")
	}
	query := rest[0]
	folders := workspaceFolders(rest[1:])

	svc := newService(cfg)
	entries := svc.SearchableEntries(folders)
	matches := search.Filter(entries, query)

	if len(matches) == 0 {
		fmt.Printf("no sessions matching %q\n", query)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			m.Entry.SessionID, m.Entry.Title, m.Snippet)
	}
	w.Flush()
}

func runWatch(args []string) {
	cfg, rest := loadConfig("watch", args)
	folders := workspaceFolders(rest)

	svc := newService(cfg)
	printSessions(svc.Discover(folders), folders)

	watcher, err := watch.New(watchDebounce, func(paths []string) {
		log.Printf("%d transcript(s) changed, refreshing", len(paths))
		printSessions(svc.Discover(folders), folders)
	})
	if err != nil {
		log.Fatalf("watch: %v", err)
	}
	watched, err := watcher.WatchRoot(cfg.IndexRoot)
	if err != nil {
		log.Fatalf("watch %s: %v", cfg.IndexRoot, err)
	}
	log.Printf("watching %d directories under %s", watched, cfg.IndexRoot)

	watcher.Start()
	defer watcher.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	config.RegisterFlags(fs)
	out := fs.String("o", "sessions.db", "Output database file")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	folders := workspaceFolders(fs.Args())

	svc := newService(cfg)
	res := svc.Discover(folders)
	if res.InfoMessage != "" {
		fmt.Println(res.InfoMessage)
		return
	}

	if err := export.Snapshot(*out, res, svc.UserPrompts); err != nil {
		log.Fatalf("export: %v", err)
	}
	total := 0
	for _, sessions := range res.SessionsByWorkspace {
		total += len(sessions)
	}
	fmt.Printf("exported %d session(s) to %s\n", total, *out)
}

func runResume(args []string) {
	cfg, rest := loadConfig("resume", args)
	if len(rest) < 1 {
		log.Fatal("usage: sessiondex resume <session-id>")
	}
	sessionID := rest[0]

	svc := newService(cfg)
	node, ok := svc.FindSession(sessionID)
	if !ok {
		log.Fatalf("session %s not found under %s", sessionID, cfg.IndexRoot)
	}

	cmdline := strings.ReplaceAll(
		cfg.ResumeCommand, "{session}", node.SessionID,
	)
	argv, err := shlex.Split(cmdline)
	if err != nil || len(argv) == 0 {
		log.Fatalf("resume command %q: %v", cfg.ResumeCommand, err)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = node.Cwd
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fmt.Printf("resuming %q in %s\n", node.Title, node.Cwd)
	if err := cmd.Run(); err != nil {
		log.Fatalf("resume: %v", err)
	}
}

func runUpdate(args []string) {
	ctx, cancel := context.WithTimeout(
		context.Background(), 15*time.Second,
	)
	defer cancel()

	checker := update.NewChecker(http.DefaultClient, "")
	rel, err := checker.Latest(ctx)
	if err != nil {
		log.Fatalf("update check: %v", err)
	}

	if update.IsNewer(rel.TagName, version) {
		fmt.Printf("newer release available: %s (current %s)\n  %s\n",
			rel.TagName, version, rel.HTMLURL)
		return
	}
	fmt.Printf("sessiondex %s is up to date (latest %s)\n",
		version, rel.TagName)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return s
}

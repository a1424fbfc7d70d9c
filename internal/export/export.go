// Package export writes a point-in-time snapshot of the
// in-memory index to a SQLite database. This is an explicit
// user command output; the discovery engine itself never
// persists anything.
package export

import (
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"sessiondex/internal/index"
	"sessiondex/internal/parser"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id      TEXT NOT NULL,
	workspace       TEXT NOT NULL,
	title           TEXT NOT NULL,
	cwd             TEXT NOT NULL,
	transcript_path TEXT NOT NULL,
	updated_at      INTEGER NOT NULL,
	PRIMARY KEY (session_id, workspace)
);

CREATE TABLE IF NOT EXISTS prompts (
	prompt_id  TEXT NOT NULL,
	session_id TEXT NOT NULL,
	ordinal    INTEGER NOT NULL,
	prompt     TEXT NOT NULL,
	title      TEXT NOT NULL,
	response   TEXT NOT NULL,
	timestamp  TEXT,
	PRIMARY KEY (session_id, ordinal)
);
`

// PromptLoader supplies the prompt list for a session node;
// the index service's UserPrompts satisfies it.
type PromptLoader func(index.SessionNode) []parser.SessionPrompt

// Snapshot writes the discovered sessions and their prompts to
// a SQLite database at path. An existing database at path is
// replaced table-content-wise (delete and reinsert) inside one
// transaction.
func Snapshot(
	path string, result index.DiscoverResult, loadPrompts PromptLoader,
) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"sessions", "prompts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	insertSession, err := tx.Prepare(`
		INSERT INTO sessions
			(session_id, workspace, title, cwd, transcript_path, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sessions: %w", err)
	}
	defer insertSession.Close()

	insertPrompt, err := tx.Prepare(`
		INSERT OR IGNORE INTO prompts
			(prompt_id, session_id, ordinal, prompt, title, response, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare prompts: %w", err)
	}
	defer insertPrompt.Close()

	folders := make([]string, 0, len(result.SessionsByWorkspace))
	for folder := range result.SessionsByWorkspace {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	for _, folder := range folders {
		for _, node := range result.SessionsByWorkspace[folder] {
			if _, err := insertSession.Exec(
				node.SessionID, folder, node.Title,
				node.Cwd, node.TranscriptPath, node.UpdatedAt,
			); err != nil {
				return fmt.Errorf(
					"inserting session %s: %w", node.SessionID, err,
				)
			}

			for i, p := range loadPrompts(node) {
				var ts any
				if p.TimestampISO != "" {
					ts = p.TimestampISO
				}
				if _, err := insertPrompt.Exec(
					p.PromptID, node.SessionID, i,
					p.PromptRaw, p.PromptTitle, p.ResponseRaw, ts,
				); err != nil {
					return fmt.Errorf(
						"inserting prompt %s: %w", p.PromptID, err,
					)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

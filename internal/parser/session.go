package parser

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// ParsedSession holds the identity and title source extracted
// from one transcript file. TitleSourceRaw may be empty when
// the file contains no title-quality text.
type ParsedSession struct {
	SessionID      string
	Cwd            string
	TitleSourceRaw string
}

// ParseSessionMeta runs a single streaming pass over a
// transcript file, extracting session identity and resolving
// the title source text. It returns nil (no error) when the
// file never establishes both a session ID and a working
// directory.
//
// The pass always reads the file to the end: a /rename or
// title record later in the file overrides any earlier title
// signal, so there is no early exit once identity is known.
func ParseSessionMeta(path string) (*ParsedSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		sessionID    string
		cwd          string
		explicit     string // latest explicit title signal
		firstPrompt  string // first displayable user prompt
		firstUserAny string // first user text of any kind
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, initialScanBufSize), maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !gjson.Valid(line) {
			log.Printf("parse %s: skipping malformed line", path)
			continue
		}

		if sessionID == "" {
			sessionID = gjson.Get(line, "sessionId").Str
		}
		if cwd == "" {
			cwd = gjson.Get(line, "cwd").Str
		}

		switch gjson.Get(line, "type").Str {
		case TypeCustomTitle:
			if t := gjson.Get(line, "customTitle").Str; strings.TrimSpace(t) != "" {
				explicit = t
			}
		case TypeAgentName:
			if t := gjson.Get(line, "agentName").Str; strings.TrimSpace(t) != "" {
				explicit = t
			}
		case TypeUser:
			text := ExtractText(gjson.Get(line, "message.content"))
			if args, ok := ParseRenameCommandArgs(text); ok {
				explicit = args
			}
			if title, ok := ParseRenameStdoutTitle(text); ok {
				explicit = title
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			if firstUserAny == "" {
				firstUserAny = text
			}
			if firstPrompt == "" && IsDisplayableUserPrompt(text) {
				firstPrompt = text
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	if sessionID == "" || cwd == "" {
		return nil, nil
	}

	return &ParsedSession{
		SessionID: sessionID,
		Cwd:       cwd,
		TitleSourceRaw: ChooseSessionTitleRaw(
			explicit, firstPrompt, firstUserAny,
		),
	}, nil
}

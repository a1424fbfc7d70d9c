package parser

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"sessiondex/internal/timeutil"
)

// maxResponseLen caps the assistant response text paired with
// a prompt.
const maxResponseLen = 50000

// SessionPrompt is one user-authored prompt with the assistant
// response text that immediately followed it. TimestampISO and
// TimestampMs are zero when the record carried no parseable
// timestamp.
type SessionPrompt struct {
	PromptID     string
	SessionID    string
	PromptRaw    string
	PromptTitle  string
	ResponseRaw  string
	TimestampISO string
	TimestampMs  int64
}

// ParsePrompts runs a single streaming pass over a transcript
// file and returns its displayable user prompts in file order,
// each paired with the concatenated assistant text that
// followed it (capped at maxResponseLen). fallbackSessionID
// supplies the session ID and prompt ID prefix for records
// that lack their own.
func ParsePrompts(path, fallbackSessionID string) ([]SessionPrompt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var prompts []SessionPrompt

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, initialScanBufSize), maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !gjson.Valid(line) {
			log.Printf("prompts %s: skipping malformed line", path)
			continue
		}

		switch gjson.Get(line, "type").Str {
		case TypeAssistant:
			if len(prompts) == 0 {
				continue
			}
			text := ExtractText(gjson.Get(line, "message.content"))
			if strings.TrimSpace(text) == "" {
				continue
			}
			last := &prompts[len(prompts)-1]
			if len(last.ResponseRaw) >= maxResponseLen {
				continue
			}
			if last.ResponseRaw == "" {
				last.ResponseRaw = text
			} else {
				last.ResponseRaw += "\n" + text
			}
			if len(last.ResponseRaw) > maxResponseLen {
				last.ResponseRaw = last.ResponseRaw[:maxResponseLen]
			}

		case TypeUser:
			text := ExtractText(gjson.Get(line, "message.content"))
			if strings.TrimSpace(text) == "" ||
				!IsDisplayableUserPrompt(text) {
				continue
			}

			sessionID := gjson.Get(line, "sessionId").Str
			if sessionID == "" {
				sessionID = fallbackSessionID
			}

			p := SessionPrompt{
				SessionID:   sessionID,
				PromptRaw:   text,
				PromptTitle: BuildTitle(text, sessionID),
			}

			if uuid := strings.TrimSpace(gjson.Get(line, "uuid").Str); uuid != "" {
				p.PromptID = uuid
			} else {
				p.PromptID = fmt.Sprintf(
					"%s:%d", fallbackSessionID, len(prompts),
				)
			}

			if ts := gjson.Get(line, "timestamp").Str; ts != "" {
				if t, ok := timeutil.ParseISO(ts); ok {
					p.TimestampISO = ts
					p.TimestampMs = t.UnixMilli()
				}
			}

			prompts = append(prompts, p)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	return prompts, nil
}

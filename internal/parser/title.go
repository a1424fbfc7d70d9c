package parser

import (
	"regexp"
	"strings"
)

// maxTitleLen caps display titles; longer titles are truncated
// to 77 characters plus "...".
const maxTitleLen = 80

const renameCommandMarker = "<command-name>/rename</command-name>"

var (
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	commandArgsRe = regexp.MustCompile(`(?s)<command-args>(.*?)</command-args>`)
	stdoutRe      = regexp.MustCompile(`(?s)<local-command-stdout>(.*?)</local-command-stdout>`)
	renamedToRe   = regexp.MustCompile(`(?i)^session( and agent)? renamed to: `)
)

// BuildTitle sanitizes raw text into a single-line display
// title: the first line that survives tag stripping and
// whitespace collapsing, capped at 80 characters. When no line
// survives, the title falls back to the session ID prefix.
func BuildTitle(raw, sessionID string) string {
	var title string
	for _, line := range strings.Split(raw, "\n") {
		line = normalizeWhitespace(tagRe.ReplaceAllString(line, ""))
		if line != "" {
			title = line
			break
		}
	}

	if title == "" {
		short := sessionID
		if len(short) > 8 {
			short = short[:8]
		}
		return "Session " + short
	}

	if len(title) > maxTitleLen {
		return title[:maxTitleLen-3] + "..."
	}
	return title
}

// ChooseSessionTitleRaw picks the best available title source
// text by priority: an explicit title signal wins, then the
// first displayable user prompt, then the first user text of
// any kind. Returns "" when nothing qualifies.
func ChooseSessionTitleRaw(
	latestExplicitTitle, firstPromptRaw, firstUserRaw string,
) string {
	if strings.TrimSpace(latestExplicitTitle) != "" {
		return latestExplicitTitle
	}
	if strings.TrimSpace(firstPromptRaw) != "" {
		return firstPromptRaw
	}
	if strings.TrimSpace(firstUserRaw) != "" {
		return firstUserRaw
	}
	return ""
}

// ParseRenameCommandArgs extracts the arguments of an in-band
// /rename command. Returns ("", false) unless text carries the
// /rename command marker and non-empty command args.
func ParseRenameCommandArgs(text string) (string, bool) {
	if !strings.Contains(text, renameCommandMarker) {
		return "", false
	}
	m := commandArgsRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	args := normalizeWhitespace(m[1])
	if args == "" {
		return "", false
	}
	return args, true
}

// ParseRenameStdoutTitle extracts the new title from a rename
// confirmation's stdout ("Session renamed to: ..." or
// "Session and agent renamed to: ..."). Returns ("", false)
// when the stdout tag is absent or the confirmation pattern
// does not match.
func ParseRenameStdoutTitle(text string) (string, bool) {
	m := stdoutRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	out := normalizeWhitespace(m[1])
	loc := renamedToRe.FindStringIndex(out)
	if loc == nil {
		return "", false
	}
	title := strings.TrimSpace(out[loc[1]:])
	if title == "" {
		return "", false
	}
	return title, true
}

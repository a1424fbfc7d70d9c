// Package parser implements the streaming extraction passes
// over session transcript files: one JSON object per line, a
// closed set of record types, and heterogeneous message
// content shapes.
package parser

import (
	"strings"

	"github.com/tidwall/gjson"
)

const (
	initialScanBufSize = 64 * 1024        // 64KB
	maxScanTokenSize   = 20 * 1024 * 1024 // 20MB
)

// Record types recognized during parsing. Anything else is
// ignored.
const (
	TypeUser        = "user"
	TypeAssistant   = "assistant"
	TypeSystem      = "system"
	TypeCustomTitle = "custom-title"
	TypeAgentName   = "agent-name"
)

// internalMarkers are the prefixes that mark user-record text
// as command-wrapper output rather than something the user
// typed. Matching is prefix-based and case-sensitive; a marker
// appearing mid-string does not disqualify the text.
var internalMarkers = []string{
	"<local-command-caveat>",
	"<command-name>",
	"<command-message>",
	"<command-args>",
	"<local-command-stdout>",
	"<local-command-stderr>",
	"<local-command-exit-code>",
	"<usage>",
	"agentId:",
}

// ExtractText extracts display text from a message content
// payload. content may be a plain string, an array of strings
// and/or blocks carrying a text (or thinking) field, or a
// single object carrying a text field. Any other shape yields
// the empty string.
func ExtractText(content gjson.Result) string {
	if content.Type == gjson.String {
		return content.Str
	}

	if content.IsArray() {
		var parts []string
		content.ForEach(func(_, block gjson.Result) bool {
			text := blockText(block)
			if text != "" {
				parts = append(parts, text)
			}
			return true
		})
		return strings.Join(parts, "\n")
	}

	if content.IsObject() {
		return content.Get("text").Str
	}

	return ""
}

func blockText(block gjson.Result) string {
	if block.Type == gjson.String {
		return block.Str
	}
	if !block.IsObject() {
		return ""
	}
	if text := block.Get("text").Str; text != "" {
		return text
	}
	return block.Get("thinking").Str
}

// IsDisplayableUserPrompt reports whether user-record text is
// genuine user-visible prompt text, as opposed to an internal
// command wrapper artifact. Empty or whitespace-only text is
// not displayable.
func IsDisplayableUserPrompt(text string) bool {
	normalized := normalizeWhitespace(text)
	if normalized == "" {
		return false
	}
	for _, marker := range internalMarkers {
		if strings.HasPrefix(normalized, marker) {
			return false
		}
	}
	return true
}

// normalizeWhitespace collapses all whitespace runs to single
// spaces and trims the result.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

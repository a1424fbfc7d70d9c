package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTitle(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		sessionID string
		want      string
	}{
		{
			name:      "plain text passes through",
			raw:       "Fix the login bug",
			sessionID: "abc12345",
			want:      "Fix the login bug",
		},
		{
			name:      "first non-blank line wins",
			raw:       "\n\nSecond line first\nthird",
			sessionID: "abc12345",
			want:      "Second line first",
		},
		{
			name:      "tags stripped",
			raw:       "<command-name>/model</command-name>",
			sessionID: "abc12345",
			want:      "/model",
		},
		{
			name:      "whitespace collapsed",
			raw:       "hello \t  world",
			sessionID: "abc12345",
			want:      "hello world",
		},
		{
			name:      "tag-only first line falls through to next",
			raw:       "<usage>\nreal title",
			sessionID: "abc12345",
			want:      "real title",
		},
		{
			name:      "empty falls back to session prefix",
			raw:       "",
			sessionID: "0123456789abcdef",
			want:      "Session 01234567",
		},
		{
			name:      "short session id used whole",
			raw:       "   ",
			sessionID: "s1",
			want:      "Session s1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildTitle(tt.raw, tt.sessionID))
		})
	}

	t.Run("truncates to exactly 80 with ellipsis", func(t *testing.T) {
		long := strings.Repeat("x", 81)
		got := BuildTitle(long, "abc12345")
		assert.Len(t, got, 80)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.Equal(t, strings.Repeat("x", 77)+"...", got)
	})

	t.Run("length 80 unchanged", func(t *testing.T) {
		exact := strings.Repeat("y", 80)
		assert.Equal(t, exact, BuildTitle(exact, "abc12345"))
	})
}

func TestChooseSessionTitleRaw(t *testing.T) {
	tests := []struct {
		name                      string
		explicit, prompt, userAny string
		want                      string
	}{
		{"explicit wins", "Renamed", "first prompt", "any", "Renamed"},
		{"prompt when no explicit", "", "first prompt", "any", "first prompt"},
		{"blank explicit skipped", "   ", "first prompt", "any", "first prompt"},
		{"falls back to any user text", "", "", "<usage>stats</usage>", "<usage>stats</usage>"},
		{"nothing qualifies", "", "  ", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseSessionTitleRaw(tt.explicit, tt.prompt, tt.userAny)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRenameCommandArgs(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "rename with args",
			text:   "<command-name>/rename</command-name><command-args>New Title</command-args>",
			want:   "New Title",
			wantOK: true,
		},
		{
			name:   "multiline args normalized",
			text:   "<command-name>/rename</command-name><command-args>a\nb</command-args>",
			want:   "a b",
			wantOK: true,
		},
		{
			name: "wrong command",
			text: "<command-name>/model</command-name><command-args>opus</command-args>",
		},
		{
			name: "empty args",
			text: "<command-name>/rename</command-name><command-args>  </command-args>",
		},
		{
			name: "args without rename marker",
			text: "<command-args>New Title</command-args>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRenameCommandArgs(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRenameStdoutTitle(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "session renamed",
			text:   "<local-command-stdout>Session renamed to: My Project</local-command-stdout>",
			want:   "My Project",
			wantOK: true,
		},
		{
			name:   "session and agent renamed",
			text:   "<local-command-stdout>Session and agent renamed to: Pair Debug</local-command-stdout>",
			want:   "Pair Debug",
			wantOK: true,
		},
		{
			name:   "case insensitive prefix",
			text:   "<local-command-stdout>session Renamed To: lower</local-command-stdout>",
			want:   "lower",
			wantOK: true,
		},
		{
			name: "unrelated stdout",
			text: "<local-command-stdout>done</local-command-stdout>",
		},
		{
			name: "empty remainder",
			text: "<local-command-stdout>Session renamed to: </local-command-stdout>",
		},
		{
			name: "no stdout tag",
			text: "Session renamed to: Not Tagged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRenameStdoutTitle(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

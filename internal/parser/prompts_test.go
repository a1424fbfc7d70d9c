package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessiondex/internal/testjsonl"
)

func parsePromptsFrom(t *testing.T, content string) []SessionPrompt {
	t.Helper()
	path := writeTranscript(t, "sess.jsonl", content)
	prompts, err := ParsePrompts(path, "fallback")
	require.NoError(t, err)
	return prompts
}

func TestParsePrompts_PairsResponses(t *testing.T) {
	prompts := parsePromptsFrom(t, testjsonl.JoinJSONL(
		testjsonl.SystemJSON("s1", "/ws"),
		testjsonl.UserFullJSON("first question", "u1", "s1", "2024-03-01T10:00:00Z"),
		testjsonl.AssistantJSON("part one"),
		testjsonl.AssistantJSON("part two"),
		testjsonl.UserFullJSON("second question", "u2", "s1", "2024-03-01T10:05:00Z"),
		testjsonl.AssistantJSON("final answer"),
	))

	require.Len(t, prompts, 2)

	first := prompts[0]
	assert.Equal(t, "u1", first.PromptID)
	assert.Equal(t, "s1", first.SessionID)
	assert.Equal(t, "first question", first.PromptRaw)
	assert.Equal(t, "first question", first.PromptTitle)
	assert.Equal(t, "part one\npart two", first.ResponseRaw)
	assert.Equal(t, "2024-03-01T10:00:00Z", first.TimestampISO)
	assert.NotZero(t, first.TimestampMs)

	second := prompts[1]
	assert.Equal(t, "u2", second.PromptID)
	assert.Equal(t, "final answer", second.ResponseRaw)
	assert.Greater(t, second.TimestampMs, first.TimestampMs)
}

func TestParsePrompts_SkipsNonDisplayable(t *testing.T) {
	prompts := parsePromptsFrom(t, testjsonl.JoinJSONL(
		testjsonl.UserJSON("<command-name>/model</command-name>"),
		testjsonl.UserJSON("   "),
		testjsonl.UserJSON("real prompt"),
		testjsonl.AssistantJSON("answer"),
	))

	require.Len(t, prompts, 1)
	assert.Equal(t, "real prompt", prompts[0].PromptRaw)
	assert.Equal(t, "answer", prompts[0].ResponseRaw)
}

func TestParsePrompts_AssistantBeforeAnyPromptDropped(t *testing.T) {
	prompts := parsePromptsFrom(t, testjsonl.JoinJSONL(
		testjsonl.AssistantJSON("orphaned"),
		testjsonl.UserJSON("question"),
		testjsonl.AssistantJSON("answer"),
	))

	require.Len(t, prompts, 1)
	assert.Equal(t, "answer", prompts[0].ResponseRaw)
}

func TestParsePrompts_FallbackIdentity(t *testing.T) {
	prompts := parsePromptsFrom(t, testjsonl.JoinJSONL(
		testjsonl.UserJSON("no uuid here"),
		testjsonl.UserJSON("nor here"),
	))

	require.Len(t, prompts, 2)
	assert.Equal(t, "fallback:0", prompts[0].PromptID)
	assert.Equal(t, "fallback:1", prompts[1].PromptID)
	assert.Equal(t, "fallback", prompts[0].SessionID)
	assert.Zero(t, prompts[0].TimestampMs)
	assert.Empty(t, prompts[0].TimestampISO)
}

func TestParsePrompts_ResponseCap(t *testing.T) {
	lines := []string{testjsonl.UserJSON("big session")}
	chunk := repeatChar("a", 1000)
	for i := 0; i < 120; i++ {
		lines = append(lines, testjsonl.AssistantJSON(chunk))
	}

	prompts := parsePromptsFrom(t, testjsonl.JoinJSONL(lines...))

	require.Len(t, prompts, 1)
	assert.Len(t, prompts[0].ResponseRaw, maxResponseLen)
}

func TestParsePrompts_BadTimestampIgnored(t *testing.T) {
	prompts := parsePromptsFrom(t, testjsonl.JoinJSONL(
		testjsonl.UserFullJSON("question", "u1", "s1", "yesterday-ish"),
	))

	require.Len(t, prompts, 1)
	assert.Empty(t, prompts[0].TimestampISO)
	assert.Zero(t, prompts[0].TimestampMs)
}

func TestParsePrompts_MalformedLinesSkipped(t *testing.T) {
	prompts := parsePromptsFrom(t,
		"garbage\n"+
			testjsonl.UserJSON("kept")+"\n"+
			`{"type":"assistant","mess`+"\n"+
			testjsonl.AssistantJSON("answer")+"\n")

	require.Len(t, prompts, 1)
	assert.Equal(t, "kept", prompts[0].PromptRaw)
	assert.Equal(t, "answer", prompts[0].ResponseRaw)
}

func TestParsePrompts_MissingFile(t *testing.T) {
	_, err := ParsePrompts("/nonexistent/sess.jsonl", "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestParsePrompts_ManyPromptsKeepFileOrder(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, testjsonl.UserJSON(fmt.Sprintf("prompt %d", i)))
	}

	prompts := parsePromptsFrom(t, testjsonl.JoinJSONL(lines...))

	require.Len(t, prompts, 10)
	for i, p := range prompts {
		assert.Equal(t, fmt.Sprintf("prompt %d", i), p.PromptRaw)
	}
}

// Package testjsonl provides shared JSONL fixture builders for
// transcript test data. Used by the parser and index test
// packages.
package testjsonl

import (
	"encoding/json"
	"strings"
)

// SystemJSON returns an identity-establishing system record.
func SystemJSON(sessionID, cwd string) string {
	return mustMarshal(map[string]any{
		"type":      "system",
		"sessionId": sessionID,
		"cwd":       cwd,
	})
}

// UserJSON returns a user record. content may be a string, an
// array of blocks, or a single block object.
func UserJSON(content any) string {
	return mustMarshal(map[string]any{
		"type": "user",
		"message": map[string]any{
			"role":    "user",
			"content": content,
		},
	})
}

// UserFullJSON returns a user record with uuid, sessionId, and
// timestamp fields. Empty fields are omitted.
func UserFullJSON(content any, uuid, sessionID, timestamp string) string {
	m := map[string]any{
		"type": "user",
		"message": map[string]any{
			"role":    "user",
			"content": content,
		},
	}
	if uuid != "" {
		m["uuid"] = uuid
	}
	if sessionID != "" {
		m["sessionId"] = sessionID
	}
	if timestamp != "" {
		m["timestamp"] = timestamp
	}
	return mustMarshal(m)
}

// AssistantJSON returns an assistant record.
func AssistantJSON(content any) string {
	return mustMarshal(map[string]any{
		"type": "assistant",
		"message": map[string]any{
			"role":    "assistant",
			"content": content,
		},
	})
}

// CustomTitleJSON returns a custom-title record.
func CustomTitleJSON(title string) string {
	return mustMarshal(map[string]any{
		"type":        "custom-title",
		"customTitle": title,
	})
}

// AgentNameJSON returns an agent-name record.
func AgentNameJSON(name string) string {
	return mustMarshal(map[string]any{
		"type":      "agent-name",
		"agentName": name,
	})
}

// JoinJSONL joins records into newline-delimited JSONL content
// with a trailing newline.
func JoinJSONL(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func mustMarshal(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return string(b)
}

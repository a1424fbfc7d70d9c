package parser

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// maxSearchableLen caps the concatenated text extracted for
// full-text search.
const maxSearchableLen = 200 * 1024

// ExtractSearchableText runs a single streaming pass over a
// transcript file and concatenates all user and assistant
// display text for full-text indexing. User text must be
// displayable; system records and records without a recognized
// role are never included. The pass stops reading as soon as
// the accumulated length reaches maxSearchableLen.
func ExtractSearchableText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		parts []string
		total int
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, initialScanBufSize), maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !gjson.Valid(line) {
			log.Printf("content %s: skipping malformed line", path)
			continue
		}

		recordType := gjson.Get(line, "type").Str
		if recordType != TypeUser && recordType != TypeAssistant {
			continue
		}

		text := ExtractText(gjson.Get(line, "message.content"))
		if strings.TrimSpace(text) == "" {
			continue
		}
		if recordType == TypeUser && !IsDisplayableUserPrompt(text) {
			continue
		}

		parts = append(parts, text)
		total += len(text)
		if total >= maxSearchableLen {
			log.Printf("content %s: cap reached, truncating", path)
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scanning %s: %w", path, err)
	}

	joined := strings.Join(parts, "\n")
	if len(joined) > maxSearchableLen {
		joined = joined[:maxSearchableLen]
	}
	return joined, nil
}

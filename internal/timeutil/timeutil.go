// Package timeutil centralizes timestamp formatting and
// parsing for transcript records.
package timeutil

import "time"

// Format renders t as RFC3339Nano in UTC. Zero times format
// as the empty string.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// Ptr returns Format(t) as a pointer, or nil for zero times.
func Ptr(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := Format(t)
	return &s
}

// ParseISO parses an ISO-8601 timestamp as found in transcript
// records. Returns the zero time and false when s is empty or
// not a valid timestamp.
func ParseISO(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Package update checks whether a newer sessiondex release is
// available.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const defaultReleaseURL = "https://api.github.com/repos/sessiondex/sessiondex/releases/latest"

// Release describes the latest published release.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a release endpoint and compares versions.
// The zero value is not usable; use NewChecker.
type Checker struct {
	client *http.Client
	url    string
}

// NewChecker returns a Checker against the default release
// endpoint. url overrides the endpoint when non-empty (used in
// tests).
func NewChecker(client *http.Client, url string) *Checker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if url == "" {
		url = defaultReleaseURL
	}
	return &Checker{client: client, url: url}
}

// Latest fetches the most recent release.
func (c *Checker) Latest(ctx context.Context) (Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Release{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("fetching latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf(
			"fetching latest release: unexpected status %s", resp.Status,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Release{}, fmt.Errorf("reading release response: %w", err)
	}

	var rel Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return Release{}, fmt.Errorf("parsing release response: %w", err)
	}
	if rel.TagName == "" {
		return Release{}, fmt.Errorf("release response missing tag name")
	}
	return rel, nil
}

// IsNewer reports whether latest is a newer semantic version
// than current. Development builds ("dev" or anything that is
// not a valid version) always count as older.
func IsNewer(latest, current string) bool {
	lv := ensureV(latest)
	if !semver.IsValid(lv) {
		return false
	}
	cv := ensureV(current)
	if !semver.IsValid(cv) {
		return true
	}
	return semver.Compare(lv, cv) > 0
}

func ensureV(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

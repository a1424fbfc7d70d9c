package parser

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
}

func TestCollectTranscriptFiles(t *testing.T) {
	root := t.TempDir()

	touch(t, filepath.Join(root, "proj", "sess.jsonl"))
	touch(t, filepath.Join(root, "proj", "other.jsonl"))
	touch(t, filepath.Join(root, "proj", "nested", "deep.jsonl"))
	touch(t, filepath.Join(root, "proj", "agent-helper.jsonl"))
	touch(t, filepath.Join(root, "proj", "notes.txt"))
	touch(t, filepath.Join(root, "proj", "subagents", "sub.jsonl"))
	touch(t, filepath.Join(root, "subagents", "top.jsonl"))

	files := CollectTranscriptFiles(root)
	sort.Strings(files)

	assert.Equal(t, []string{
		filepath.Join(root, "proj", "nested", "deep.jsonl"),
		filepath.Join(root, "proj", "other.jsonl"),
		filepath.Join(root, "proj", "sess.jsonl"),
	}, files)
}

func TestCollectTranscriptFiles_MissingRoot(t *testing.T) {
	files := CollectTranscriptFiles(
		filepath.Join(t.TempDir(), "does-not-exist"),
	)
	assert.Empty(t, files)
}

func TestCollectTranscriptFiles_EmptyRoot(t *testing.T) {
	assert.Empty(t, CollectTranscriptFiles(t.TempDir()))
}

func TestRootExists(t *testing.T) {
	root := t.TempDir()
	assert.True(t, RootExists(root))
	assert.False(t, RootExists(filepath.Join(root, "missing")))
}

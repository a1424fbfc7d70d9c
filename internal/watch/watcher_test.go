package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresCallback(t *testing.T) {
	_, err := New(time.Millisecond, nil)
	require.Error(t, err)
}

func TestIsTranscriptPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/root/proj/sess.jsonl", true},
		{"/root/proj/agent-helper.jsonl", false},
		{"/root/proj/notes.txt", false},
		{"/root/proj/sess.json", false},
		{"sess.jsonl", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isTranscriptPath(tt.path), tt.path)
	}
}

func TestWatchRoot_SkipsSubagents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(
		filepath.Join(root, "proj", "nested"), 0o755))
	require.NoError(t, os.MkdirAll(
		filepath.Join(root, "proj", "subagents", "inner"), 0o755))

	w, err := New(50*time.Millisecond, func([]string) {})
	require.NoError(t, err)
	defer w.Stop()
	w.Start()

	watched, err := w.WatchRoot(root)
	require.NoError(t, err)
	// root, proj, proj/nested; subagents and its child pruned.
	assert.Equal(t, 3, watched)
}

func TestWatcher_DebouncedCallback(t *testing.T) {
	root := t.TempDir()

	changed := make(chan []string, 1)
	w, err := New(20*time.Millisecond, func(paths []string) {
		select {
		case changed <- paths:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	_, err = w.WatchRoot(root)
	require.NoError(t, err)
	w.Start()

	path := filepath.Join(root, "sess.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	select {
	case paths := <-changed:
		require.Len(t, paths, 1)
		assert.Equal(t, path, paths[0])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
}

func TestWatcher_IgnoresNonTranscripts(t *testing.T) {
	root := t.TempDir()

	changed := make(chan []string, 4)
	w, err := New(20*time.Millisecond, func(paths []string) {
		changed <- paths
	})
	require.NoError(t, err)
	defer w.Stop()

	_, err = w.WatchRoot(root)
	require.NoError(t, err)
	w.Start()

	require.NoError(t, os.WriteFile(
		filepath.Join(root, "agent-x.jsonl"), []byte("{}\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "notes.txt"), []byte("hi"), 0o644))

	select {
	case paths := <-changed:
		t.Fatalf("unexpected callback for %v", paths)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_FlushTiming(t *testing.T) {
	w := &Watcher{
		debounce: time.Second,
		pending:  make(map[string]time.Time),
	}

	var got [][]string
	w.onChange = func(paths []string) { got = append(got, paths) }

	base := time.Now()
	w.now = func() time.Time { return base }
	w.pending["/a.jsonl"] = base.Add(-2 * time.Second)
	w.pending["/b.jsonl"] = base.Add(-100 * time.Millisecond)

	w.flush()

	require.Len(t, got, 1)
	assert.Equal(t, []string{"/a.jsonl"}, got[0])
	assert.Contains(t, w.pending, "/b.jsonl")
	assert.NotContains(t, w.pending, "/a.jsonl")
}

package process

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRelevant(t *testing.T) {
	t.Parallel()

	r := New(lineExtractor{}, WithExtensions(".log"))
	w := &Watcher{runner: r}

	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "a.log", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "a.log", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "a.log", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "a.log", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "a.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, w.relevant(tt.event), "%s", tt.event)
	}
}

func TestResetTimerDropsStaleTick(t *testing.T) {
	t.Parallel()

	timer := time.NewTimer(time.Millisecond)
	// let the tick fire without receiving it
	time.Sleep(20 * time.Millisecond)

	resetTimer(timer, time.Hour)
	select {
	case <-timer.C:
		t.Fatal("stale tick delivered after reset")
	case <-time.After(50 * time.Millisecond):
	}
	timer.Stop()
}

func TestWatcherRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	type change struct {
		path    string
		results []Result
	}
	changes := make(chan change, 8)

	r := New(lineExtractor{}, WithExtensions(".log"))
	w, err := r.NewWatcher([]string{dir}, func(path string, results []Result, err error) {
		if err == nil {
			changes <- change{path, results}
		}
	})
	require.NoError(t, err)
	w.SetDelay(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// a rename delivers the file complete
	tmp := filepath.Join(dir, "app.tmp")
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(tmp, []byte("level=info\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case c := <-changes:
		assert.Equal(t, path, c.path)
		require.Len(t, c.results, 1)
		assert.Equal(t, map[string]any{"level": "info"}, c.results[0].Record.Fields)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

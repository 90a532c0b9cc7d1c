package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"phantomsync/internal/model"
	"phantomsync/internal/pipeline"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, events <-chan model.FileEvent, path string) model.FileEvent {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-events:
			require.True(t, ok, "event channel closed")
			if e.Path == path {
				return e
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_ReportsWritesInNewDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := New(16, []string{"node_modules"})
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	require.NoError(t, w.Watch(dir))

	sub := filepath.Join(dir, "lib")
	require.NoError(t, os.Mkdir(sub, 0755))
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "test.js")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	e := waitFor(t, w.Events(), path)
	assert.True(t, e.IsUpdate())
	assert.NotEmpty(t, e.ID)
}

func TestWatcher_SkipsIgnoredDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0755))

	w, err := New(16, []string{"node_modules"})
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	require.NoError(t, w.Watch(dir))

	assert.NotContains(t, w.fw.WatchList(), filepath.Join(dir, "node_modules"))
	assert.Contains(t, w.fw.WatchList(), dir)
}

func TestWatcher_RootInsideIgnoredDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scripts.tmp")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0755))

	w, err := New(16, []string{"node_modules", "*.tmp"})
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	require.NoError(t, w.Watch(dir))

	assert.Equal(t, dir, w.Root())
	assert.Contains(t, w.fw.WatchList(), filepath.Join(dir, "lib"))
	assert.NotContains(t, w.fw.WatchList(), filepath.Join(dir, "node_modules"))

	events := pipeline.Filter(w.Events(), w.Matcher())

	path := filepath.Join(dir, "lib", "test.js")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	e := waitFor(t, events, path)
	assert.True(t, e.IsUpdate())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(1, nil)
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing")))
}

func TestToEventType(t *testing.T) {
	assert.Equal(t, model.EventCreate, toEventType(fsnotify.Create))
	assert.Equal(t, model.EventWrite, toEventType(fsnotify.Write))
	assert.Equal(t, model.EventRemove, toEventType(fsnotify.Remove))
	assert.Equal(t, model.EventRename, toEventType(fsnotify.Rename))
	assert.Equal(t, model.EventType(""), toEventType(fsnotify.Chmod))
}

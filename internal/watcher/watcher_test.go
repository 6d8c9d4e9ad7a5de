package watcher

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

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestEventTypeFromOp(t *testing.T) {
	assert.Equal(t, EventTypeCreated, eventType(fsnotify.Create))
	assert.Equal(t, EventTypeModified, eventType(fsnotify.Write))
	assert.Equal(t, EventTypeDeleted, eventType(fsnotify.Remove))
	assert.Equal(t, EventTypeRenamed, eventType(fsnotify.Rename))
	assert.Equal(t, EventTypeCreated, eventType(fsnotify.Create|fsnotify.Write))
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.NotNil(t, watcher.logger)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NoError(t, watcher.AddPath(t.TempDir()))
	assert.Error(t, watcher.AddPath("/non/existent/path"))
}

func TestFilters(t *testing.T) {
	html := ExtensionFilter(".html", ".YML")
	assert.True(t, html("page.html"))
	assert.True(t, html("data.yml"))
	assert.False(t, html("main.go"))

	assert.True(t, NoHiddenFilter("dir/page.html"))
	assert.False(t, NoHiddenFilter("dir/.page.html.swp"))
}

func TestDebouncerBatches(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.start(ctx)

	d.Add(ChangeEvent{Type: EventTypeCreated, Path: "b.txt"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "a.txt"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "b.txt"})

	select {
	case batch := <-d.Output():
		require.Len(t, batch, 2)
		assert.Equal(t, "a.txt", batch[0].Path)
		assert.Equal(t, "b.txt", batch[1].Path)
		assert.Equal(t, EventTypeModified, batch[1].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}

	// An empty flush sends nothing.
	d.flush()
	select {
	case batch := <-d.Output():
		t.Fatalf("unexpected batch %v", batch)
	default:
	}
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "page.html")
	other := filepath.Join(dir, "other.html")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))

	watcher, err := NewFileWatcher(30*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	batches := make(chan []ChangeEvent, 10)
	watcher.AddHandler(func(events []ChangeEvent) error {
		batches <- events
		return nil
	})
	require.NoError(t, watcher.WatchFiles(target))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("v3"), 0o644))

	select {
	case events := <-batches:
		require.Len(t, events, 1)
		assert.Equal(t, target, events[0].Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

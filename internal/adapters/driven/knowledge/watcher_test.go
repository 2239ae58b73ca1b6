package knowledge

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

func TestWatcher_Relevant(t *testing.T) {
	w := NewWatcher("/data/kb.json", 0)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: "/data/kb.json", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/data/kb.json", Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: "/data/kb.json", Op: fsnotify.Rename}, true},
		{"write and chmod", fsnotify.Event{Name: "/data/kb.json", Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: "/data/kb.json", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/data/kb.json", Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: "/data/other.json", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestWatcher_DefaultDebounce(t *testing.T) {
	assert.Equal(t, DefaultDebounce, NewWatcher("kb.json", 0).debounce)
	assert.Equal(t, time.Second, NewWatcher("kb.json", time.Second).debounce)
}

func TestWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := NewWatcher(path, 20*time.Millisecond).Watch(ctx)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path, []byte(`{"personal": {}}`), 0600)
		_ = os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0600)
	}()

	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}

	cancel()
	select {
	case _, ok := <-changes:
		for ok {
			_, ok = <-changes
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "kb.json"), 0).Watch(context.Background())
	assert.Error(t, err)
}

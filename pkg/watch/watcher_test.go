package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/husk/pkg/config"
)

func newWatcher(t *testing.T, root string, debounce time.Duration) *Watcher {
	t.Helper()
	w, err := NewWatcher(root, config.DefaultConfig(), debounce)
	require.NoError(t, err)
	w.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestNewWatcher(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name     string
		debounce time.Duration
		want     time.Duration
	}{
		{"default debounce", 0, DefaultDebounce},
		{"negative debounce defaults", -time.Second, DefaultDebounce},
		{"custom debounce", time.Second, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWatcher(t, root, tt.debounce)
			assert.Equal(t, tt.want, w.debounce)
			assert.Equal(t, root, w.root)
			assert.NotNil(t, w.pending)
		})
	}
}

func TestWatcher_Relevant(t *testing.T) {
	root := t.TempDir()
	w := newWatcher(t, root, time.Second)

	tests := []struct {
		path string
		want bool
	}{
		{"src/app.ts", true},
		{"src/App.vue", true},
		{"package.json", true},
		{"README.md", false},
		{"tsconfig.json", false},
		{"node_modules/react/index.js", false},
		{"dist/bundle.js", false},
		{"vendor.min.js", false},
		{"types/global.d.ts", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Relevant(filepath.Join(root, tt.path)))
		})
	}
}

func TestWatcher_handleEvent(t *testing.T) {
	root := t.TempDir()
	w := newWatcher(t, root, time.Second)

	tests := []struct {
		name string
		op   fsnotify.Op
		file string
		want bool
	}{
		{"write", fsnotify.Write, "a.ts", true},
		{"create", fsnotify.Create, "new.tsx", true},
		{"remove", fsnotify.Remove, "gone.js", true},
		{"rename", fsnotify.Rename, "moved.js", true},
		{"chmod ignored", fsnotify.Chmod, "a.ts", false},
		{"unsupported extension", fsnotify.Write, "notes.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.mu.Lock()
			w.pending = make(map[string]time.Time)
			w.mu.Unlock()

			path := filepath.Join(root, tt.file)
			w.handleEvent(fsnotify.Event{Name: path, Op: tt.op})

			w.mu.Lock()
			_, found := w.pending[path]
			w.mu.Unlock()
			assert.Equal(t, tt.want, found)
		})
	}
}

func TestWatcher_CreatedDirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	w := newWatcher(t, root, time.Second)
	require.NoError(t, w.addTree(root))

	sub := filepath.Join(root, "components")
	require.NoError(t, os.Mkdir(sub, 0o755))
	w.handleEvent(fsnotify.Event{Name: sub, Op: fsnotify.Create})
	assert.Contains(t, w.WatchedDirs(), sub)

	ignored := filepath.Join(root, "node_modules")
	require.NoError(t, os.Mkdir(ignored, 0o755))
	w.handleEvent(fsnotify.Event{Name: ignored, Op: fsnotify.Create})
	assert.NotContains(t, w.WatchedDirs(), ignored)
}

func TestWatcher_addTree(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src/lib", "node_modules/react", ".git/objects"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	w := newWatcher(t, root, time.Second)
	require.NoError(t, w.addTree(root))

	watched := w.WatchedDirs()
	assert.Contains(t, watched, root)
	assert.Contains(t, watched, filepath.Join(root, "src"))
	assert.Contains(t, watched, filepath.Join(root, "src", "lib"))
	assert.NotContains(t, watched, filepath.Join(root, "node_modules"))
	assert.NotContains(t, watched, filepath.Join(root, ".git"))
}

func TestWatcher_addTree_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	w := newWatcher(t, missing, time.Second)
	assert.Error(t, w.addTree(missing))
}

func TestWatcher_takeReady(t *testing.T) {
	w := newWatcher(t, t.TempDir(), time.Second)
	now := time.Now()

	w.mu.Lock()
	w.pending["/p/b.ts"] = now.Add(-2 * time.Second)
	w.pending["/p/a.ts"] = now.Add(-time.Second)
	w.pending["/p/fresh.ts"] = now
	w.mu.Unlock()

	assert.Equal(t, []string{"/p/a.ts", "/p/b.ts"}, w.takeReady(now))

	w.mu.Lock()
	_, stillPending := w.pending["/p/fresh.ts"]
	w.mu.Unlock()
	assert.True(t, stillPending)
	assert.Empty(t, w.takeReady(now))
}

func TestWatcher_Start(t *testing.T) {
	root := t.TempDir()
	w := newWatcher(t, root, 50*time.Millisecond)

	var mu sync.Mutex
	var batches [][]string
	w.SetCallback(func(ctx context.Context, changed []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, changed)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool {
		return len(w.WatchedDirs()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	path := filepath.Join(root, "app.ts")
	require.NoError(t, os.WriteFile(path, []byte("const a = 1;\n"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0 && batches[0][0] == path
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

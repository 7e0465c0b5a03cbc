package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, debounce time.Duration) (*Watcher, chan struct{}) {
	t.Helper()
	fired := make(chan struct{}, 16)
	w, err := New(debounce, func() { fired <- struct{}{} })
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	return w, fired
}

func waitForChange(t *testing.T, fired chan struct{}) {
	t.Helper()
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcherFiresOnNewImage(t *testing.T) {
	dir := t.TempDir()
	w, fired := newTestWatcher(t, 30*time.Millisecond)
	require.NoError(t, w.SetFolder(dir))
	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.jpg"), []byte("x"), 0o644))
	waitForChange(t, fired)
}

func TestWatcherIgnoresUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	w, fired := newTestWatcher(t, 30*time.Millisecond)
	require.NoError(t, w.SetFolder(dir))
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-fired:
		t.Fatal("non-image file must not trigger a refresh")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w, fired := newTestWatcher(t, 150*time.Millisecond)
	require.NoError(t, w.SetFolder(dir))
	require.NoError(t, w.Start())

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "burst"+string(rune('a'+i))+".png")
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}
	waitForChange(t, fired)

	// The burst settles into one notification, not five.
	select {
	case <-fired:
		t.Fatal("burst of writes produced more than one notification")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherSwitchesFolder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	w, fired := newTestWatcher(t, 30*time.Millisecond)
	require.NoError(t, w.SetFolder(first))
	require.NoError(t, w.Start())
	require.NoError(t, w.SetFolder(second))
	assert.Equal(t, second, w.Folder())

	require.NoError(t, os.WriteFile(filepath.Join(second, "a.jpg"), []byte("x"), 0o644))
	waitForChange(t, fired)
}

func TestSetFolderRejectsMissingDirectory(t *testing.T) {
	w, _ := newTestWatcher(t, 30*time.Millisecond)
	assert.Error(t, w.SetFolder(filepath.Join(t.TempDir(), "missing")))
}

func TestSetFolderRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	w, _ := newTestWatcher(t, 30*time.Millisecond)
	assert.Error(t, w.SetFolder(file))
}

func TestStartTwiceFails(t *testing.T) {
	w, _ := newTestWatcher(t, 30*time.Millisecond)
	require.NoError(t, w.Start())
	assert.Error(t, w.Start())
}

func TestStopIsIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t, 30*time.Millisecond)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())
}

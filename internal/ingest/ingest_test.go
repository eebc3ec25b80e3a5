package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestAllowedExt(t *testing.T) {
	for _, ext := range []string{".png", "JPG", ".jpeg", "webp", ".tiff", ".bmp", ".gif"} {
		assert.True(t, AllowedExt(ext), ext)
	}
	for _, ext := range []string{".pdf", ".txt", ""} {
		assert.False(t, AllowedExt(ext), ext)
	}
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.png"))
	touch(t, filepath.Join(root, "nested", "b.JPG"))
	touch(t, filepath.Join(root, "notes.pdf"))
	touch(t, filepath.Join(root, ".hidden", "c.png"))
	touch(t, filepath.Join(root, "bad.png"))

	var seen []string
	results, stats, err := ScanDirectory(context.Background(), root, true, func(_ context.Context, path string) error {
		seen = append(seen, filepath.Base(path))
		if filepath.Base(path) == "bad.png" {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.png", "b.JPG", "bad.png"}, seen)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(2), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.Len(t, results, 3)
}

func TestScanDirectoryRequiresRoot(t *testing.T) {
	_, _, err := ScanDirectory(context.Background(), " ", false, nil)
	assert.Error(t, err)
}

func TestWatcherEmitsExistingAndNew(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "old.png"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	select {
	case p := <-events:
		assert.Equal(t, "old.png", filepath.Base(p))
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan did not emit")
	}

	touch(t, filepath.Join(root, "new.jpg"))
	touch(t, filepath.Join(root, "ignored.pdf"))
	select {
	case p := <-events:
		assert.Equal(t, "new.jpg", filepath.Base(p))
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not emit new file")
	}

	cancel()
	for range events {
	}
}

func TestWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportsWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "types.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("types: []\n"), 0o644))

	w, err := New([]string{target}, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(changed []string) { changes <- changed })
	}()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("types: [{name: A, kind: struct}]\n"), 0o644))

	select {
	case changed := <-changes:
		want, _ := filepath.Abs(target)
		assert.Equal(t, []string{want}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunDetectsReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "types.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o644))

	w, err := New([]string{target}, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan []string, 4)
	go w.Run(ctx, func(changed []string) { changes <- changed })

	tmp := filepath.Join(dir, ".types.json.swp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"types": []}`), 0o644))
	require.NoError(t, os.Rename(tmp, target))

	select {
	case changed := <-changes:
		require.Len(t, changed, 1)
		assert.Equal(t, "types.json", filepath.Base(changed[0]))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, 0)
	assert.ErrorContains(t, err, "no files to watch")

	_, err = New([]string{filepath.Join(t.TempDir(), "missing", "a.yaml")}, 0)
	assert.ErrorContains(t, err, "watch directory")
}

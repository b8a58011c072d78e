package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestListManifests(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "b.pdf"), "pdf b")
	write(t, filepath.Join(root, "a.TXT"), "text a")
	write(t, filepath.Join(root, "sub", "c.txt"), "text c")
	write(t, filepath.Join(root, "sub", "copy-of-a.txt"), "text a")
	write(t, filepath.Join(root, "notes.docx"), "ignored")
	write(t, filepath.Join(root, ".hidden", "d.pdf"), "hidden")

	files, stats, err := ListManifests(context.Background(), root, true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a.TXT"),
		filepath.Join(root, "b.pdf"),
		filepath.Join(root, "sub", "c.txt"),
	}, Paths(files))
	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(1), stats.Duplicates)
	assert.Equal(t, uint32(0), stats.Failed)
	assert.Equal(t, "txt", files[0].Ext)
	assert.Len(t, files[0].HashHex, 64)

	files, _, err = ListManifests(context.Background(), root, false)
	require.NoError(t, err)
	assert.Contains(t, Paths(files), filepath.Join(root, ".hidden", "d.pdf"))
}

func TestListManifests_Errors(t *testing.T) {
	_, _, err := ListManifests(context.Background(), " ", true)
	assert.Error(t, err)

	_, _, err = ListManifests(context.Background(), filepath.Join(t.TempDir(), "missing"), true)
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = ListManifests(ctx, t.TempDir(), true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeduper(t *testing.T) {
	d := NewDeduper()
	first, fresh := d.Mark("h1", "a.pdf")
	assert.True(t, fresh)
	assert.Equal(t, "a.pdf", first)

	first, fresh = d.Mark("h1", "b.pdf")
	assert.False(t, fresh)
	assert.Equal(t, "a.pdf", first)
}

func receive(t *testing.T, ch <-chan string, timeout time.Duration) (string, bool) {
	t.Helper()
	select {
	case p, ok := <-ch:
		return p, ok
	case <-time.After(timeout):
		return "", false
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	outbox := filepath.Join(root, "out")
	write(t, filepath.Join(root, "existing.pdf"), "x")
	require.NoError(t, os.MkdirAll(outbox, 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		Exclude:     []string{outbox},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	p, ok := receive(t, events, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "existing.pdf"), p)

	write(t, filepath.Join(outbox, "report.txt"), "not an input")
	write(t, filepath.Join(root, "skip.docx"), "x")
	write(t, filepath.Join(root, "new.txt"), "manifest")

	p, ok = receive(t, events, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "new.txt"), p)

	_, ok = receive(t, events, 200*time.Millisecond)
	assert.False(t, ok, "only one event expected for new.txt")

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}

package async

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/joseph-ayodele/dc-receiving/internal/core"
)

type recordingProcessor struct {
	mu    sync.Mutex
	paths []string
	fail  map[string]bool
	block chan struct{}
}

func (r *recordingProcessor) ProcessFile(_ context.Context, path string) (core.Outcome, error) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	if r.fail[path] {
		return core.Outcome{Path: path}, errors.New("boom")
	}
	return core.Outcome{Path: path}, nil
}

func TestProcessorQueue_ProcessesAndReports(t *testing.T) {
	proc := &recordingProcessor{fail: map[string]bool{"bad.pdf": true}}
	var mu sync.Mutex
	results := map[string]error{}
	q := NewProcessorQueue(proc, zaptest.NewLogger(t),
		WithWorkers(3),
		WithQueueSize(2),
		WithResultHandler(func(job Job, _ core.Outcome, err error) {
			mu.Lock()
			results[job.Path] = err
			mu.Unlock()
		}),
	)

	paths := []string{"a.pdf", "b.pdf", "bad.pdf", "c.txt", "d.txt"}
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p}))
	}
	q.Shutdown(context.Background())

	got := append([]string(nil), proc.paths...)
	sort.Strings(got)
	want := append([]string(nil), paths...)
	sort.Strings(want)
	assert.Equal(t, want, got)

	require.Len(t, results, len(paths))
	assert.Error(t, results["bad.pdf"])
	assert.NoError(t, results["a.pdf"])
}

func TestProcessorQueue_EnqueueAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&recordingProcessor{}, zaptest.NewLogger(t))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{Path: "late.pdf"}), ErrQueueClosed)
}

func TestProcessorQueue_EnqueueHonoursContextWhenFull(t *testing.T) {
	proc := &recordingProcessor{block: make(chan struct{})}
	q := NewProcessorQueue(proc, zaptest.NewLogger(t), WithWorkers(1), WithQueueSize(1))

	// one job held by the worker, one filling the buffer
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "1.pdf"}))
	require.Eventually(t, func() bool { return len(q.ch) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "2.pdf"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Enqueue(ctx, Job{Path: "3.pdf"}), context.DeadlineExceeded)

	close(proc.block)
	q.Shutdown(context.Background())
	assert.Len(t, proc.paths, 2)
}

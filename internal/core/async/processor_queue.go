package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/dc-receiving/internal/core"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// FileProcessor is the part of core.Processor the queue needs.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (core.Outcome, error)
}

// ResultHandler receives every finished job on the worker goroutine.
type ResultHandler func(job Job, out core.Outcome, err error)

type ProcessorQueue struct {
	proc    FileProcessor
	logger  *zap.Logger
	workers int
	timeout time.Duration
	handle  ResultHandler

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}
func WithResultHandler(h ResultHandler) Option {
	return func(q *ProcessorQueue) {
		q.handle = h
	}
}

func NewProcessorQueue(proc FileProcessor, logger *zap.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("queue.worker.started", zap.Int("worker_id", workerID))

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					out, err := q.proc.ProcessFile(ctx, job.Path)
					cancel()

					if err != nil {
						q.logger.Error("queue.job.failed", zap.Int("worker_id", workerID), zap.String("path", job.Path), zap.Error(err))
					} else {
						q.logger.Info("queue.job.done",
							zap.Int("worker_id", workerID),
							zap.String("path", job.Path),
							zap.String("status", string(out.Result.Status)),
							zap.Duration("waited", time.Since(job.SubmittedAt)),
						)
					}
					if q.handle != nil {
						q.handle(job, out, err)
					}
				}

				q.logger.Debug("queue.worker.stopped", zap.Int("worker_id", workerID))
			}(i + 1)
		}
	})
}

// Enqueue blocks while the queue is full, until ctx is done.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.closed", zap.String("path", job.Path))
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueue.ok", zap.String("path", job.Path))
		return nil
	default:
	}
	q.logger.Warn("queue.enqueue.backpressure", zap.String("path", job.Path))
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish or ctx to end.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
	case <-done:
		q.logger.Info("queue.shutdown.drained")
	}
}

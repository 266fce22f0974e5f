package async

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job asks for one bulletin file to be parsed.
type Job struct {
	Path string
}

// Handler parses one job.
type Handler func(ctx context.Context, job Job) error

// FileQueue runs jobs from watch mode on a fixed pool of workers. Each job is a
// whole bulletin: the handler opens, parses and exports it under its own timeout,
// so one slow bulletin occupies one worker and never the shard pool of another.
type FileQueue struct {
	handle  Handler
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type QueueOption func(*FileQueue)

func WithQueueWorkers(n int) QueueOption {
	return func(q *FileQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) QueueOption {
	return func(q *FileQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithJobTimeout(d time.Duration) QueueOption {
	return func(q *FileQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewFileQueue(handle Handler, logger *slog.Logger, opts ...QueueOption) *FileQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &FileQueue{
		handle:  handle,
		logger:  logger,
		workers: 1,
		timeout: 10 * time.Minute,
		ch:      make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *FileQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.handle(ctx, job)
					cancel()

					if err != nil {
						q.logger.Error("bulletin parse failed", "worker_id", workerID, "path", job.Path, "error", err)
					} else {
						q.logger.Info("bulletin parsed", "worker_id", workerID, "path", job.Path)
					}
				}
			}(i + 1)
		}
	})
}

// Enqueue adds a job, blocking when the queue is full. Jobs after Shutdown are dropped.
func (q *FileQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued bulletin", "path", job.Path)
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

// Shutdown stops accepting jobs and waits for queued ones, or for ctx.
func (q *FileQueue) Shutdown(ctx context.Context) {
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
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}

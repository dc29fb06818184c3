// Package async runs card processing off a bounded in-process queue, fed by
// the drop-folder watcher.
package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Job is the smallest useful unit. Extend as needed later (profile, trace, retry, etc).
type Job struct {
	Path        string
	Force       bool // process even if the content hash is already stored
	SubmittedAt time.Time
}

// Processor handles one card job; implementations decide what "handle" means.
type Processor interface {
	Process(ctx context.Context, job Job) error
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
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
			q.size = n
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

// ProcessorQueue fans jobs out to a fixed worker pool.
type ProcessorQueue struct {
	processor Processor
	logger    *slog.Logger
	workers   int
	size      int
	timeout   time.Duration

	jobs chan Job
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewProcessorQueue(p Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		processor: p,
		logger:    logger,
		workers:   4,
		size:      256,
		timeout:   time.Minute,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.size)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.run()
	}
	return q
}

func (q *ProcessorQueue) run() {
	defer q.wg.Done()
	for job := range q.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		if err := q.processor.Process(ctx, job); err != nil {
			q.logger.Error("job failed", "path", job.Path, "error", err)
		}
		cancel()
	}
}

// Enqueue submits a job; it fails fast when the queue is full or shut down.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errors.New("queue is shut down")
	}
	q.mu.Unlock()

	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("queue is full")
	}
}

// Shutdown stops intake and waits for in-flight jobs, bounded by ctx.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		q.logger.Warn("queue shutdown timed out", "error", ctx.Err())
	}
}

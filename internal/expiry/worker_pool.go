package expiry

import (
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// WorkerPool bounds the number of charges expired concurrently per sweep
type WorkerPool struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// NewWorkerPool creates a worker pool with the specified size
func NewWorkerPool(size int, logger *slog.Logger) (*WorkerPool, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	return &WorkerPool{
		pool:   pool,
		logger: logger,
	}, nil
}

// Submit hands a task to the pool, blocking while all workers are busy
func (w *WorkerPool) Submit(task func()) error {
	return w.pool.Submit(task)
}

// Running returns the number of running workers in the pool
func (w *WorkerPool) Running() int {
	return w.pool.Running()
}

// Release gracefully shuts down the worker pool
func (w *WorkerPool) Release() {
	w.logger.Info("Shutting down worker pool", "running_workers", w.pool.Running())
	w.pool.Release()
}

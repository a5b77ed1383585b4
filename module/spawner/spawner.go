package spawner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"
)

// ErrSpawnerStopped is returned when a task is submitted to a spawner that was already stopped.
var ErrSpawnerStopped = errors.New("spawner stopped")

// Spawner runs tasks that may block for a long time (e.g. waiting on a reply from another
// subsystem) outside of the goroutine of the calling subsystem.
type Spawner interface {
	// SpawnBlocking schedules the task for execution on a blocking worker. The name and group
	// identify the task in logs. It returns ErrSpawnerStopped if the spawner no longer accepts work,
	// in which case the task is never executed.
	SpawnBlocking(name string, group string, task func()) error
}

// WorkerPool is a Spawner backed by a fixed number of workers.
// Tasks beyond the number of workers are queued without bound.
type WorkerPool struct {
	log     zerolog.Logger
	pool    *workerpool.WorkerPool
	mu      sync.RWMutex
	stopped bool
}

var _ Spawner = (*WorkerPool)(nil)

func NewWorkerPool(log zerolog.Logger, workers int) (*WorkerPool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("spawner requires at least one worker, got %d", workers)
	}
	return &WorkerPool{
		log:  log.With().Str("component", "spawner").Logger(),
		pool: workerpool.New(workers),
	}, nil
}

func (w *WorkerPool) SpawnBlocking(name string, group string, task func()) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrSpawnerStopped
	}

	log := w.log.With().Str("task", name).Str("group", group).Logger()
	w.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("blocking task panicked")
			}
		}()
		log.Trace().Msg("running blocking task")
		task()
	})
	return nil
}

// Pending returns the number of tasks waiting for a free worker.
func (w *WorkerPool) Pending() int {
	return w.pool.WaitingQueueSize()
}

// Stop stops accepting new tasks and waits for all queued tasks to finish.
// Calling Stop more than once is a no-op.
func (w *WorkerPool) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	w.pool.StopWait()
	w.log.Debug().Msg("spawner stopped")
}

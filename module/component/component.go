package component

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/util"
)

// Component is a long-running unit of the node, such as the orchestrator or the
// relay-chain simulator. Done closes after Start was called and every worker returned.
type Component interface {
	module.Startable
	module.ReadyDoneAware
}

// ReadyFunc marks the calling worker as ready.
type ReadyFunc func()

// ComponentWorker is a routine run by a ComponentManager. Exceptions are thrown on ctx.
type ComponentWorker func(ctx irrecoverable.SignalerContext, ready ReadyFunc)

// ComponentManagerBuilder collects workers before the manager is built.
type ComponentManagerBuilder interface {
	AddWorker(ComponentWorker) ComponentManagerBuilder
	Build() *ComponentManager
}

type managerBuilder struct {
	workers []ComponentWorker
}

func NewComponentManagerBuilder() ComponentManagerBuilder {
	return &managerBuilder{}
}

// AddWorker is not safe for concurrent use.
func (b *managerBuilder) AddWorker(worker ComponentWorker) ComponentManagerBuilder {
	b.workers = append(b.workers, worker)
	return b
}

func (b *managerBuilder) Build() *ComponentManager {
	return &ComponentManager{
		started: atomic.NewBool(false),
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
		workers: b.workers,
	}
}

var _ Component = (*ComponentManager)(nil)

// ComponentManager runs a fixed set of workers under one signaler context.
// Cancelling the context passed to Start shuts every worker down. The first exception
// thrown by a worker cancels the others and is rethrown on the parent context.
type ComponentManager struct {
	started *atomic.Bool
	ready   chan struct{}
	done    chan struct{}
	workers []ComponentWorker
}

// Start panics with module.ErrMultipleStartup when called twice.
func (c *ComponentManager) Start(parent irrecoverable.SignalerContext) {
	if !c.started.CompareAndSwap(false, true) {
		panic(module.ErrMultipleStartup)
	}

	ctx, cancel := context.WithCancel(parent)
	signalerCtx, errChan := irrecoverable.WithSignaler(ctx)

	var readyWg, doneWg sync.WaitGroup
	readyWg.Add(len(c.workers))
	doneWg.Add(len(c.workers))
	for _, worker := range c.workers {
		worker := worker
		go func() {
			defer doneWg.Done()
			var once sync.Once
			worker(signalerCtx, func() { once.Do(readyWg.Done) })
		}()
	}

	go func() {
		readyWg.Wait()
		close(c.ready)
	}()

	workersDone := make(chan struct{})
	go func() {
		doneWg.Wait()
		close(workersDone)
	}()

	// the error is forwarded to the parent before done closes. Throw exits the
	// goroutine, hence the deferred close.
	go func() {
		defer func() {
			<-workersDone
			close(c.done)
		}()
		err := util.WaitError(errChan, workersDone)
		cancel()
		if err != nil {
			parent.Throw(err)
		}
	}()
}

// Ready closes once every worker called its ReadyFunc. A worker returning before
// that keeps Ready open forever.
func (c *ComponentManager) Ready() <-chan struct{} {
	return c.ready
}

func (c *ComponentManager) Done() <-chan struct{} {
	return c.done
}

package batch

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Dispatcher supplies the worker goroutines that per-file transforms run
// on. Event callbacks fire on these workers.
type Dispatcher interface {
	// Go schedules fn onto the dispatcher's workers. It may block until a
	// worker is free.
	Go(fn func())

	// LatencySensitive reports whether the workers are shared with
	// interactive rendering. Such dispatchers must not carry bulk file
	// I/O; the orchestrator rejects them before touching any file.
	LatencySensitive() bool
}

// PoolDispatcher runs tasks on a bounded pool of goroutines.
type PoolDispatcher struct {
	group errgroup.Group
}

// NewPoolDispatcher creates a dispatcher with the given worker limit.
// Non-positive workers defaults to the number of CPUs.
func NewPoolDispatcher(workers int) *PoolDispatcher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	d := &PoolDispatcher{}
	d.group.SetLimit(workers)

	return d
}

// Go schedules fn, blocking while all workers are busy.
func (d *PoolDispatcher) Go(fn func()) {
	d.group.Go(func() error {
		fn()

		return nil
	})
}

// Wait blocks until every scheduled task has returned.
func (d *PoolDispatcher) Wait() {
	d.group.Wait() //nolint:errcheck // tasks never return errors
}

// LatencySensitive always reports false; pool workers carry no
// interactive work.
func (d *PoolDispatcher) LatencySensitive() bool { return false }

// SerialDispatcher mimics a single-threaded event-loop executor: tasks run
// one at a time, in submission order, on the submitting goroutine. It
// exists for ordered delivery of lightweight notifications; the
// orchestrator refuses it for batch transforms.
type SerialDispatcher struct {
	mu sync.Mutex
}

// Go runs fn inline, serialized with every other task.
func (d *SerialDispatcher) Go(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fn()
}

// LatencySensitive always reports true.
func (d *SerialDispatcher) LatencySensitive() bool { return true }

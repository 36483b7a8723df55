package batch

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolDispatcherRunsAllTasks(t *testing.T) {
	t.Parallel()

	d := NewPoolDispatcher(3)

	var count atomic.Int64

	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)

		d.Go(func() {
			defer wg.Done()

			count.Add(1)
		})
	}

	wg.Wait()

	if got := count.Load(); got != 20 {
		t.Fatalf("ran %d tasks, want 20", got)
	}

	if d.LatencySensitive() {
		t.Fatal("pool dispatcher must not report latency-sensitive")
	}
}

func TestPoolDispatcherBoundsConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 2

	d := NewPoolDispatcher(limit)

	var (
		current atomic.Int64
		peak    atomic.Int64
		wg      sync.WaitGroup
	)

	for range 10 {
		wg.Add(1)

		d.Go(func() {
			defer wg.Done()

			n := current.Add(1)
			defer current.Add(-1)

			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
		})
	}

	wg.Wait()

	if p := peak.Load(); p > limit {
		t.Fatalf("peak concurrency %d exceeds limit %d", p, limit)
	}
}

func TestSerialDispatcherIsLatencySensitive(t *testing.T) {
	t.Parallel()

	d := &SerialDispatcher{}

	if !d.LatencySensitive() {
		t.Fatal("serial dispatcher must report latency-sensitive")
	}

	ran := false
	d.Go(func() { ran = true })

	if !ran {
		t.Fatal("task did not run")
	}
}

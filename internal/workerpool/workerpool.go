// Package workerpool runs index-range jobs on a fixed set of goroutines.
//
// The pool is built once per run and shared by every engine. Callers hand it
// a flat range [0, n) and a function; each index is visited exactly once and
// the call returns only after all work is done.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type Pool struct {
	numWorkers int
	jobs       chan job
	closeOnce  sync.Once
	closed     atomic.Bool
}

type job struct {
	fn   func()
	done *sync.WaitGroup
}

// New starts numWorkers goroutines. numWorkers <= 0 means GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan job, numWorkers*2),
	}
	for w := 0; w < numWorkers; w++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for j := range p.jobs {
		j.fn()
		j.done.Done()
	}
}

// NumWorkers returns the pool size. A nil pool reports 1.
func (p *Pool) NumWorkers() int {
	if p == nil {
		return 1
	}
	return p.numWorkers
}

// Close stops the workers. Later calls run sequentially on the caller.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.jobs)
	})
}

// ParallelFor splits [0, n) into one contiguous chunk per worker.
// A nil or closed pool runs fn(0, n) inline.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.closed.Load() {
		fn(0, n)
		return
	}
	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		s := start
		wg.Add(1)
		p.jobs <- job{fn: func() { fn(s, end) }, done: &wg}
	}
	wg.Wait()
}

// ParallelForEach hands out indices one at a time from a shared counter, for
// items whose cost varies a lot (pixel sort lines with long runs).
func (p *Pool) ParallelForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.closed.Load() || min(p.numWorkers, n) == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	workers := min(p.numWorkers, n)
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		p.jobs <- job{
			fn: func() {
				for {
					i := int(next.Add(1)) - 1
					if i >= n {
						return
					}
					fn(i)
				}
			},
			done: &wg,
		}
	}
	wg.Wait()
}

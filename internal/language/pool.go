package language

import (
	"context"
	"errors"
	"sync"
)

// job is a unit of work run by the pool.
type job func(ctx context.Context)

// ErrPoolClosed is returned by submit after close.
var ErrPoolClosed = errors.New("language: worker pool closed")

// workerPool runs jobs on a fixed number of goroutines.
type workerPool struct {
	jobs    chan job
	wg      sync.WaitGroup
	workers int
	closeMu sync.Mutex
	closed  bool
}

func newWorkerPool(workers, queue int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &workerPool{jobs: make(chan job, queue), workers: workers}
}

// start runs the workers until ctx is done or close is called.
func (p *workerPool) start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.jobs:
					if !ok {
						return
					}
					j(ctx)
				}
			}
		}()
	}
}

// submit enqueues j, giving up when ctx is canceled.
func (p *workerPool) submit(ctx context.Context, j job) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting jobs and waits for the workers.
func (p *workerPool) close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
}

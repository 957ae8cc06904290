package workerpool

import (
	"sync"

	"github.com/subpiece/subpiece/errors"
)

// Job is a unit of work submitted to a Pool.
type Job func() error

// Pool runs submitted jobs on a fixed number of worker goroutines.
// A Pool may be reused: after Wait returns, more jobs can be added.
type Pool struct {
	m       sync.Mutex
	cond    *sync.Cond
	queue   []Job
	active  int
	errs    errors.Errors
	stopped bool
}

// New creates a pool with the given number of workers.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.m)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

// Add enqueues jobs without blocking.
func (p *Pool) Add(jobs []Job) {
	p.m.Lock()
	defer p.m.Unlock()
	if p.stopped {
		return
	}
	p.queue = append(p.queue, jobs...)
	p.cond.Broadcast()
}

// AddBlocking is Add; it exists so call sites can document that they
// expect enqueueing to synchronize with a subsequent Wait.
func (p *Pool) AddBlocking(jobs []Job) {
	p.Add(jobs)
}

// Wait blocks until every enqueued job has finished and returns the
// combined error of all failed jobs, if any. The error state is cleared
// so the pool can be reused.
func (p *Pool) Wait() error {
	p.m.Lock()
	defer p.m.Unlock()
	for len(p.queue) > 0 || p.active > 0 {
		p.cond.Wait()
	}
	var err error
	if p.errs != nil {
		err = p.errs
		p.errs = nil
	}
	return err
}

// Stop discards any queued jobs and prevents new ones from being added.
// Jobs already running are allowed to finish; use Wait to synchronize.
func (p *Pool) Stop() {
	p.m.Lock()
	defer p.m.Unlock()
	p.stopped = true
	p.queue = nil
	p.cond.Broadcast()
}

func (p *Pool) run() {
	for {
		p.m.Lock()
		for len(p.queue) == 0 && !p.stopped {
			p.cond.Wait()
		}
		if p.stopped && len(p.queue) == 0 {
			p.m.Unlock()
			return
		}
		job := p.queue[0]
		p.queue = p.queue[1:]
		p.active++
		p.m.Unlock()

		err := job()

		p.m.Lock()
		p.active--
		p.errs = errors.Append(p.errs, err)
		p.cond.Broadcast()
		p.m.Unlock()
	}
}

package prefetch

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultWorkers is the worker count when none is given.
const DefaultWorkers = 4

// WorkFunc resolves one warm job. Failures are the work function's
// concern; the pool just drains.
type WorkFunc func(ctx context.Context, job Job)

// Pool drains a queue with a fixed set of workers.
type Pool struct {
	queue   *Queue
	workers int
	work    WorkFunc
	log     *log.Logger
	wg      sync.WaitGroup
}

// NewPool creates a pool over queue. Zero or negative workers means
// DefaultWorkers.
func NewPool(queue *Queue, workers int, work WorkFunc, logger *log.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Pool{
		queue:   queue,
		workers: workers,
		work:    work,
		log:     logger.With("component", "prefetch"),
	}
}

// Start launches the workers. They exit when the queue is closed and
// drained; a canceled ctx stops a worker at its next job, so closing
// the queue remains the shutdown signal.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
	p.log.Debug("warm workers started", "workers", p.workers)
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		job, err := p.queue.Dequeue()
		if err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		p.work(ctx, job)
	}
}

package plagiarism

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// Job is one unit of comparison work.
type Job interface {
	Execute(ctx context.Context) error
}

// WorkerPool runs comparison jobs across a fixed set of goroutines sized to
// the available cores. Pairwise comparisons are pure and CPU-bound, so
// workers share nothing beyond the job queue.
type WorkerPool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWorkerPool creates and starts a pool, reserving a quarter of the CPUs
// for the rest of the process.
func NewWorkerPool(ctx context.Context) *WorkerPool {
	totalCPU := runtime.NumCPU()
	reserve := totalCPU / 4
	if reserve < 1 {
		reserve = 1
	}
	size := totalCPU - reserve
	if size < 1 {
		size = 1
	}

	poolCtx, cancel := context.WithCancel(ctx)
	pool := &WorkerPool{
		workers:  size,
		jobQueue: make(chan Job, size*2),
		ctx:      poolCtx,
		cancel:   cancel,
	}

	log.Info().
		Int("totalCPU", totalCPU).
		Int("workers", size).
		Msg("Worker pool initialized")

	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobQueue:
			if err := job.Execute(p.ctx); err != nil {
				log.Error().Err(err).Msg("Comparison job failed")
			}
		}
	}
}

// Submit queues a job, failing only when the pool is shutting down.
func (p *WorkerPool) Submit(job Job) error {
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobQueue <- job:
		return nil
	}
}

// Close stops accepting jobs and waits for workers to exit. The queue is
// never closed; concurrent Submit calls fail on the cancelled context
// instead of racing a closed channel.
func (p *WorkerPool) Close() {
	p.cancel()
	p.wg.Wait()
}

// Size reports the worker count.
func (p *WorkerPool) Size() int {
	return p.workers
}

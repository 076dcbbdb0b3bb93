package queue

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/danmigwi24/credential-service/internal/pkg/metrics"
)

const channelBuffer = 256

type job struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

// Pool runs CPU-bound work on a fixed set of worker goroutines so that a burst
// of logins cannot schedule an unbounded number of bcrypt computations.
type Pool struct {
	jobs    chan job
	workers int
	log     zerolog.Logger
}

// NewPool creates a Pool with numWorkers workers.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewPool(numWorkers int, log zerolog.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{
		jobs:    make(chan job, channelBuffer),
		workers: numWorkers,
		log:     log,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
}

// Do submits fn and waits for it to finish or for ctx to end, whichever comes
// first. When ctx ends first Do returns ctx.Err(). A job still queued at that
// point is skipped; one already picked up by a worker runs to completion and
// its result is discarded.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j := job{ctx: ctx, fn: fn, result: make(chan error, 1)}
	select {
	case p.jobs <- j:
		metrics.HashQueueDepth.Inc()
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			metrics.HashQueueDepth.Dec()
			if err := j.ctx.Err(); err != nil {
				j.result <- err
				continue
			}
			j.result <- p.run(id, j.fn)
		}
	}
}

func (p *Pool) run(id int, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Int("worker_id", id).Msg("pool job panicked")
			err = fmt.Errorf("pool job panicked: %v", r)
		}
	}()
	return fn()
}

// Package pool runs a fixed set of concurrent probe workers over a shared
// job queue. Closing the queue is the only termination signal a worker needs
// for a round.
package pool

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/probe"
)

// Pool owns size workers for the duration of one round. Each worker gets its
// own Checker from newChecker, so HTTP clients are never shared across
// goroutines.
type Pool struct {
	size       int
	newChecker func() probe.Checker
	log        *zap.Logger
	wg         sync.WaitGroup
}

func New(size int, newChecker func() probe.Checker, log *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size, newChecker: newChecker, log: log}
}

// Size returns the number of workers the pool will run.
func (p *Pool) Size() int { return p.size }

// Start launches the workers. Each pulls URLs from jobs until the channel is
// closed and drained, publishing exactly one Outcome per URL to results.
func (p *Pool) Start(ctx context.Context, jobs <-chan string, results chan<- domain.Outcome) {
	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		checker := p.newChecker()
		go p.worker(ctx, i, checker, jobs, results)
	}
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) worker(ctx context.Context, id int, checker probe.Checker, jobs <-chan string, results chan<- domain.Outcome) {
	defer p.wg.Done()
	for url := range jobs {
		out, ok := p.check(ctx, id, checker, url)
		if !ok {
			continue
		}
		p.log.Debug("probe_done",
			zap.Int("worker", id),
			zap.String("url", url),
			zap.Int("status", out.StatusCode),
			zap.String("failure", out.Failure),
			zap.Duration("elapsed", out.Elapsed),
		)
		results <- out
	}
}

// check shields the worker loop from a panicking Checker: the probe is lost
// and logged, the worker lives on, and the round surfaces the gap as a short
// result count instead of crashing the process.
func (p *Pool) check(ctx context.Context, id int, checker probe.Checker, url string) (out domain.Outcome, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("probe_panic",
				zap.Int("worker", id),
				zap.String("url", url),
				zap.Any("panic", r),
			)
			ok = false
		}
	}()
	return checker.Check(ctx, url), true
}

// Package runner orchestrates one full checking pass: it feeds every
// configured URL through a bounded worker pool and collects exactly one
// outcome per URL.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/config"
	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/pool"
	"github.com/hamed0406/sitewatch/internal/probe"
)

// ErrIncompleteRound marks a round that delivered fewer outcomes than URLs.
// The partial RoundResult is still returned alongside it.
var ErrIncompleteRound = errors.New("incomplete round")

type Runner struct {
	Log *zap.Logger

	// NewChecker builds the per-worker Checker for a round. Left nil it
	// yields the HTTP executor; tests substitute fakes here.
	NewChecker func(cfg config.Config) probe.Checker
}

func New(log *zap.Logger) *Runner {
	return &Runner{Log: log}
}

func (r *Runner) checkerFactory(cfg config.Config) func() probe.Checker {
	if r.NewChecker != nil {
		return func() probe.Checker { return r.NewChecker(cfg) }
	}
	return func() probe.Checker {
		return probe.NewExecutor(cfg.Timeout, cfg.Retries, cfg.HeaderChecks)
	}
}

// RunRound performs one pass over cfg.URLs and returns the outcomes in
// arrival order. The pool is rebuilt per round and sized
// min(cfg.Workers, len(urls)), never below 1, so sizing always tracks the
// current URL set.
//
// The only blocking visible to the caller is the collection of the N results;
// workers are fully joined before RunRound returns. A short batch never comes
// back silently: it is wrapped in ErrIncompleteRound.
func (r *Runner) RunRound(ctx context.Context, cfg config.Config) (domain.RoundResult, error) {
	res := domain.RoundResult{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
	}
	n := len(cfg.URLs)
	if n == 0 {
		return res, fmt.Errorf("round with no URLs")
	}

	workers := cfg.Workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string, n)
	results := make(chan domain.Outcome, n)

	p := pool.New(workers, r.checkerFactory(cfg), r.Log)

	r.Log.Info("round_start",
		zap.String("round_id", res.ID.String()),
		zap.Int("urls", n),
		zap.Int("workers", workers),
	)

	p.Start(ctx, jobs, results)
	for _, u := range cfg.URLs {
		jobs <- u
	}
	close(jobs)

	// Close the sink once every worker is done, so a lost outcome shows up as
	// a short count instead of a hang.
	go func() {
		p.Wait()
		close(results)
	}()

	res.Outcomes = make([]domain.Outcome, 0, n)
	for out := range results {
		out.RoundID = res.ID
		res.Outcomes = append(res.Outcomes, out)
	}

	sum := res.Summary()
	r.Log.Info("round_done",
		zap.String("round_id", res.ID.String()),
		zap.Int("checks", sum.Checks),
		zap.Int("ok", sum.OK),
		zap.Duration("avg_latency", sum.AvgLatency),
		zap.Float64("uptime_pct", sum.UptimePct),
	)

	if len(res.Outcomes) != n {
		return res, fmt.Errorf("%w: got %d of %d outcomes", ErrIncompleteRound, len(res.Outcomes), n)
	}
	return res, nil
}

// Package scheduler drives the periodic checking loop: run a round, record
// and report it, sleep the configured period, repeat until stopped.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/config"
	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/notify"
	"github.com/hamed0406/sitewatch/internal/runner"
	"github.com/hamed0406/sitewatch/internal/stats"
)

// DefaultPoll is how often the sleep phase re-checks the shutdown flag, so
// stop latency stays small relative to the period.
const DefaultPoll = 100 * time.Millisecond

// RoundRunner is implemented by runner.Runner.
type RoundRunner interface {
	RunRound(ctx context.Context, cfg config.Config) (domain.RoundResult, error)
}

// Reporter receives each round's results and the final aggregate table.
type Reporter interface {
	Round(res domain.RoundResult)
	Aggregate(table []stats.Snapshot)
}

// Periodic repeats rounds on a fixed interval. A round in flight is never
// preempted: its results are always recorded and reported before the stop
// flag is consulted, so every started round contributes to the aggregate.
type Periodic struct {
	Log      *zap.Logger
	Runner   RoundRunner
	Agg      *stats.Aggregator
	Reporter Reporter
	Notifier notify.Notifier // optional down/recovery notifications
	Signal   *ShutdownSignal
	Period   time.Duration
	Poll     time.Duration // shutdown polling granularity during sleep

	lastUp map[string]bool
}

// Run executes rounds until the shutdown flag is set, then emits one final
// aggregate report. Round failures are data, not loop-fatal errors.
func (p *Periodic) Run(ctx context.Context, cfg config.Config) {
	if p.Poll <= 0 {
		p.Poll = DefaultPoll
	}
	p.lastUp = make(map[string]bool)

	p.Log.Info("periodic_start",
		zap.Duration("period", p.Period),
		zap.Int("urls", len(cfg.URLs)),
	)

	for !p.Signal.Triggered() {
		res, err := p.Runner.RunRound(ctx, cfg)
		if err != nil {
			if errors.Is(err, runner.ErrIncompleteRound) {
				// Record what did arrive; the gap is logged, not fatal.
				p.Log.Warn("round_incomplete", zap.Error(err))
			} else {
				p.Log.Warn("round_error", zap.Error(err))
				p.sleep()
				continue
			}
		}

		for _, o := range res.Outcomes {
			p.Agg.Record(o)
		}
		p.Reporter.Round(res)
		p.notifyEdges(ctx, res)

		p.sleep()
	}

	p.Log.Info("periodic_stopped")
	p.Reporter.Aggregate(p.Agg.Table())
}

// sleep waits out the period in small slices, returning early once the
// shutdown flag is set.
func (p *Periodic) sleep() {
	start := time.Now()
	for time.Since(start) < p.Period {
		if p.Signal.Triggered() {
			return
		}
		d := p.Poll
		if remain := p.Period - time.Since(start); remain < d {
			d = remain
		}
		time.Sleep(d)
	}
}

// notifyEdges sends a best-effort notification on each URL's up/down state
// change across rounds.
func (p *Periodic) notifyEdges(ctx context.Context, res domain.RoundResult) {
	if p.Notifier == nil {
		return
	}
	for _, o := range res.Outcomes {
		up := o.Up()
		last, seen := p.lastUp[o.URL]
		p.lastUp[o.URL] = up
		if !seen || last == up {
			continue
		}
		title := "Site DOWN: " + o.URL
		text := "failure: " + o.Failure
		if up {
			title = "Site RECOVERED: " + o.URL
			text = fmt.Sprintf("status %d", o.StatusCode)
		} else if o.Failure == "" {
			text = fmt.Sprintf("status %d", o.StatusCode)
		}
		if err := p.Notifier.Send(ctx, title, text); err != nil {
			p.Log.Warn("notify_error", zap.String("url", o.URL), zap.Error(err))
		}
	}
}

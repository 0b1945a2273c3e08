package pool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/probe"
)

// fake checker that records how many probes ran
type countingChecker struct {
	calls *atomic.Int32
	delay time.Duration
}

func (c *countingChecker) Check(ctx context.Context, url string) domain.Outcome {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return domain.Outcome{URL: url, StatusCode: 200, Elapsed: time.Millisecond, CheckedAt: time.Now().UTC()}
}

func TestPool_OneOutcomePerJob(t *testing.T) {
	urls := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"}
	var calls atomic.Int32

	jobs := make(chan string, len(urls))
	results := make(chan domain.Outcome, len(urls))

	p := New(3, func() probe.Checker {
		return &countingChecker{calls: &calls}
	}, zap.NewNop())
	p.Start(context.Background(), jobs, results)

	for _, u := range urls {
		jobs <- u
	}
	close(jobs)
	p.Wait()
	close(results)

	seen := make(map[string]int)
	for out := range results {
		seen[out.URL]++
	}
	if len(seen) != len(urls) {
		t.Fatalf("want %d distinct URLs, got %d", len(urls), len(seen))
	}
	for u, n := range seen {
		if n != 1 {
			t.Fatalf("url %s produced %d outcomes, want 1", u, n)
		}
	}
	if got := calls.Load(); got != int32(len(urls)) {
		t.Fatalf("want %d probes, got %d", len(urls), got)
	}
}

func TestPool_WorkersExitOnQueueClose(t *testing.T) {
	jobs := make(chan string)
	results := make(chan domain.Outcome, 1)
	var calls atomic.Int32

	p := New(2, func() probe.Checker {
		return &countingChecker{calls: &calls}
	}, zap.NewNop())
	p.Start(context.Background(), jobs, results)
	close(jobs)

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("workers did not exit after queue close")
	}
}

func TestPool_MinimumOneWorker(t *testing.T) {
	p := New(0, func() probe.Checker {
		return &countingChecker{calls: &atomic.Int32{}}
	}, zap.NewNop())
	if p.Size() != 1 {
		t.Fatalf("pool size floor is 1, got %d", p.Size())
	}
}

// fake checker that panics on one specific URL
type panickyChecker struct {
	badURL string
}

func (c *panickyChecker) Check(ctx context.Context, url string) domain.Outcome {
	if url == c.badURL {
		panic("checker blew up")
	}
	return domain.Outcome{URL: url, StatusCode: 200, Elapsed: time.Millisecond, CheckedAt: time.Now().UTC()}
}

func TestPool_PanickingCheckerDropsOutcomeNotProcess(t *testing.T) {
	urls := []string{"u1", "boom", "u2"}

	jobs := make(chan string, len(urls))
	results := make(chan domain.Outcome, len(urls))

	p := New(2, func() probe.Checker {
		return &panickyChecker{badURL: "boom"}
	}, zap.NewNop())
	p.Start(context.Background(), jobs, results)

	for _, u := range urls {
		jobs <- u
	}
	close(jobs)

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("workers did not survive the panic")
	}
	close(results)

	var got []string
	for out := range results {
		got = append(got, out.URL)
	}
	if len(got) != 2 {
		t.Fatalf("panicking probe should be dropped, not published: got %v", got)
	}
	for _, u := range got {
		if u == "boom" {
			t.Fatalf("panicked URL must not produce an outcome")
		}
	}
}

func TestPool_RunsConcurrently(t *testing.T) {
	const n = 4
	urls := []string{"a", "b", "c", "d"}
	var calls atomic.Int32

	jobs := make(chan string, n)
	results := make(chan domain.Outcome, n)

	p := New(n, func() probe.Checker {
		return &countingChecker{calls: &calls, delay: 100 * time.Millisecond}
	}, zap.NewNop())

	start := time.Now()
	p.Start(context.Background(), jobs, results)
	for _, u := range urls {
		jobs <- u
	}
	close(jobs)
	p.Wait()

	// 4 jobs at 100ms each across 4 workers should take ~100ms, not ~400ms.
	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Fatalf("jobs appear to have run serially: %s", elapsed)
	}
}

package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hamed0406/sitewatch/internal/domain"
)

// Checker performs a single check for a given target URL.
type Checker interface {
	Check(ctx context.Context, url string) domain.Outcome
}

// DefaultBackoff is the fixed pause between transport-error retries.
const DefaultBackoff = 200 * time.Millisecond

// Executor probes one URL per call: a GET with a per-attempt timeout, a
// bounded retry budget for transport errors, and exact-match validation of
// required response headers. It always produces exactly one Outcome.
//
// HTTP-level error statuses (4xx/5xx) are completed attempts and are never
// retried; only transport failures (refused, DNS, timeout) consume the retry
// budget.
type Executor struct {
	Client       *http.Client
	Retries      int
	Backoff      time.Duration
	HeaderChecks []domain.HeaderCheck
}

// NewExecutor builds an Executor with its own HTTP client so concurrent
// workers never share connection state or timeout configuration.
func NewExecutor(timeout time.Duration, retries int, checks []domain.HeaderCheck) *Executor {
	return &Executor{
		Client:       &http.Client{Timeout: timeout},
		Retries:      retries,
		Backoff:      DefaultBackoff,
		HeaderChecks: checks,
	}
}

func (e *Executor) Check(ctx context.Context, url string) domain.Outcome {
	attempt := 0
	startAll := time.Now()

	for {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			// Malformed URL: no amount of retrying helps.
			return transportFailure(url, err, time.Since(startAll))
		}

		resp, err := e.Client.Do(req)
		if err != nil {
			attempt++
			if attempt > e.Retries {
				return transportFailure(url, err, time.Since(startAll))
			}
			time.Sleep(e.Backoff)
			continue
		}
		resp.Body.Close()

		// The server answered; header validation decides success. Elapsed is
		// the single-attempt time from here on.
		for _, hc := range e.HeaderChecks {
			values := resp.Header.Values(hc.Name)
			if len(values) == 0 {
				return headerFailure(url, fmt.Sprintf("missing header %s", hc.Name), time.Since(start))
			}
			if values[0] != hc.Value {
				return headerFailure(url,
					fmt.Sprintf("header %s mismatch: got '%s', expected '%s'", hc.Name, values[0], hc.Value),
					time.Since(start))
			}
		}

		return domain.Outcome{
			URL:        url,
			StatusCode: resp.StatusCode,
			Elapsed:    time.Since(start),
			CheckedAt:  time.Now().UTC(),
		}
	}
}

func transportFailure(url string, err error, elapsed time.Duration) domain.Outcome {
	return domain.Outcome{
		URL:       url,
		Failure:   fmt.Sprintf("transport error: %v", err),
		Elapsed:   elapsed,
		CheckedAt: time.Now().UTC(),
	}
}

func headerFailure(url, reason string, elapsed time.Duration) domain.Outcome {
	return domain.Outcome{
		URL:       url,
		Failure:   reason,
		Elapsed:   elapsed,
		CheckedAt: time.Now().UTC(),
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// HeaderCheck is an exact-match requirement against a response header.
// Lookup is case-insensitive per HTTP convention; the value compare is exact.
type HeaderCheck struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Outcome is the result of probing one URL once per round.
//
// Exactly one of StatusCode/Failure is meaningful: a non-empty Failure means
// the probe failed (transport exhaustion or header validation) and StatusCode
// is 0; otherwise StatusCode carries whatever the server answered, including
// 4xx/5xx.
type Outcome struct {
	RoundID    uuid.UUID     `json:"round_id"`
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code,omitempty"`
	Failure    string        `json:"failure,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
	CheckedAt  time.Time     `json:"checked_at"`
}

// Failed reports whether the probe produced no usable status code.
func (o Outcome) Failed() bool { return o.Failure != "" }

// Up reports whether this outcome counts as an uptime sample: the server
// answered and the status code is in [200,399].
func (o Outcome) Up() bool {
	return o.Failure == "" && o.StatusCode >= 200 && o.StatusCode < 400
}

// RoundResult is one full pass over the configured URLs. Outcomes are in
// arrival order; length always equals the number of URLs submitted.
type RoundResult struct {
	ID        uuid.UUID `json:"id"`
	Outcomes  []Outcome `json:"outcomes"`
	StartedAt time.Time `json:"started_at"`
}

// RoundSummary aggregates one round for reporting.
type RoundSummary struct {
	Checks     int           `json:"checks"`
	OK         int           `json:"ok"`
	AvgLatency time.Duration `json:"avg_latency"`
	UptimePct  float64       `json:"uptime_pct"`
}

// Summary computes the round-level summary.
func (r RoundResult) Summary() RoundSummary {
	s := RoundSummary{Checks: len(r.Outcomes)}
	if s.Checks == 0 {
		return s
	}
	var total time.Duration
	for _, o := range r.Outcomes {
		total += o.Elapsed
		if o.Up() {
			s.OK++
		}
	}
	s.AvgLatency = total / time.Duration(s.Checks)
	s.UptimePct = float64(s.OK) * 100 / float64(s.Checks)
	return s
}

// Package stats accumulates rolling per-URL uptime and latency figures
// across rounds.
package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/hamed0406/sitewatch/internal/domain"
)

// UrlStats is the per-URL accumulator. Entries are created lazily on first
// observation and never removed.
type UrlStats struct {
	Samples      uint64
	OK           uint64
	TotalLatency time.Duration
}

// Snapshot is a read-only view of one URL's accumulated stats.
type Snapshot struct {
	URL          string  `json:"url"`
	Samples      uint64  `json:"samples"`
	UptimePct    float64 `json:"uptime_pct"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// Aggregator is written by exactly one goroutine (the scheduler records one
// round fully before starting the next); the lock exists because the admin
// endpoint may snapshot concurrently with those writes.
type Aggregator struct {
	mu sync.RWMutex
	m  map[string]*UrlStats
}

func NewAggregator() *Aggregator {
	return &Aggregator{m: make(map[string]*UrlStats)}
}

// Record folds one outcome into its URL's accumulator. Every outcome counts
// as a sample and contributes its elapsed time; only status codes in
// [200,399] count as successes.
func (a *Aggregator) Record(o domain.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.m[o.URL]
	if s == nil {
		s = &UrlStats{}
		a.m[o.URL] = s
	}
	s.Samples++
	if o.Up() {
		s.OK++
	}
	s.TotalLatency += o.Elapsed
}

// Snapshot returns the current figures for one URL. A URL never observed
// yields a zero snapshot.
func (a *Aggregator) Snapshot(url string) Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.m[url]
	if s == nil {
		return Snapshot{URL: url}
	}
	return snapshotOf(url, s)
}

// Table returns snapshots for every URL observed so far, sorted by URL.
func (a *Aggregator) Table() []Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Snapshot, 0, len(a.m))
	for url, s := range a.m {
		out = append(out, snapshotOf(url, s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

func snapshotOf(url string, s *UrlStats) Snapshot {
	snap := Snapshot{URL: url, Samples: s.Samples}
	if s.Samples == 0 {
		return snap
	}
	snap.UptimePct = float64(s.OK) * 100 / float64(s.Samples)
	snap.AvgLatencyMS = float64(s.TotalLatency.Nanoseconds()) / 1e6 / float64(s.Samples)
	return snap
}

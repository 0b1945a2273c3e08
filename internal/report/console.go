// Package report renders round results and aggregate statistics as console
// tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/stats"
)

// Console writes human-readable tables to W. It satisfies
// scheduler.Reporter.
type Console struct {
	W io.Writer
}

func NewConsole(w io.Writer) *Console { return &Console{W: w} }

// Round prints one row per outcome plus the round summary line.
func (c *Console) Round(res domain.RoundResult) {
	fmt.Fprintf(c.W, "\nResults (%d checks):\n", len(res.Outcomes))
	fmt.Fprintf(c.W, "%-5s | %-8s | %-7s | %-24s | %s\n", "#", "Status", "ms", "checked at", "URL")
	fmt.Fprintln(c.W, strings.Repeat("-", 100))
	for i, o := range res.Outcomes {
		status := "ERR"
		if !o.Failed() {
			status = fmt.Sprintf("%d", o.StatusCode)
		}
		fmt.Fprintf(c.W, "%-5d | %-8s | %-7d | %-24s | %s\n",
			i+1, status, o.Elapsed.Milliseconds(), o.CheckedAt.Format("2006-01-02T15:04:05.000Z"), o.URL)
		if o.Failed() {
			fmt.Fprintf(c.W, "        -> %s\n", o.Failure)
		}
	}

	s := res.Summary()
	fmt.Fprintf(c.W, "\nRound stats: avg=%dms, uptime=%.2f%% (%d/%d)\n",
		s.AvgLatency.Milliseconds(), s.UptimePct, s.OK, s.Checks)
}

// Aggregate prints the final per-URL table, already sorted by URL.
func (c *Console) Aggregate(table []stats.Snapshot) {
	fmt.Fprintf(c.W, "\nAggregate statistics:\n")
	fmt.Fprintf(c.W, "%-7s | %-7s | %-7s | %s\n", "samples", "uptime%", "avg ms", "URL")
	fmt.Fprintln(c.W, strings.Repeat("-", 80))
	for _, s := range table {
		fmt.Fprintf(c.W, "%-7d | %-7.2f | %-7.0f | %s\n", s.Samples, s.UptimePct, s.AvgLatencyMS, s.URL)
	}
}

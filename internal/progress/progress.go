// Package progress renders the engine's block-completion progress as a
// single throttled line. Format is a presentation detail, not part of
// the engine's contract (spec.md §6).
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	pctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	doneStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// Reporter prints one throttled progress line per call to Update, plus
// a final summary line from Done. It is intended for use by a single
// goroutine (the Writer); it does not synchronize concurrent callers.
type Reporter struct {
	w          io.Writer
	total      uint64
	start      time.Time
	lastTick   time.Time
	minTickGap time.Duration
}

// NewReporter creates a reporter that throttles updates to at most one
// every minTickGap, always allowing the final (100%) update through.
func NewReporter(w io.Writer, total uint64) *Reporter {
	now := time.Now()
	return &Reporter{
		w:          w,
		total:      total,
		start:      now,
		lastTick:   now,
		minTickGap: 100 * time.Millisecond,
	}
}

// Update reports that `done` of `total` blocks have been written.
func (r *Reporter) Update(done, total uint64) {
	now := time.Now()
	if now.Sub(r.lastTick) < r.minTickGap && done < total {
		return
	}
	r.lastTick = now

	pct := float64(0)
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}

	_, _ = fmt.Fprintf(r.w, "\r%s %s block %d/%d",
		labelStyle.Render("signature"),
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct)),
		done, total)
}

// Done prints a final summary line once the output file is closed.
func (r *Reporter) Done() {
	elapsed := time.Since(r.start).Truncate(time.Millisecond)
	_, _ = fmt.Fprintf(r.w, "\r%s in %s\n", doneStyle.Render("signature complete"), elapsed)
}

// Package profiling times API calls and other spans of a command run and
// optionally records pprof profiles.
package profiling

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/grovetools/ratedesk/tui/theme"
)

// Stopper ends a timed span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	done     bool
}

// Timer collects spans. Spans may overlap and be stopped from any goroutine.
type Timer struct {
	mu      sync.Mutex
	enabled bool
	start   time.Time
	spans   []*span
}

type spanStopper struct {
	t *Timer
	s *span
}

func (st spanStopper) Stop() {
	st.t.mu.Lock()
	defer st.t.mu.Unlock()
	if !st.s.done {
		st.s.duration = time.Since(st.s.start)
		st.s.done = true
	}
}

type noopStopper struct{}

func (noopStopper) Stop() {}

var defaultTimer = &Timer{}

// Enable turns on the global timer and resets it.
func Enable() { defaultTimer.Enable() }

// Start begins a span on the global timer.
func Start(name string) Stopper { return defaultTimer.Start(name) }

// Summarize writes the global timer's spans to w.
func Summarize(w io.Writer) { defaultTimer.Summarize(w) }

// Enable turns the timer on and drops earlier spans.
func (t *Timer) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = true
	t.start = time.Now()
	t.spans = nil
}

// Start begins a span. It is a no-op while the timer is disabled.
func (t *Timer) Start(name string) Stopper {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return noopStopper{}
	}
	s := &span{name: name, start: time.Now()}
	t.spans = append(t.spans, s)
	return spanStopper{t: t, s: s}
}

// Summarize prints finished spans in start order with their share of the
// total run time.
func (t *Timer) Summarize(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}

	total := time.Since(t.start)
	spans := make([]*span, 0, len(t.spans))
	for _, s := range t.spans {
		if s.done {
			spans = append(spans, s)
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })

	muted := theme.DefaultTheme.Muted
	fmt.Fprintln(w, muted.Render(fmt.Sprintf("--- timing (%v total) ---", total.Round(time.Millisecond))))
	for _, s := range spans {
		pct := 0.0
		if total > 0 {
			pct = float64(s.duration) / float64(total) * 100
		}
		offset := s.start.Sub(t.start).Round(time.Millisecond)
		fmt.Fprintf(w, "  +%-8v %-48s %v (%.1f%%)\n", offset, s.name, s.duration.Round(100*time.Microsecond), pct)
	}
}

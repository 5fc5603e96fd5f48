package cli

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/grovetools/ratedesk/tui/theme"
)

// Progress states understood by ProgressReporter.
const (
	StatusStarting  = "starting"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ProgressReporter reports the progress of concurrent requests, one line
// per status change.
type ProgressReporter struct {
	mu       sync.Mutex
	out      io.Writer
	statuses map[string]string
	start    time.Time
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(out io.Writer) *ProgressReporter {
	return &ProgressReporter{
		out:      out,
		statuses: make(map[string]string),
		start:    time.Now(),
	}
}

// Update records and prints the status of a task.
func (p *ProgressReporter) Update(task, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.statuses[task] = status
	fmt.Fprintf(p.out, "%s %s: %s\n", symbolFor(status), task, status)
}

// Statuses returns the last status of every task, sorted by task name.
func (p *ProgressReporter) Statuses() [][2]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([][2]string, 0, len(p.statuses))
	for task, status := range p.statuses {
		out = append(out, [2]string{task, status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Done prints the elapsed time.
func (p *ProgressReporter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.start).Round(time.Millisecond)
	fmt.Fprintln(p.out, theme.DefaultTheme.Muted.Render(fmt.Sprintf("completed in %s", elapsed)))
}

func symbolFor(status string) string {
	t := theme.DefaultTheme
	switch status {
	case StatusCompleted:
		return t.Success.Render(theme.IconSuccess)
	case StatusFailed:
		return t.Error.Render(theme.IconError)
	default:
		return t.Muted.Render(theme.IconInfo)
	}
}

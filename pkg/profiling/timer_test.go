package profiling

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimerDisabledIsNoop(t *testing.T) {
	var tm Timer
	tm.Start("GET /api/ratecards").Stop()

	var buf bytes.Buffer
	tm.Summarize(&buf)
	assert.Empty(t, buf.String())
}

func TestTimerConcurrentSpans(t *testing.T) {
	var tm Timer
	tm.Enable()

	var wg sync.WaitGroup
	for _, name := range []string{"GET history", "GET analytics"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			tm.Start(name).Stop()
		}(name)
	}
	wg.Wait()
	open := tm.Start("never stopped")
	_ = open

	var buf bytes.Buffer
	tm.Summarize(&buf)
	out := buf.String()
	assert.Contains(t, out, "GET history")
	assert.Contains(t, out, "GET analytics")
	assert.NotContains(t, out, "never stopped")
}

func TestStopTwiceKeepsFirstDuration(t *testing.T) {
	var tm Timer
	tm.Enable()
	s := tm.Start("span")
	s.Stop()
	first := tm.spans[0].duration
	s.Stop()
	assert.Equal(t, first, tm.spans[0].duration)
}

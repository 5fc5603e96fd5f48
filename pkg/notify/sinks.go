package notify

import (
	"io"
	"sync"

	"github.com/grovetools/ratedesk/logging"
)

// Console renders notifications with the pretty console logger.
type Console struct {
	pretty *logging.PrettyLogger
	// MinLevel hides info notifications when set to LevelSuccess or above.
	MinLevel Level
}

// NewConsole writes to w.
func NewConsole(w io.Writer) *Console {
	return &Console{pretty: logging.NewPrettyLogger().WithWriter(w), MinLevel: LevelInfo}
}

func (c *Console) Notify(n Notification) {
	if rank(n.Level) < rank(c.MinLevel) {
		return
	}
	c.pretty.Print(tone(n.Level), n.Operation, n.Message, nil)
}

func tone(l Level) logging.Tone {
	switch l {
	case LevelSuccess:
		return logging.ToneSuccess
	case LevelWarning:
		return logging.ToneWarning
	case LevelError:
		return logging.ToneError
	default:
		return logging.ToneInfo
	}
}

func rank(l Level) int {
	switch l {
	case LevelSuccess:
		return 1
	case LevelWarning:
		return 2
	case LevelError:
		return 3
	default:
		return 0
	}
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}

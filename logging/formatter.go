package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/ratedesk/tui/theme"
	"github.com/sirupsen/logrus"
)

// TextFormatter renders entries as `time [LEVEL] [component] message k=v`.
//
// Entries logged by the API client carry method, path and request_id
// fields. When method and path are both present they are printed together
// as `GET /api/ratecards`, and the request id is shortened to its first
// eight characters.
type TextFormatter struct {
	Config FormatConfig
}

const shortRequestID = 8

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}

	level := entry.Level.String()
	if entry.Level == logrus.WarnLevel {
		level = "warn"
	}
	fmt.Fprintf(&b, "[%s]", strings.ToUpper(level))

	if component, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		fmt.Fprintf(&b, " [%s]", theme.DefaultTheme.Accent.Render(fmt.Sprint(component)))
	}

	if entry.HasCaller() {
		fmt.Fprintf(&b, " [%s:%d %s]",
			filepath.Base(entry.Caller.File), entry.Caller.Line, filepath.Base(entry.Caller.Function))
	}

	skip := map[string]bool{"component": true}
	method, hasMethod := entry.Data["method"]
	path, hasPath := entry.Data["path"]
	if hasMethod && hasPath {
		fmt.Fprintf(&b, " %v %v", method, path)
		skip["method"], skip["path"] = true, true
	}
	if id, ok := entry.Data["request_id"].(string); ok {
		if len(id) > shortRequestID {
			id = id[:shortRequestID]
		}
		fmt.Fprintf(&b, " (%s)", id)
		skip["request_id"] = true
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if !skip[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, entry.Data[key])
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/ratedesk/tui/theme"
)

// Tone selects the icon and color of a pretty console line.
type Tone int

const (
	ToneInfo Tone = iota
	ToneSuccess
	ToneWarning
	ToneError
)

// PrettyLogger writes short human-facing status lines, as opposed to the
// structured entries produced by NewLogger.
type PrettyLogger struct {
	writer io.Writer
	tones  map[Tone]toneStyle
	label  lipgloss.Style
	key    lipgloss.Style
	value  lipgloss.Style
}

type toneStyle struct {
	icon  string
	style lipgloss.Style
}

// NewPrettyLogger writes to stderr by default.
func NewPrettyLogger() *PrettyLogger {
	t := theme.DefaultTheme
	return &PrettyLogger{
		writer: os.Stderr,
		tones: map[Tone]toneStyle{
			ToneInfo:    {theme.IconInfo, t.Info.Bold(false)},
			ToneSuccess: {theme.IconSuccess, t.Success},
			ToneWarning: {theme.IconWarning, t.Warning.Bold(false)},
			ToneError:   {theme.IconError, t.Error},
		},
		label: t.Muted,
		key:   t.Muted,
		value: t.Highlight,
	}
}

// WithWriter sets a custom writer for pretty output.
func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.writer = w
	return p
}

// Print writes one status line. A non-empty label is shown muted in
// brackets before the message, and a non-nil err is appended after a colon.
func (p *PrettyLogger) Print(tone Tone, label, message string, err error) {
	ts, ok := p.tones[tone]
	if !ok {
		ts = p.tones[ToneInfo]
	}
	line := ts.style.Render(ts.icon) + " "
	if label != "" {
		line += p.label.Render("["+label+"]") + " "
	}
	line += ts.style.Render(message)
	if err != nil {
		line += ": " + ts.style.Render(err.Error())
	}
	fmt.Fprintln(p.writer, line)
}

func (p *PrettyLogger) Success(message string) { p.Print(ToneSuccess, "", message, nil) }

func (p *PrettyLogger) Error(message string, err error) { p.Print(ToneError, "", message, err) }

// Field prints a key-value pair.
func (p *PrettyLogger) Field(key string, value interface{}) {
	fmt.Fprintf(p.writer, "  %s %s\n", p.key.Render(key+":"), p.value.Render(fmt.Sprint(value)))
}

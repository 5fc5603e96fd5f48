package cli

import (
	"io"
	"os"

	"github.com/grovetools/ratedesk/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// LoggerOption configures a foreground logger.
type LoggerOption func(*logrus.Logger)

// WithOutput sets the logger output.
func WithOutput(w io.Writer) LoggerOption {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// FromFlags applies --verbose and --json: debug level, and JSON lines
// instead of text.
func FromFlags(cmd *cobra.Command) LoggerOption {
	opts := GetOptions(cmd)
	return func(l *logrus.Logger) {
		if opts.Verbose {
			l.SetLevel(logrus.DebugLevel)
		}
		if opts.JSONOutput {
			l.SetFormatter(&logrus.JSONFormatter{})
		}
	}
}

// NewLogger creates a logger for long-running foreground commands such as
// demo-server, which log to stderr rather than the per-component log file.
func NewLogger(component string, opts ...LoggerOption) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logging.TextFormatter{})

	for _, opt := range opts {
		opt(logger)
	}

	return logger.WithField("component", component)
}

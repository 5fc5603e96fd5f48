package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grovetools/ratedesk/cli"
	"github.com/grovetools/ratedesk/logging"
	"github.com/grovetools/ratedesk/tui/theme"
	"github.com/spf13/cobra"
)

// TailedLine is one log line and the component file it came from.
type TailedLine struct {
	Component string `json:"component"`
	Line      string `json:"line"`
}

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	var (
		follow bool
		tailN  int
		day    string
	)
	cmd := &cobra.Command{
		Use:   "logs [component...]",
		Short: "Show ratedesk log files",
		Long: `Prints the daily log files written under .ratedesk/logs (or RATEDESK_LOG_DIR).
Without arguments every component's file for the day is shown.

Examples:
  # Follow all logs
  ratedesk logs -f

  # Last 50 lines of the cli log from a given day
  ratedesk logs cli --tail 50 --date 2025-06-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)
			opts := cli.GetOptions(cmd)

			when := time.Now()
			if day != "" {
				t, err := time.Parse("2006-01-02", day)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", day, err)
				}
				when = t
			}

			files, err := logFiles(args, when)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				logger.Debugf("No log files in %s", logging.LogDir())
				fmt.Fprintln(cmd.ErrOrStderr(), theme.DefaultTheme.Muted.Render("No log files found."))
				return nil
			}

			lines := make(chan TailedLine, 100)
			var wg sync.WaitGroup
			for component, path := range files {
				wg.Add(1)
				go func(component, path string) {
					defer wg.Done()
					if err := tailComponent(cmd, component, path, follow, tailN, lines); err != nil {
						logger.WithError(err).WithField("file", path).Debug("Tail stopped")
					}
				}(component, path)
			}
			go func() {
				wg.Wait()
				close(lines)
			}()

			out := cmd.OutOrStdout()
			for l := range lines {
				if opts.JSONOutput {
					if err := printLogJSON(out, l); err != nil {
						return err
					}
					continue
				}
				if len(files) > 1 {
					fmt.Fprintf(out, "%s %s\n", theme.DefaultTheme.Accent.Render(l.Component), l.Line)
				} else {
					fmt.Fprintln(out, l.Line)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVar(&tailN, "tail", -1, "Number of lines to show from the end of each file (default: all)")
	cmd.Flags().StringVar(&day, "date", "", "Day to show (YYYY-MM-DD), default today")
	return cmd
}

// logFiles maps component names to their log file for day. With no
// components every file of that day is returned.
func logFiles(components []string, day time.Time) (map[string]string, error) {
	files := make(map[string]string)
	if len(components) > 0 {
		for _, c := range components {
			files[c] = logging.LogFilePath(c, day)
		}
		return files, nil
	}

	suffix := "-" + day.Format("2006-01-02") + ".log"
	matches, err := filepath.Glob(filepath.Join(logging.LogDir(), "*"+suffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	for _, m := range matches {
		files[strings.TrimSuffix(filepath.Base(m), suffix)] = m
	}
	return files, nil
}

// tailComponent sends the lines of one file. With n >= 0 only the last n
// existing lines are sent before following.
func tailComponent(cmd *cobra.Command, component, path string, follow bool, n int, out chan<- TailedLine) error {
	ctx := cmd.Context()
	if n < 0 {
		return logging.TailFile(ctx, path, logging.TailOptions{Follow: follow}, func(line string) bool {
			out <- TailedLine{Component: component, Line: line}
			return true
		})
	}

	var ring []string
	err := logging.TailFile(ctx, path, logging.TailOptions{}, func(line string) bool {
		ring = append(ring, line)
		if len(ring) > n {
			ring = ring[1:]
		}
		return true
	})
	if err != nil && !follow {
		return err
	}
	for _, line := range ring {
		out <- TailedLine{Component: component, Line: line}
	}
	if !follow {
		return nil
	}
	return logging.TailFile(ctx, path, logging.TailOptions{Follow: true, FromEnd: true}, func(line string) bool {
		out <- TailedLine{Component: component, Line: line}
		return true
	})
}

func printLogJSON(w io.Writer, l TailedLine) error {
	return printJSON(w, l)
}

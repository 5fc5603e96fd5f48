package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/ratedesk/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerHints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "unauthorized",
			err:  errors.HTTPStatus(401, "Authentication required"),
			want: []string{"Authentication required", "RATEDESK_TOKEN"},
		},
		{
			name: "network",
			err:  errors.RequestFailed("GET", "/api/ratecards", assert.AnError),
			want: []string{"Could not reach the API", "GET /api/ratecards", "--api-url"},
		},
		{
			name: "config not found",
			err:  errors.ConfigNotFound("/tmp/x.yml"),
			want: []string{"Configuration not found", "--config"},
		},
		{
			name: "server message",
			err:  errors.APIFailure("Add pricing before publishing"),
			want: []string{"Error: Add pricing before publishing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestErrorHandlerVerboseDetails(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}
	h.Handle(errors.ValidationFailed("title", "is required"))
	assert.Contains(t, buf.String(), "title is required")
	assert.Contains(t, buf.String(), `"code": "VALIDATION"`)

	assert.NoError(t, h.Handle(nil))
}

func newTestCommand(args ...string) *cobra.Command {
	cmd := NewStandardCommand("ratedesk", "test")
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	return cmd
}

func TestLoadConfigAppliesFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ratedesk.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0\"\napi:\n  base_url: http://file.example\n"), 0o644))

	cmd := newTestCommand("--config", path, "--api-url", "http://flag.example", "--token", "tok")
	require.NoError(t, cmd.Execute())

	cfg, err := LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example", cfg.API.BaseURL)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, "30s", cfg.API.Timeout)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	cmd := newTestCommand("--config", filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, cmd.Execute())

	_, err := LoadConfig(cmd)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestStyledHelp(t *testing.T) {
	root := NewStandardCommand("ratedesk", "Manage rate cards")
	sub := &cobra.Command{
		Use:     "list",
		Short:   "List rate cards",
		Example: "ratedesk list --status draft",
		RunE:    func(*cobra.Command, []string) error { return nil },
	}
	sub.Flags().String("status", "", "Filter by status")
	root.AddCommand(sub)
	ApplyStyledHelpRecursive(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"list", "--help"})
	require.NoError(t, root.Execute())

	text := out.String()
	assert.Contains(t, text, "RATEDESK LIST")
	assert.Contains(t, text, "FLAGS")
	assert.Contains(t, text, "--status")
	assert.Contains(t, text, "EXAMPLES")
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("one two three four five", 9)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 9)
	}
	assert.Equal(t, "a\nb", wrapText("a\nb", 10))
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)
	p.Update("history", StatusStarting)
	p.Update("analytics", StatusFailed)
	p.Update("history", StatusCompleted)
	p.Done()

	assert.Equal(t, [][2]string{{"analytics", StatusFailed}, {"history", StatusCompleted}}, p.Statuses())
	assert.Contains(t, buf.String(), "history: completed")
	assert.Contains(t, buf.String(), "completed in")
}

func TestNewLoggerOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("demo-server", WithOutput(&buf))
	logger.Info("listening")
	assert.Contains(t, buf.String(), "listening")
	assert.Contains(t, buf.String(), "demo-server")

	buf.Reset()
	cmd := newTestCommand("--verbose", "--json")
	require.NoError(t, cmd.Execute())
	logger = NewLogger("demo-server", WithOutput(&buf), FromFlags(cmd))
	logger.Debug("request")
	assert.Contains(t, buf.String(), `"msg":"request"`)
	assert.Contains(t, buf.String(), `"component":"demo-server"`)
}

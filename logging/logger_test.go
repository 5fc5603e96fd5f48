package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLoggers() {
	loggersMu.Lock()
	loggers = make(map[string]*logrus.Entry)
	loggersMu.Unlock()
}

func TestNewLogger(t *testing.T) {
	t.Setenv("RATEDESK_LOG_DIR", t.TempDir())
	defer resetLoggers()

	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}
	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}

	if again := NewLogger("test-component"); again != logger {
		t.Error("Expected the cached logger to be returned")
	}
}

func TestLoggerWritesComponentFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RATEDESK_LOG_DIR", dir)
	defer resetLoggers()

	NewLogger("file-test").Info("hello file")

	data, err := os.ReadFile(LogFilePath("file-test", time.Now()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Equal(t, dir, filepath.Dir(LogFilePath("x", time.Now())))
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{}})

	logger.WithField("component", "test").Info("Test message")

	output := buf.String()
	for _, want := range []string{"[INFO]", "[test]", "Test message"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "test message",
				Data: logrus.Fields{
					"component": "api",
					"status":    200,
					"method":    "GET",
				},
			},
			want: []string{"[INFO]", "[api]", "test message", "method=GET status=200"},
		},
		{
			name:   "api request fields",
			config: FormatConfig{DisableTimestamp: true},
			entry: &logrus.Entry{
				Level:   logrus.DebugLevel,
				Message: "request completed",
				Data: logrus.Fields{
					"component":  "api",
					"method":     "POST",
					"path":       "/api/ratecards",
					"request_id": "0f8fad5b-d9cb-469f-a165-70867728950e",
					"status":     201,
				},
			},
			want:    []string{"[DEBUG]", "POST /api/ratecards (0f8fad5b) request completed status=201"},
			notWant: []string{"method=", "request_id="},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
			},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "warning message",
				Data:    logrus.Fields{"component": "api"},
			},
			want:    []string{"[WARN]", "warning message"},
			notWant: []string{"[api]"},
		},
		{
			name:   "caller information with function name",
			config: FormatConfig{},
			entry: func() *logrus.Entry {
				logger := logrus.New()
				logger.SetReportCaller(true)
				return &logrus.Entry{
					Logger:  logger,
					Level:   logrus.InfoLevel,
					Message: "test message with caller",
					Data:    logrus.Fields{"component": "store"},
					Caller: &runtime.Frame{
						File:     "/path/to/file.go",
						Line:     42,
						Function: "github.com/example/package.TestFunction",
					},
				}
			}(),
			want: []string{"[INFO]", "[store]", "[file.go:42 package.TestFunction]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}
			tt.entry.Time = tt.entry.Time.UTC()

			output, err := formatter.Format(tt.entry)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			outputStr := string(output)
			for _, want := range tt.want {
				if !strings.Contains(outputStr, want) {
					t.Errorf("Expected output to contain '%s', got: %s", want, outputStr)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(outputStr, notWant) {
					t.Errorf("Expected output NOT to contain '%s', got: %s", notWant, outputStr)
				}
			}
		})
	}
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("RATEDESK_LOG_DIR", t.TempDir())
	t.Setenv("RATEDESK_LOG_LEVEL", "debug")
	t.Setenv("RATEDESK_LOG_CALLER", "true")
	defer resetLoggers()

	logger := NewLogger("env-test")

	if logger.Logger.Level != logrus.DebugLevel {
		t.Errorf("Expected debug level from env var, got %v", logger.Logger.Level)
	}
	if !logger.Logger.ReportCaller {
		t.Error("Expected caller reporting to be enabled from env var")
	}
}

func TestShouldLogToStderr(t *testing.T) {
	assert.True(t, shouldLogToStderr("always", logrus.InfoLevel))
	assert.False(t, shouldLogToStderr("never", logrus.DebugLevel))
	assert.True(t, shouldLogToStderr("auto", logrus.DebugLevel))
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)

	p.Success("Rate card published")
	p.Error("Publish failed", os.ErrPermission)
	p.Field("views", 42)
	p.Print(ToneWarning, "publish", "Sharing link expires soon", nil)

	out := buf.String()
	assert.Contains(t, out, "Rate card published")
	assert.Contains(t, out, "[publish]")
	assert.Contains(t, out, "Publish failed")
	assert.Contains(t, out, os.ErrPermission.Error())
	assert.Contains(t, out, "42")
}

func TestTailFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644))

	var lines []string
	err := TailFile(context.Background(), path, TailOptions{}, func(line string) bool {
		lines = append(lines, line)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestTailFileStopsEarly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []string
	err := TailFile(ctx, path, TailOptions{Follow: true}, func(line string) bool {
		got = append(got, line)
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, got)
}

func TestTailFileMissing(t *testing.T) {
	err := TailFile(context.Background(), filepath.Join(t.TempDir(), "nope.log"), TailOptions{}, func(string) bool { return true })
	assert.Error(t, err)
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/ratedesk/cli"
	"github.com/grovetools/ratedesk/config"
	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/pkg/api"
	"github.com/grovetools/ratedesk/pkg/auth"
	"github.com/grovetools/ratedesk/pkg/notify"
	"github.com/grovetools/ratedesk/pkg/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// session wires config, auth, the API client and the store for one command run.
type session struct {
	cfg    *config.Config
	store  *store.Store
	hub    *notify.Hub
	logger *logrus.Entry
	json   bool
	out    io.Writer

	closers []func() error
	cancel  context.CancelFunc
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts := cli.GetOptions(cmd)
	logger := cli.GetLogger(cmd)

	ctx, cancel := context.WithCancel(cmd.Context())
	s := &session{
		cfg:    cfg,
		logger: logger,
		json:   opts.JSONOutput,
		out:    cmd.OutOrStdout(),
		cancel: cancel,
	}

	tokens, err := s.tokenSource(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	timeout, err := cfg.API.TimeoutDuration()
	if err != nil {
		s.Close()
		return nil, errors.ConfigInvalid("api.timeout: " + err.Error())
	}

	clientOpts := []api.Option{
		api.WithTokenSource(tokens),
		api.WithLogger(logger.WithField("component", "api")),
	}
	if timeout > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(timeout))
	}
	if cfg.API.RateLimit > 0 {
		clientOpts = append(clientOpts, api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst))
	}
	client := api.New(cfg.API.BaseURL, clientOpts...)

	// Failures are reported once by the error handler, so the console only
	// shows the other toasts.
	s.hub = notify.NewHub()
	if !s.json {
		console := notify.NewConsole(cmd.ErrOrStderr())
		s.hub.AddSink(notify.SinkFunc(func(n notify.Notification) {
			if n.Level != notify.LevelError {
				console.Notify(n)
			}
		}))
	}

	s.store = store.New(client, store.WithNotifier(s.hub), store.WithLogger(logger.WithField("component", "store")))
	s.closers = append(s.closers, func() error {
		s.store.Close()
		return nil
	})
	return s, nil
}

// tokenSource picks the bearer token source in precedence order: an
// explicit token, a token file, then an environment variable.
func (s *session) tokenSource(ctx context.Context) (auth.TokenSource, error) {
	ac := s.cfg.API
	switch {
	case ac.Token != "":
		return auth.StaticToken(ac.Token), nil
	case ac.TokenFile != "":
		ft := auth.NewFileToken(ac.TokenFile)
		if err := ft.Watch(ctx); err != nil {
			s.logger.WithError(err).Debug("Token file watcher unavailable, token is read once")
		} else {
			s.closers = append(s.closers, ft.Close)
		}
		return ft, nil
	default:
		return auth.EnvToken(ac.TokenEnv), nil
	}
}

// Close cancels background refetches, joins them and releases watchers.
func (s *session) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.cancel()
	return first
}

// emit prints v as JSON in --json mode, otherwise calls human.
func (s *session) emit(v interface{}, human func(w io.Writer)) error {
	if s.json {
		return printJSON(s.out, v)
	}
	human(s.out)
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput decodes a JSON or YAML document into v. Keys follow the API's
// JSON field names in both formats. A path of "-" reads stdin.
func readInput(cmd *cobra.Command, path string, v interface{}) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to read input").WithDetail("path", path)
	}

	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "input is neither JSON nor YAML").WithDetail("path", path)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "input cannot be represented as JSON").WithDetail("path", path)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("input does not match the expected shape: %v", err)).
			WithDetail("path", path)
	}
	return nil
}

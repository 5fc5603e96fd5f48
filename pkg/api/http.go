package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/logging"
	"github.com/grovetools/ratedesk/pkg/auth"
	"github.com/grovetools/ratedesk/pkg/profiling"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 10 << 20
)

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenSource
	limiter    *rate.Limiter
	logger     *logrus.Entry
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTokenSource sets where the bearer token comes from.
func WithTokenSource(ts auth.TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// WithRateLimit limits outgoing requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Entry) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// New creates an HTTPClient for the API at baseURL (e.g. https://api.example.com).
func New(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     auth.StaticToken(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewLogger("api")
	}
	return c
}

// do sends a request and decodes the envelope's data into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	defer profiling.Start(method + " " + path).Stop()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.RequestFailed(method, path, err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to encode request body").
				WithDetail("path", path)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.RequestFailed(method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("Request failed")
		return errors.RequestFailed(method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return errors.RequestFailed(method, path, err)
	}
	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("Request completed")

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if decodeErr == nil {
			msg = env.message()
		}
		return errors.HTTPStatus(resp.StatusCode, msg).
			WithDetail("path", path).
			WithDetail("requestId", requestID)
	}
	if decodeErr != nil {
		return errors.DecodeFailed(path, decodeErr)
	}
	if !env.Success {
		return errors.APIFailure(env.message()).WithDetail("path", path)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.DecodeFailed(path, err)
	}
	return nil
}

func ratecardPath(id string, rest ...string) string {
	p := "/api/ratecards/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

func missing(path, field string) error {
	return errors.New(errors.ErrCodeDecode, fmt.Sprintf("response is missing %s", field)).
		WithDetail("path", path)
}

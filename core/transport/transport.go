package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"url-policy-sync/core/metrics"
	"url-policy-sync/core/utils"

	"go.uber.org/zap"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient sets a custom HTTP client. Its Timeout is left untouched.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		t.http = client
	}
}

// WithAuthenticator sets the authenticator applied to every request.
func WithAuthenticator(a Authenticator) Option {
	return func(t *Transport) {
		t.auth = a
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) {
		t.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// WithSleeper replaces the backoff sleep.
func WithSleeper(s Sleeper) Option {
	return func(t *Transport) {
		t.sleep = s
	}
}

// Transport executes single logical HTTP calls with bounded retries.
// It holds no state between calls besides its configuration.
type Transport struct {
	cfg     Config
	baseURL string
	http    *http.Client
	auth    Authenticator
	logger  *zap.Logger
	metrics *metrics.Metrics
	sleep   Sleeper
}

// Response is the raw outcome of a call that reached the server.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Err returns an *ApplicationError when the status is >= 400.
func (r *Response) Err(method, path string) error {
	if r.StatusCode >= 400 {
		return &ApplicationError{Method: method, Path: path, StatusCode: r.StatusCode, Body: r.Body}
	}
	return nil
}

// Excerpt returns the body truncated for diagnostics.
func (r *Response) Excerpt() string {
	return utils.Excerpt(r.Body)
}

// attempt is the per-call retry state.
type attempt struct {
	number  int
	backoff time.Duration
	lastErr error
}

// New creates a Transport. Zero values in cfg fall back to 60s / 3 attempts / base 2.
func New(cfg Config, opts ...Option) *Transport {
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 60
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase < 1 {
		cfg.BackoffBase = 2
	}

	t := &Transport{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.Endpoint(), "/"),
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		auth:    cfg.Authenticator(),
		logger:  zap.NewNop(),
		sleep:   sleepContext,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Config returns the effective configuration.
func (t *Transport) Config() Config {
	return t.cfg
}

// Backoff returns the delay scheduled after the given failed attempt (1-based).
func (t *Transport) Backoff(attemptNumber int) time.Duration {
	secs := math.Pow(t.cfg.BackoffBase, float64(attemptNumber))
	return time.Duration(secs * float64(time.Second))
}

// Do executes method on path with an optional JSON body.
//
// Transport failures are retried with exponential backoff and surface as
// *Failure once every attempt failed. Any HTTP status, including >= 400, is
// returned as a Response without retrying.
func (t *Transport) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	state := attempt{}
	for state.number = 1; state.number <= t.cfg.MaxAttempts; state.number++ {
		t.logger.Debug("Remote call",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", state.number),
			zap.Int("max_attempts", t.cfg.MaxAttempts),
		)

		resp, err := t.once(ctx, method, path, payload)
		if err == nil {
			if resp.StatusCode >= 400 {
				t.logger.Warn("Remote returned error status",
					zap.String("method", method),
					zap.String("path", path),
					zap.Int("status", resp.StatusCode),
					zap.String("body", resp.Excerpt()),
				)
			}
			return resp, nil
		}

		state.lastErr = err
		t.logger.Warn("Remote call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", state.number),
			zap.Error(err),
		)

		if state.number == t.cfg.MaxAttempts || ctx.Err() != nil {
			break
		}

		wait := t.Backoff(state.number)
		state.backoff += wait
		t.metrics.IncRetry(method)
		t.logger.Info("Retrying remote call", zap.Duration("wait", wait), zap.Duration("total_backoff", state.backoff))

		if err := t.sleep(ctx, wait); err != nil {
			state.lastErr = err
			break
		}
	}

	return nil, &Failure{Method: method, Path: path, Attempts: state.number, Err: state.lastErr}
}

// once performs a single attempt.
func (t *Transport) once(ctx context.Context, method, path string, payload []byte) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", t.cfg.UserAgent)
	}
	if t.auth != nil {
		t.auth.Apply(req)
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		t.metrics.ObserveRequest(method, 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.metrics.ObserveRequest(method, 0, time.Since(start))
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	t.metrics.ObserveRequest(method, resp.StatusCode, time.Since(start))

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRoundTripper fails every request and counts the attempts.
type failingRoundTripper struct {
	calls atomic.Int32
	failN int32 // fail only the first failN calls when > 0
	next  http.RoundTripper
}

func (f *failingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	n := f.calls.Add(1)
	if f.failN == 0 || n <= f.failN {
		return nil, errors.New("connection refused")
	}
	return f.next.RoundTrip(req)
}

// recordingSleeper records requested delays without sleeping.
type recordingSleeper struct {
	waits []time.Duration
}

func (r *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return ctx.Err()
}

func TestDo_SendsJSONHeadersAndBody(t *testing.T) {
	var gotBody []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/security", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		cookie, err := r.Cookie("JSESSIONID")
		require.NoError(t, err)
		assert.Equal(t, "abc123", cookie.Value)

		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	tr := New(Config{BaseURL: server.URL + "/api/v1/", SessionID: "abc123"})

	resp, err := tr.Do(context.Background(), http.MethodPut, "/security", []string{"a.com", "b.com"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"a.com", "b.com"}, gotBody)
}

func TestDo_ApplicationErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"INVALID"}`))
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	tr := New(Config{BaseURL: server.URL}, WithSleeper(sleeper.sleep))

	resp, err := tr.Do(context.Background(), http.MethodPut, "/security/advanced/blacklistUrls", []string{"x.com"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
	assert.Empty(t, sleeper.waits)

	appErr := resp.Err(http.MethodPut, "/security/advanced/blacklistUrls")
	var target *ApplicationError
	require.ErrorAs(t, appErr, &target)
	assert.Equal(t, 400, target.StatusCode)
	assert.Contains(t, target.Excerpt(), "INVALID")
}

func TestDo_TransportFailureBacksOffExponentially(t *testing.T) {
	rt := &failingRoundTripper{}
	sleeper := &recordingSleeper{}
	tr := New(
		Config{BaseURL: "https://remote.invalid", MaxAttempts: 3, BackoffBase: 2},
		WithHTTPClient(&http.Client{Transport: rt}),
		WithSleeper(sleeper.sleep),
	)

	resp, err := tr.Do(context.Background(), http.MethodGet, "/security", nil)
	assert.Nil(t, resp)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 3, failure.Attempts)
	assert.Equal(t, int32(3), rt.calls.Load())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.waits)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDo_RecoversAfterTransientFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["a.com"]`))
	}))
	defer server.Close()

	rt := &failingRoundTripper{failN: 1, next: http.DefaultTransport}
	sleeper := &recordingSleeper{}
	tr := New(Config{BaseURL: server.URL},
		WithHTTPClient(&http.Client{Transport: rt}),
		WithSleeper(sleeper.sleep),
	)

	resp, err := tr.Do(context.Background(), http.MethodGet, "/security/advanced/blacklistUrls", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `["a.com"]`, string(resp.Body))
	assert.Equal(t, int32(2), rt.calls.Load())
	assert.Equal(t, []time.Duration{2 * time.Second}, sleeper.waits)
}

func TestDo_CancelledContextStopsRetrying(t *testing.T) {
	rt := &failingRoundTripper{}
	ctx, cancel := context.WithCancel(context.Background())
	tr := New(Config{BaseURL: "https://remote.invalid", MaxAttempts: 5},
		WithHTTPClient(&http.Client{Transport: rt}),
		WithSleeper(func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	_, err := tr.Do(ctx, http.MethodGet, "/security", nil)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 1, failure.Attempts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	tr := New(Config{BackoffBase: 2})
	assert.Equal(t, 2*time.Second, tr.Backoff(1))
	assert.Equal(t, 4*time.Second, tr.Backoff(2))
	assert.Equal(t, 8*time.Second, tr.Backoff(3))
}

func TestNew_Defaults(t *testing.T) {
	tr := New(Config{Cloud: "zscalerbeta"})
	cfg := tr.Config()

	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2.0, cfg.BackoffBase)
	assert.Equal(t, "https://zsapi.zscalerbeta.net/api/v1", cfg.Endpoint())
}

func TestConfig_Authenticator(t *testing.T) {
	assert.Nil(t, Config{}.Authenticator())
	assert.Equal(t, SessionCookie{ID: "s"}, Config{SessionID: "s", APIToken: "t"}.Authenticator())
	assert.Equal(t, BearerToken{Token: "t"}, Config{APIToken: "t"}.Authenticator())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	BearerToken{Token: "t"}.Apply(req)
	assert.Equal(t, "Bearer t", req.Header.Get("Authorization"))
}

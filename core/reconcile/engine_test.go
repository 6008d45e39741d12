package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"url-policy-sync/core/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter serves a remote list from memory and records writes.
type fakeAdapter struct {
	body     string
	fields   []string
	fetchErr error
	status   int
	respBody string
	writeErr error
	writes   int
	payloads []any
	conflict bool
}

func (f *fakeAdapter) Name() string { return "denylist" }

func (f *fakeAdapter) Fetch(ctx context.Context) (*PolicyList, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	ext, err := ExtractList([]byte(f.body), f.fields...)
	if err != nil {
		return &PolicyList{Target: f.Name(), ShapeErr: err}, nil
	}
	return &PolicyList{Target: f.Name(), Entries: Normalize(ext.Entries), Carrier: ext.Carrier}, nil
}

func (f *fakeAdapter) Write(ctx context.Context, list *PolicyList, merged []string) (*transport.Response, error) {
	f.writes++
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	payload, err := list.Carrier.Payload(merged)
	if err != nil {
		return nil, err
	}
	f.payloads = append(f.payloads, payload)

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	if status < 400 {
		data, _ := json.Marshal(payload)
		f.body = string(data)
	}
	return &transport.Response{StatusCode: status, Body: []byte(f.respBody)}, nil
}

// conflictAdapter classifies duplicate rejections as already present.
type conflictAdapter struct {
	*fakeAdapter
}

func (c conflictAdapter) AlreadyPresent(resp *transport.Response) bool {
	return strings.Contains(string(resp.Body), "DUPLICATE_ITEM")
}

func newFake(body string) *fakeAdapter {
	return &fakeAdapter{body: body, fields: []string{"blacklistUrls"}}
}

func TestReconcile_MergesInRemoteOrder(t *testing.T) {
	adapter := newFake(`{"blacklistUrls": ["x.com", "y.com"]}`)
	spec := &Spec{Adapter: adapter}

	result := Reconcile(context.Background(), spec, Normalize([]string{"y.com", "z.com", "X.com"}), Options{RunID: "run-1"})

	assert.Equal(t, StatusUpdated, result.Status)
	assert.Equal(t, []string{"z.com"}, result.Added)
	assert.Equal(t, 2, result.ExistingCount)
	assert.Equal(t, 3, result.FinalCount)
	assert.Equal(t, "bulk_update_denylist", result.Operation)
	assert.Equal(t, "run-1", result.RunID)
	require.Len(t, adapter.payloads, 1)

	data, err := json.Marshal(adapter.payloads[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"blacklistUrls": ["x.com", "y.com", "z.com"]}`, string(data))
}

func TestReconcile_Idempotent(t *testing.T) {
	adapter := newFake(`["a.com"]`)
	spec := &Spec{Adapter: adapter}
	desired := Normalize([]string{"b.com", "c.com"})

	first := Reconcile(context.Background(), spec, desired, Options{})
	second := Reconcile(context.Background(), spec, desired, Options{})

	assert.Equal(t, StatusUpdated, first.Status)
	assert.Equal(t, StatusNoChange, second.Status)
	assert.Equal(t, "All URLs already exist", second.Message)
	assert.Equal(t, 3, second.ExistingCount)
	assert.Equal(t, 3, second.FinalCount)
	assert.Equal(t, 1, adapter.writes)
}

func TestReconcile_NoChangeSkipsWrite(t *testing.T) {
	adapter := newFake(`{"blacklistUrls": ["A.com", "b.com"]}`)

	result := Reconcile(context.Background(), &Spec{Adapter: adapter}, Normalize([]string{"a.COM"}), Options{})

	assert.Equal(t, StatusNoChange, result.Status)
	assert.Empty(t, result.Added)
	assert.Zero(t, adapter.writes)
}

func TestReconcile_DryRunNeverWrites(t *testing.T) {
	adapter := newFake(`{"blacklistUrls": ["a.com"]}`)

	result := Reconcile(context.Background(), &Spec{Adapter: adapter}, Normalize([]string{"a.com", "b.com", "c.com"}), Options{DryRun: true})

	assert.Equal(t, StatusDryRun, result.Status)
	assert.True(t, result.DryRun)
	assert.Equal(t, []string{"b.com", "c.com"}, result.Added)
	assert.Equal(t, 3, result.FinalCount)
	assert.Zero(t, adapter.writes)
	assert.False(t, result.Failed())
}

func TestReconcile_ApplicationErrorPassthrough(t *testing.T) {
	adapter := newFake(`[]`)
	adapter.status = http.StatusBadRequest
	adapter.respBody = `{"code":"INVALID_INPUT_ARGUMENT","message":"INVALID"}`

	result := Reconcile(context.Background(), &Spec{Adapter: adapter}, Normalize([]string{"a.com"}), Options{})

	assert.Equal(t, StatusError, result.Status)
	assert.True(t, result.Failed())
	assert.Equal(t, http.StatusBadRequest, result.HTTPStatus)
	assert.Contains(t, result.ErrorBody, "INVALID")
	assert.Equal(t, "API returned status 400", result.Message)
}

func TestReconcile_ErrorBodyTruncated(t *testing.T) {
	adapter := newFake(`[]`)
	adapter.status = http.StatusInternalServerError
	adapter.respBody = strings.Repeat("e", 2000)

	result := Reconcile(context.Background(), &Spec{Adapter: adapter}, Normalize([]string{"a.com"}), Options{})

	assert.Len(t, result.ErrorBody, 500)
}

func TestReconcile_FetchFailure(t *testing.T) {
	adapter := newFake("")
	adapter.fetchErr = &transport.ApplicationError{Method: "GET", Path: "/x", StatusCode: 401, Body: []byte("SESSION_NOT_VALID")}

	result := Reconcile(context.Background(), &Spec{Adapter: adapter}, Normalize([]string{"a.com"}), Options{})

	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, 401, result.HTTPStatus)
	assert.Equal(t, "SESSION_NOT_VALID", result.ErrorBody)
	assert.Contains(t, result.Message, "failed to fetch denylist")
	assert.Zero(t, adapter.writes)
}

func TestReconcile_TransportFailureOnWrite(t *testing.T) {
	adapter := newFake(`[]`)
	adapter.writeErr = &transport.Failure{Method: "PUT", Path: "/x", Attempts: 3, Err: errors.New("connection refused")}

	result := Reconcile(context.Background(), &Spec{Adapter: adapter}, Normalize([]string{"a.com"}), Options{})

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Message, "after 3 attempt(s)")
	assert.Zero(t, result.HTTPStatus)
}

func TestReconcile_ShapeErrorTreatedAsEmpty(t *testing.T) {
	adapter := newFake(`<html>maintenance</html>`)

	result := Reconcile(context.Background(), &Spec{Adapter: adapter}, Normalize([]string{"a.com"}), Options{DryRun: true})

	assert.Equal(t, StatusDryRun, result.Status)
	assert.Equal(t, 0, result.ExistingCount)
	assert.Equal(t, []string{"a.com"}, result.Added)
}

func TestReconcile_ConflictClassifiedAsNoChange(t *testing.T) {
	fake := newFake(`{"urls": []}`)
	fake.fields = []string{"urls"}
	fake.status = http.StatusConflict
	fake.respBody = `{"code":"DUPLICATE_ITEM"}`

	result := Reconcile(context.Background(), &Spec{Adapter: conflictAdapter{fake}}, Normalize([]string{"a.com"}), Options{})

	assert.Equal(t, StatusNoChange, result.Status)
	assert.False(t, result.Failed())
}

func TestReconcile_EmptyDesired(t *testing.T) {
	adapter := newFake(`["a.com"]`)

	result := Reconcile(context.Background(), &Spec{Adapter: adapter}, Normalize(nil), Options{})

	assert.Equal(t, StatusNoChange, result.Status)
	assert.Zero(t, adapter.writes)
}

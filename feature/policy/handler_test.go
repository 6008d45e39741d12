package policy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, remote *fakeRemote) *fiber.App {
	t.Helper()
	svc := NewService(newTestClient(t, remote), zap.NewNop(), Options{})
	feature := NewFeature(svc, zap.NewNop())

	assert.Equal(t, "policy", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleList(t *testing.T) {
	remote := newFakeRemote()
	remote.resources[denylistPath] = `["a.com"]`
	app := newTestApp(t, remote)

	resp, err := app.Test(httptest.NewRequest("GET", "/lists/deny", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeBody(t, resp)
	assert.Equal(t, "list_denylist", out["operation"])
	assert.Equal(t, 1.0, out["count"])
}

func TestHandleList_Errors(t *testing.T) {
	remote := newFakeRemote()
	remote.status["GET "+allowlistPath] = http.StatusUnauthorized
	remote.respBody["GET "+allowlistPath] = "SESSION_NOT_VALID"
	app := newTestApp(t, remote)

	resp, err := app.Test(httptest.NewRequest("GET", "/lists/blocklist", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/lists/allow", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, 401.0, out["http_status"])
	assert.Equal(t, "SESSION_NOT_VALID", out["error_body"])
}

func TestHandleReconcile(t *testing.T) {
	remote := newFakeRemote()
	remote.resources[denylistPath] = `{"blacklistUrls": ["x.com"]}`
	app := newTestApp(t, remote)

	t.Run("Dry Run", func(t *testing.T) {
		resp, err := app.Test(postJSON("/lists/deny/reconcile", `{"urls": ["x.com", "y.com"], "dry_run": true}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		out := decodeBody(t, resp)
		assert.Equal(t, "dry_run", out["status"])
		assert.Equal(t, []any{"y.com"}, out["would_add"])
		assert.Zero(t, remote.putCount(denylistPath))
	})

	t.Run("Update", func(t *testing.T) {
		resp, err := app.Test(postJSON("/lists/denylist/reconcile", `{"urls": ["x.com", "y.com"]}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		out := decodeBody(t, resp)
		assert.Equal(t, "updated", out["status"])
		assert.Equal(t, 1.0, out["added_count"])
	})

	t.Run("Validation", func(t *testing.T) {
		resp, err := app.Test(postJSON("/lists/deny/reconcile", `{"urls": []}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		resp, err = app.Test(postJSON("/lists/deny/reconcile", `{"urls": `))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestHandleReconcile_RemoteError(t *testing.T) {
	remote := newFakeRemote()
	remote.resources[denylistPath] = `[]`
	remote.status["PUT "+denylistPath] = http.StatusBadRequest
	remote.respBody["PUT "+denylistPath] = "INVALID"
	app := newTestApp(t, remote)

	resp, err := app.Test(postJSON("/lists/deny/reconcile", `{"urls": ["a.com"]}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	out := decodeBody(t, resp)
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, 400.0, out["http_status"])
	assert.Equal(t, "INVALID", out["error_body"])
}

func TestHandleActivate(t *testing.T) {
	remote := newFakeRemote()
	app := newTestApp(t, remote)

	resp, err := app.Test(httptest.NewRequest("POST", "/activate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACTIVE", decodeBody(t, resp)["status"])
}

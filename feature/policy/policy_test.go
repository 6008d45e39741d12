package policy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"url-policy-sync/core/transport"

	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory policy API.
type fakeRemote struct {
	mu        sync.Mutex
	resources map[string]string
	status    map[string]int
	respBody  map[string]string
	gets      map[string]int
	puts      map[string][]string
	activated int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		resources: map[string]string{},
		status:    map[string]int{},
		respBody:  map[string]string{},
		gets:      map[string]int{},
		puts:      map[string][]string{},
	}
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	key := r.Method + " " + path
	if code, ok := f.status[key]; ok {
		w.WriteHeader(code)
		_, _ = io.WriteString(w, f.respBody[key])
		return
	}

	switch r.Method {
	case http.MethodGet:
		f.gets[path]++
		body, ok := f.resources[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, body)
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.puts[path] = append(f.puts[path], string(data))
		f.resources[path] = string(data)
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		if path == activatePath {
			f.activated++
			_, _ = io.WriteString(w, `{"status":"ACTIVE"}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeRemote) lastPut(t *testing.T, path string) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	puts := f.puts[path]
	require.NotEmpty(t, puts)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(puts[len(puts)-1]), &out))
	return out
}

func (f *fakeRemote) putCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.puts[path])
}

func newTestClient(t *testing.T, remote *fakeRemote) *transport.Transport {
	t.Helper()
	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)
	return transport.New(transport.Config{BaseURL: server.URL, SessionID: "test-session"})
}

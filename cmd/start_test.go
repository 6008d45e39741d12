package cmd

import (
	"net/http/httptest"
	"testing"

	"url-policy-sync/core/config"
	"url-policy-sync/core/metrics"
	"url-policy-sync/core/server"
	"url-policy-sync/core/transport"
	"url-policy-sync/feature/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewServer(t *testing.T) {
	m := metrics.New()
	client := transport.New(transport.Config{BaseURL: "http://127.0.0.1:0"})
	app := &application{
		cfg:     &config.Config{Server: server.Config{Port: "0", ApiKey: "secret"}},
		log:     zap.NewNop(),
		metrics: m,
		client:  client,
		service: policy.NewService(client, zap.NewNop(), policy.Options{Metrics: m}),
	}
	srv := newServer(app)

	tests := []struct {
		name string
		path string
		key  string
		want int
	}{
		{"Health Is Public", "/healthz", "", fiber.StatusOK},
		{"Metrics Is Public", "/metrics", "", fiber.StatusOK},
		{"Lists Need Key", "/lists/deny", "", fiber.StatusUnauthorized},
		{"Invalid Target With Key", "/lists/nope", "secret", fiber.StatusUnprocessableEntity},
		{"Audit Disabled", "/runs", "secret", fiber.StatusNotFound},
		{"Unknown Path Needs Key", "/nope", "", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			resp, err := srv.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
		})
	}

	resp, err := srv.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.NotEqual(t, fiber.StatusUnauthorized, resp.StatusCode)
}
